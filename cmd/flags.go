package cmd

import (
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/imgwarm/common"
	"github.com/warpdl/imgwarm/pkg/preload"
)

var (
	maxConcurrent int
	timeout       time.Duration
	baseURL       string
	userAgent     string
	network       string
	saveData      bool
	accept        string
	warmAll       bool
	daemonAddr    string
	rpcSecret     string
	logFile       string
	origins       = &cli.StringSlice{}
)

var (
	maxConcurrentFlag = cli.IntFlag{
		Name:        "max-concurrent, c",
		Usage:       "maximum number of images fetched at once",
		EnvVar:      common.MaxConcurrentEnv,
		Value:       preload.DEF_MAX_CONCURRENT,
		Destination: &maxConcurrent,
	}
	timeoutFlag = cli.DurationFlag{
		Name:        "timeout, t",
		Usage:       "per-image deadline, a stalled fetch is abandoned after it (0 = none)",
		EnvVar:      common.TimeoutEnv,
		Value:       DEF_TIMEOUT,
		Destination: &timeout,
	}
	userAgentFlag = cli.StringFlag{
		Name:        "user-agent, u",
		Usage:       "user agent sent with fetches and used by the probe (warp, chrome, firefox, iphone, android or a full string)",
		EnvVar:      common.UserAgentEnv,
		Destination: &userAgent,
	}
	networkFlag = cli.StringFlag{
		Name:        "network, n",
		Usage:       "effective connection type of the client (slow-2g, 2g, 3g, 4g)",
		EnvVar:      common.NetworkEnv,
		Destination: &network,
	}
	saveDataFlag = cli.BoolFlag{
		Name:        "save-data",
		Usage:       "treat the client as asking for reduced data usage",
		EnvVar:      common.SaveDataEnv,
		Destination: &saveData,
	}
	acceptFlag = cli.StringFlag{
		Name:        "accept",
		Usage:       "image Accept header the client advertises",
		Value:       preload.DEF_ACCEPT,
		Destination: &accept,
	}
	addrFlag = cli.StringFlag{
		Name:        "addr",
		Usage:       "daemon address",
		EnvVar:      common.DaemonAddrEnv,
		Value:       common.DEF_DAEMON_ADDR,
		Destination: &daemonAddr,
	}
	secretFlag = cli.StringFlag{
		Name:        "secret",
		Usage:       "bearer token for the daemon's JSON-RPC endpoint",
		EnvVar:      common.RPCSecretEnv,
		Destination: &rpcSecret,
	}

	warmFlags = []cli.Flag{
		maxConcurrentFlag,
		timeoutFlag,
		cli.StringFlag{
			Name:        "base, b",
			Usage:       "base url that relative manifest entries are resolved against",
			Destination: &baseURL,
		},
		userAgentFlag,
		networkFlag,
		saveDataFlag,
		acceptFlag,
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "warm every resource, skipping the capability plan",
			Destination: &warmAll,
		},
	}

	probeFlags = []cli.Flag{
		userAgentFlag,
		networkFlag,
		saveDataFlag,
		acceptFlag,
	}

	daemonFlags = []cli.Flag{
		addrFlag,
		secretFlag,
		maxConcurrentFlag,
		timeoutFlag,
		userAgentFlag,
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append the daemon log to this file",
			EnvVar:      common.LogFileEnv,
			Destination: &logFile,
		},
		cli.StringSliceFlag{
			Name:  "origin",
			Usage: "extra origin pattern allowed to open a WebSocket (repeatable)",
			Value: origins,
		},
	}

	clientFlags = []cli.Flag{
		addrFlag,
		secretFlag,
	}
)
