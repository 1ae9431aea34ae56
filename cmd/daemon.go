package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/imgwarm/cmd/common"
	cmn "github.com/warpdl/imgwarm/common"
	"github.com/warpdl/imgwarm/internal/server"
	"github.com/warpdl/imgwarm/pkg/logger"
	"github.com/warpdl/imgwarm/pkg/preload"
)

const DEF_SHUTDOWN_TIMEOUT = 10 * time.Second

func daemon(ctx *cli.Context) error {
	if rpcSecret == "" {
		common.PrintRuntimeErr(ctx, "daemon", "rpc_secret",
			errors.New("no secret set, use --secret or "+cmn.RPCSecretEnv))
		return nil
	}
	l, err := newDaemonLogger(logFile)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "log_file", err)
		return nil
	}
	defer l.Close()

	router := preload.NewSchemeRouter(&http.Client{}, fetchHeaders())
	ws := server.NewWebServer(&server.WebServerOpts{
		Addr: daemonAddr,
		RPC: &server.RPCConfig{
			Secret:    rpcSecret,
			Version:   currentBuildArgs.Version,
			Commit:    currentBuildArgs.Commit,
			BuildType: currentBuildArgs.BuildType,
		},
		Scheduler: &preload.SchedulerOpts{
			MaxConcurrent: maxConcurrent,
			Timeout:       timeout,
			Fetcher:       router,
		},
		Schemes:        router.Schemes(),
		OriginPatterns: origins.Value(),
		Logger:         l,
	})

	sctx, cancel := setupShutdownHandler()
	defer cancel()
	return runDaemon(sctx, ws, l)
}

// runDaemon serves until ctx is canceled, then shuts the server down.
func runDaemon(ctx context.Context, ws *server.WebServer, l logger.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- ws.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down daemon")
	sctx, cancel := context.WithTimeout(context.Background(), DEF_SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := ws.Shutdown(sctx); err != nil {
		return err
	}
	err := <-errc
	l.Info("daemon stopped")
	return err
}

// newDaemonLogger logs to stderr and, when path is set, to a file.
func newDaemonLogger(path string) (logger.Logger, error) {
	console := logger.NewStandardLogger(log.New(os.Stderr, "imgwarm: ", log.LstdFlags))
	if path == "" {
		return console, nil
	}
	fl, err := logger.NewFileLogger(path)
	if err != nil {
		return nil, err
	}
	return logger.NewMultiLogger(console, fl), nil
}
