package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/urfave/cli"
	"github.com/warpdl/imgwarm/cmd/common"
	cmn "github.com/warpdl/imgwarm/common"
)

const DEF_CLIENT_TIMEOUT = 10 * time.Second

// bearerTransport adds the daemon token to every request.
type bearerTransport struct {
	secret string
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.secret)
	return t.base.RoundTrip(req)
}

// newRPCClient returns a JSON-RPC client for the daemon at addr.
func newRPCClient(addr, secret string) *jrpc2.Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	hc := &http.Client{
		Transport: &bearerTransport{secret: secret, base: http.DefaultTransport},
		Timeout:   DEF_CLIENT_TIMEOUT,
	}
	ch := jhttp.NewChannel(strings.TrimSuffix(addr, "/")+cmn.RPCPath, &jhttp.ChannelOptions{Client: hc})
	return jrpc2.NewClient(ch, nil)
}

func callAdd(ctx context.Context, c *jrpc2.Client, url string, priority int) (*cmn.StateResult, error) {
	var res cmn.StateResult
	err := c.CallResult(ctx, cmn.MethodAdd, &cmn.AddParams{URL: url, Priority: priority}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func callStatus(ctx context.Context, c *jrpc2.Client, url string) (*cmn.StateResult, error) {
	var res cmn.StateResult
	if err := c.CallResult(ctx, cmn.MethodStatus, &cmn.URLParam{URL: url}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func callStats(ctx context.Context, c *jrpc2.Client) (*cmn.StatsResult, error) {
	var res cmn.StatsResult
	if err := c.CallResult(ctx, cmn.MethodStats, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// withClient runs fn against the daemon, reporting failures the way every
// client command does.
func withClient(ctx *cli.Context, action string, fn func(context.Context, *jrpc2.Client) error) error {
	if rpcSecret == "" {
		common.PrintRuntimeErr(ctx, ctx.Command.Name, "rpc_secret",
			errors.New("no secret set, use --secret or "+cmn.RPCSecretEnv))
		return nil
	}
	c := newRPCClient(daemonAddr, rpcSecret)
	defer c.Close()
	cctx, cancel := context.WithTimeout(context.Background(), DEF_CLIENT_TIMEOUT)
	defer cancel()
	if err := fn(cctx, c); err != nil {
		common.PrintRuntimeErr(ctx, ctx.Command.Name, action, err)
	}
	return nil
}

func add(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	} else if url == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	priority := DEF_PRIORITY
	if p := ctx.Args().Get(1); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("invalid priority %q", p))
		}
		priority = n
	}
	return withClient(ctx, "add", func(cctx context.Context, c *jrpc2.Client) error {
		res, err := callAdd(cctx, c, url, priority)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", res.URL, res.State)
		return nil
	})
}

func status(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	} else if url == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	return withClient(ctx, "status", func(cctx context.Context, c *jrpc2.Client) error {
		res, err := callStatus(cctx, c, url)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", res.URL, res.State)
		return nil
	})
}

func stats(ctx *cli.Context) error {
	return withClient(ctx, "stats", func(cctx context.Context, c *jrpc2.Client) error {
		res, err := callStats(cctx, c)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	})
}
