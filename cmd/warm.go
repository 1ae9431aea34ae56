package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/imgwarm/cmd/common"
	"github.com/warpdl/imgwarm/pkg/capability"
	"github.com/warpdl/imgwarm/pkg/logger"
	"github.com/warpdl/imgwarm/pkg/manifest"
	"github.com/warpdl/imgwarm/pkg/preload"
)

func warm(ctx *cli.Context) error {
	args := []string(ctx.Args())
	if len(args) == 0 {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no manifest or url provided"),
		)
	} else if args[0] == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	resources, err := loadResources(afero.NewOsFs(), args, baseURL)
	if err != nil {
		common.PrintRuntimeErr(ctx, "warm", "load_manifest", err)
		return nil
	}
	caps := capability.Probe(newEnv())
	if warmAll {
		manifest.SortByPriority(resources)
	} else {
		resources = capability.Plan(caps, resources, nil)
	}
	if len(resources) == 0 {
		fmt.Println("Nothing to warm.")
		return nil
	}

	sctx, cancel := setupShutdownHandler()
	defer cancel()

	p := mpb.NewWithContext(sctx, mpb.WithWidth(64))
	sched := preload.NewScheduler(&preload.SchedulerOpts{
		MaxConcurrent: maxConcurrent,
		Timeout:       timeout,
		Fetcher:       preload.NewSchemeRouter(&http.Client{}, fetchHeaders()),
		Logger:        logger.NewStandardLogger(log.New(p, "", 0)),
	})
	sum := runWarm(sctx, sched, resources, common.InitWarmBar(p, int64(len(resources))))
	p.Wait()

	printSummary(os.Stdout, sum, len(resources))
	if sum.interrupted {
		return errors.New("interrupted")
	}
	return nil
}

type warmSummary struct {
	ready       []string
	failed      []preload.Result
	interrupted bool
}

// incrementer is the part of *mpb.Bar runWarm drives.
type incrementer interface {
	Increment()
	Abort(drop bool)
}

// runWarm preloads resources as one batch and waits for every outcome.
// Cancelling ctx stops the wait, not the fetches.
func runWarm(ctx context.Context, sched *preload.Scheduler, resources []manifest.Resource, bar incrementer) warmSummary {
	var (
		mu  sync.Mutex
		sum warmSummary
	)
	reqs := make([]preload.Request, len(resources))
	for i, r := range resources {
		reqs[i] = preload.Request{
			URL:      r.URL,
			Priority: r.Priority,
			OnComplete: func(res preload.Result) {
				mu.Lock()
				if res.OK() {
					sum.ready = append(sum.ready, res.URL)
				} else {
					sum.failed = append(sum.failed, res)
				}
				mu.Unlock()
				bar.Increment()
			},
		}
	}
	futures := sched.PreloadBatch(reqs)
	for _, f := range futures {
		select {
		case <-f.Done():
		case <-ctx.Done():
			bar.Abort(false)
			mu.Lock()
			defer mu.Unlock()
			sum.interrupted = true
			return sum
		}
	}
	mu.Lock()
	defer mu.Unlock()
	return sum
}

func printSummary(w io.Writer, sum warmSummary, total int) {
	fmt.Fprintf(w, "\nWarmed %d/%d images", len(sum.ready), total)
	if len(sum.failed) > 0 {
		fmt.Fprintf(w, ", %d failed:\n", len(sum.failed))
		for _, res := range sum.failed {
			fmt.Fprintf(w, "  %s\n", res.Err)
		}
		return
	}
	fmt.Fprintln(w)
}

// loadResources turns the warm arguments into resources. An argument that
// names an existing manifest file is loaded from fs; any other argument is
// a url, optionally prefixed with "priority:".
func loadResources(fs afero.Fs, args []string, base string) ([]manifest.Resource, error) {
	var out []manifest.Resource
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if manifest.FormatByPath(arg) != manifest.FormatUnknown {
			if ok, _ := afero.Exists(fs, arg); ok {
				rs, err := manifest.Load(fs, arg, base)
				if err != nil {
					return nil, err
				}
				out = append(out, rs...)
				continue
			}
		}
		r := parseURLArg(arg)
		if base != "" {
			u, err := resolveArg(base, r.URL)
			if err != nil {
				return nil, err
			}
			r.URL = u
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, errors.New("no resources found")
	}
	return manifest.Dedupe(out), nil
}

func parseURLArg(arg string) manifest.Resource {
	if i := strings.IndexByte(arg, ':'); i > 0 {
		if p, err := strconv.Atoi(arg[:i]); err == nil {
			return manifest.Resource{URL: arg[i+1:], Priority: p}
		}
	}
	return manifest.Resource{URL: arg, Priority: DEF_PRIORITY}
}

func resolveArg(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
