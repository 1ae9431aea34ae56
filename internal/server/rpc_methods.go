package server

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/imgwarm/common"
	"github.com/warpdl/imgwarm/pkg/preload"
)

// Custom JSON-RPC error codes for preload operations.
const (
	codeUnsupportedScheme = jrpc2.Code(-32001)
	codeInvalidParams     = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	Version   string // Daemon version
	Commit    string // Git commit
	BuildType string // Build type
}

// RPCServer holds the JSON-RPC method table and the HTTP bridge over it.
type RPCServer struct {
	methods   handler.Map
	bridge    jhttp.Bridge
	secret    string
	version   string
	commit    string
	buildType string
	sched     *preload.Scheduler
	schemes   map[string]struct{}
}

// NewRPCServer creates an RPCServer that forwards preload requests to sched.
// schemes lists the URL schemes preload.add accepts; empty accepts any.
func NewRPCServer(cfg *RPCConfig, sched *preload.Scheduler, schemes []string) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		sched:     sched,
	}
	if len(schemes) > 0 {
		rs.schemes = make(map[string]struct{}, len(schemes))
		for _, s := range schemes {
			rs.schemes[strings.ToLower(s)] = struct{}{}
		}
	}

	rs.methods = handler.Map{
		common.MethodGetVersion: handler.New(rs.systemGetVersion),
		common.MethodAdd:        handler.New(rs.preloadAdd),
		common.MethodStatus:     handler.New(rs.preloadStatus),
		common.MethodStats:      handler.New(rs.preloadStats),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// preloadAdd queues a URL. It returns as soon as the request is admitted;
// the outcome is pushed to WebSocket clients.
func (rs *RPCServer) preloadAdd(_ context.Context, p *common.AddParams) (*common.StateResult, error) {
	if p.URL == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	parsed, err := url.Parse(p.URL)
	if err != nil || parsed.Scheme == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: " + p.URL}
	}
	if rs.schemes != nil {
		if _, ok := rs.schemes[strings.ToLower(parsed.Scheme)]; !ok {
			return nil, &jrpc2.Error{Code: codeUnsupportedScheme, Message: "unsupported scheme: " + parsed.Scheme}
		}
	}
	if p.TimeoutMs < 0 {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "timeoutMs must not be negative"}
	}

	rs.sched.PreloadRequest(preload.Request{
		URL:      p.URL,
		Priority: p.Priority,
		Timeout:  time.Duration(p.TimeoutMs) * time.Millisecond,
	})
	return &common.StateResult{URL: p.URL, State: rs.state(p.URL)}, nil
}

func (rs *RPCServer) preloadStatus(_ context.Context, p *common.URLParam) (*common.StateResult, error) {
	if p.URL == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	return &common.StateResult{URL: p.URL, State: rs.state(p.URL)}, nil
}

func (rs *RPCServer) preloadStats(_ context.Context) (*common.StatsResult, error) {
	st := rs.sched.Stats()
	return &st, nil
}

// state reports where url currently sits in the scheduler. A failed URL
// is unknown: it is in none of the sets.
func (rs *RPCServer) state(url string) common.PreloadState {
	switch {
	case rs.sched.IsLoaded(url):
		return common.StateLoaded
	case rs.sched.IsLoading(url):
		return common.StateLoading
	case rs.sched.IsQueued(url):
		return common.StateQueued
	default:
		return common.StateUnknown
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
