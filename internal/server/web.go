// Package server implements the imgwarm daemon: a preload scheduler behind
// a JSON-RPC 2.0 endpoint over HTTP and WebSocket, with Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/warpdl/imgwarm/common"
	"github.com/warpdl/imgwarm/pkg/logger"
	"github.com/warpdl/imgwarm/pkg/preload"
)

// WebServerOpts configures a WebServer.
type WebServerOpts struct {
	// Addr is the listen address. Empty uses common.DEF_DAEMON_ADDR.
	Addr string
	// RPC configures the JSON-RPC endpoint. Required.
	RPC *RPCConfig
	// Scheduler configures the daemon's scheduler. Its Handlers still
	// fire after the daemon's own.
	Scheduler *preload.SchedulerOpts
	// Schemes restricts the URL schemes preload.add accepts.
	Schemes []string
	// OriginPatterns are the extra origins allowed to open a WebSocket.
	OriginPatterns []string
	Logger         logger.Logger
}

type WebServer struct {
	addr           string
	l              logger.Logger
	sched          *preload.Scheduler
	rpc            *RPCServer
	notifier       *RPCNotifier
	metrics        *metrics
	originPatterns []string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewWebServer creates the daemon and its scheduler.
func NewWebServer(opts *WebServerOpts) *WebServer {
	s := &WebServer{
		addr:           opts.Addr,
		l:              opts.Logger,
		originPatterns: opts.OriginPatterns,
	}
	if s.addr == "" {
		s.addr = common.DEF_DAEMON_ADDR
	}
	if s.l == nil {
		s.l = logger.NewNopLogger()
	}
	s.notifier = NewRPCNotifier(s.l)
	s.metrics = newMetrics(func() preload.Stats { return s.sched.Stats() })

	so := preload.SchedulerOpts{}
	if opts.Scheduler != nil {
		so = *opts.Scheduler
	}
	if so.Logger == nil {
		so.Logger = s.l
	}
	so.Handlers = chainHandlers(s.metrics.handlers(), s.notifier.Handlers(), so.Handlers)
	s.sched = preload.NewScheduler(&so)

	rpcCfg := opts.RPC
	if rpcCfg == nil {
		rpcCfg = &RPCConfig{}
	}
	s.rpc = NewRPCServer(rpcCfg, s.sched, opts.Schemes)
	return s
}

// Scheduler returns the daemon's scheduler.
func (s *WebServer) Scheduler() *preload.Scheduler {
	return s.sched
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(common.RPCPath, requireToken(s.rpc.secret, false, s.metrics.instrument(s.rpc.bridge)))
	mux.Handle(common.RPCWSPath, requireToken(s.rpc.secret, true, http.HandlerFunc(s.handleWS)))
	mux.Handle(common.MetricsPath, s.metrics.handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Start listens on the configured address and serves until Shutdown.
func (s *WebServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *WebServer) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.server = &http.Server{
		Handler: s.handler(),
	}
	srv := s.server
	s.mu.Unlock()

	s.l.Info("daemon listening on %s", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Expected during shutdown
	}
	return err
}

// Addr returns the bound address once serving, else the configured one.
func (s *WebServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully stops the web server and releases the RPC bridge.
// In-flight fetches are left to finish on their own.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rpc.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// chainHandlers runs every non-nil handler of hs in order for each event.
func chainHandlers(hs ...*preload.Handlers) *preload.Handlers {
	var (
		starts  []preload.StartHandlerFunc
		readies []preload.ReadyHandlerFunc
		fails   []preload.FailedHandlerFunc
	)
	for _, h := range hs {
		if h == nil {
			continue
		}
		if h.StartHandler != nil {
			starts = append(starts, h.StartHandler)
		}
		if h.ReadyHandler != nil {
			readies = append(readies, h.ReadyHandler)
		}
		if h.FailedHandler != nil {
			fails = append(fails, h.FailedHandler)
		}
	}
	return &preload.Handlers{
		StartHandler: func(url string, priority int) {
			for _, f := range starts {
				f(url, priority)
			}
		},
		ReadyHandler: func(url string, elapsed time.Duration) {
			for _, f := range readies {
				f(url, elapsed)
			}
		},
		FailedHandler: func(url string, err error) {
			for _, f := range fails {
				f(url, err)
			}
		},
	}
}
