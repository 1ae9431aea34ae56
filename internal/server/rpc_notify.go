package server

import (
	"context"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/imgwarm/common"
	"github.com/warpdl/imgwarm/pkg/logger"
	"github.com/warpdl/imgwarm/pkg/preload"
)

// DEF_PUSH_BUFFER is the number of notifications queued per client before
// further pushes to that client are dropped.
const DEF_PUSH_BUFFER = 64

type pushMsg struct {
	method string
	params any
}

// RPCNotifier maintains a set of connected jrpc2 WebSocket servers
// and broadcasts push notifications to all of them. Each server has its
// own queue and writer goroutine, so a client that stops reading only
// loses its own notifications.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]chan pushMsg
	l       logger.Logger
}

// NewRPCNotifier creates a new notifier. l may be nil.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]chan pushMsg),
		l:       l,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.servers[srv]; ok {
		return
	}
	q := make(chan pushMsg, DEF_PUSH_BUFFER)
	n.servers[srv] = q
	go n.deliver(srv, q)
}

// Unregister removes a server from the broadcast set and stops its writer.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if q, ok := n.servers[srv]; ok {
		delete(n.servers, srv)
		close(q)
	}
}

// deliver writes queued notifications to srv until the queue is closed.
// A server that fails to receive is unregistered.
func (n *RPCNotifier) deliver(srv *jrpc2.Server, q <-chan pushMsg) {
	for msg := range q {
		if err := srv.Notify(context.Background(), msg.method, msg.params); err != nil {
			n.l.Warning("RPC push failed: %v", err)
			n.Unregister(srv)
			for range q {
			}
			return
		}
	}
}

// Broadcast queues a push notification for every registered server.
// It never blocks; a client whose queue is full misses the notification.
func (n *RPCNotifier) Broadcast(method string, params any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, q := range n.servers {
		select {
		case q <- pushMsg{method: method, params: params}:
		default:
			n.l.Warning("RPC push queue full, dropped %s", method)
		}
	}
}

// Count returns the number of registered servers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Handlers returns scheduler handlers that push preload.ready and
// preload.failed to every connected client.
func (n *RPCNotifier) Handlers() *preload.Handlers {
	return &preload.Handlers{
		ReadyHandler: func(url string, elapsed time.Duration) {
			n.Broadcast(common.NotifyReady, &common.ReadyNotification{
				URL:       url,
				ElapsedMs: elapsed.Milliseconds(),
			})
		},
		FailedHandler: func(url string, err error) {
			n.Broadcast(common.NotifyFailed, &common.FailedNotification{
				URL:   url,
				Error: err.Error(),
			})
		},
	}
}
