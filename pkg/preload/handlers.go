package preload

import (
	"time"

	"github.com/warpdl/imgwarm/pkg/logger"
)

type (
	// StartHandlerFunc is called when a request leaves the queue and its
	// fetch begins. It takes the url and the priority it ran at.
	StartHandlerFunc func(url string, priority int)
	// ReadyHandlerFunc is called when a fetch succeeds.
	// It takes the url and the time the fetch took.
	ReadyHandlerFunc func(url string, elapsed time.Duration)
	// FailedHandlerFunc is called when a fetch fails or times out.
	FailedHandlerFunc func(url string, err error)
)

// Handlers are scheduler-wide event callbacks. They run outside the
// scheduler lock and may call back into the Scheduler. StartHandler is
// called in start order and should return quickly. ReadyHandler and
// FailedHandler run after the freed slot has been refilled and the
// request's waiters have been notified.
type Handlers struct {
	StartHandler  StartHandlerFunc
	ReadyHandler  ReadyHandlerFunc
	FailedHandler FailedHandlerFunc
}

func (h *Handlers) setDefault(l logger.Logger) {
	if h.StartHandler == nil {
		h.StartHandler = func(url string, priority int) {}
	}
	if h.ReadyHandler == nil {
		h.ReadyHandler = func(url string, elapsed time.Duration) {}
	}
	if h.FailedHandler == nil {
		h.FailedHandler = func(url string, err error) {
			l.Warning("preload %s failed: %v", url, err)
		}
	} else {
		failedHandler := h.FailedHandler
		h.FailedHandler = func(url string, err error) {
			l.Warning("preload %s failed: %v", url, err)
			failedHandler(url, err)
		}
	}
}
