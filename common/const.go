package common

// DEF_DAEMON_ADDR is loopback only; the RPC endpoint is not meant to be
// exposed without a proxy in front.
const DEF_DAEMON_ADDR = "127.0.0.1:9797"

// HTTP paths served by the daemon.
const (
	RPCPath     = "/jsonrpc"
	RPCWSPath   = "/jsonrpc/ws"
	MetricsPath = "/metrics"
)

// JSON-RPC method names.
const (
	MethodGetVersion = "system.getVersion"
	MethodAdd        = "preload.add"
	MethodStatus     = "preload.status"
	MethodStats      = "preload.stats"
)

// Push notification names sent to WebSocket clients.
const (
	NotifyReady  = "preload.ready"
	NotifyFailed = "preload.failed"
)

// PreloadState is the daemon's view of a URL.
type PreloadState string

const (
	StateLoaded  PreloadState = "loaded"
	StateLoading PreloadState = "loading"
	StateQueued  PreloadState = "queued"
	StateUnknown PreloadState = "unknown"
)
