// Package common provides the environment variable names and JSON-RPC wire
// types shared by the imgwarm CLI and daemon.
package common

// Environment variable names for configuration.
const (
	// MaxConcurrentEnv overrides the concurrency ceiling.
	MaxConcurrentEnv = "IMGWARM_MAX_CONCURRENT"

	// TimeoutEnv sets the default per-request deadline, e.g. "15s".
	TimeoutEnv = "IMGWARM_TIMEOUT"

	// NetworkEnv is the effective connection type hint for the probe.
	NetworkEnv = "IMGWARM_NETWORK"

	// SaveDataEnv marks the client as asking for reduced data usage.
	SaveDataEnv = "IMGWARM_SAVE_DATA"

	// UserAgentEnv overrides the User-Agent sent with fetches.
	UserAgentEnv = "IMGWARM_USER_AGENT"

	// DaemonAddrEnv is the address the daemon listens on and clients dial.
	DaemonAddrEnv = "IMGWARM_DAEMON_ADDR"

	// RPCSecretEnv is the Bearer token for the JSON-RPC endpoint.
	RPCSecretEnv = "IMGWARM_RPC_SECRET"

	// LogFileEnv is an optional file the daemon appends its log to.
	LogFileEnv = "IMGWARM_LOG_FILE"
)
