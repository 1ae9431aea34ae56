package common

import "github.com/warpdl/imgwarm/pkg/preload"

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// AddParams is the input for preload.add.
type AddParams struct {
	URL       string `json:"url"`
	Priority  int    `json:"priority"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

// URLParam is the input for methods that take a single URL.
type URLParam struct {
	URL string `json:"url"`
}

// StateResult is the response for preload.add and preload.status.
type StateResult struct {
	URL   string       `json:"url"`
	State PreloadState `json:"state"`
}

// StatsResult is the response for preload.stats.
type StatsResult = preload.Stats

// ReadyNotification is pushed when a URL finishes loading.
type ReadyNotification struct {
	URL       string `json:"url"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// FailedNotification is pushed when a URL fails to load.
type FailedNotification struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}
