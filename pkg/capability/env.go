package capability

import (
	"os"
	"runtime"
	"strconv"
)

// Env is the source of ambient platform signals. Implementations must not
// have side effects.
type Env interface {
	// NumCPU returns the number of logical cores.
	NumCPU() int
	// TotalMemory returns physical memory in bytes, 0 when unknown.
	TotalMemory() uint64
	// Network returns the effective connection type hint, e.g. "4g".
	Network() string
	// SaveData reports whether the user asked for reduced data usage.
	SaveData() bool
	// UserAgent returns the client user agent string.
	UserAgent() string
	// Accept returns the image Accept header the client advertises.
	Accept() string
}

// SystemEnv reads the host machine. Hints the host cannot know (network
// class, user agent, Accept) are supplied by the caller.
type SystemEnv struct {
	NetworkHint  string
	SaveDataHint bool
	UA           string
	AcceptHeader string
}

var _ Env = (*SystemEnv)(nil)

// NewSystemEnv creates a SystemEnv seeded from the given environment
// variable names. Empty names are skipped.
func NewSystemEnv(networkVar, saveDataVar string) *SystemEnv {
	e := &SystemEnv{}
	if networkVar != "" {
		e.NetworkHint = os.Getenv(networkVar)
	}
	if saveDataVar != "" {
		e.SaveDataHint, _ = strconv.ParseBool(os.Getenv(saveDataVar))
	}
	return e
}

func (e *SystemEnv) NumCPU() int         { return runtime.NumCPU() }
func (e *SystemEnv) TotalMemory() uint64 { return totalMemory() }
func (e *SystemEnv) Network() string     { return e.NetworkHint }
func (e *SystemEnv) SaveData() bool      { return e.SaveDataHint }
func (e *SystemEnv) UserAgent() string   { return e.UA }
func (e *SystemEnv) Accept() string      { return e.AcceptHeader }
