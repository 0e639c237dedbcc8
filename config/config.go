// Package config holds the parameters of a simulation run and loads them
// from .env files and JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/wssim/logging"
)

// Upper bounds of the simulated machine.
const (
	MaxFrames       = 128
	MaxProcesses    = 32
	MaxPages        = 64
	MaxWaitSeconds  = 3600
	MaxLog2PageSize = 30
)

// NoLimit as StoppingLimit lets the simulation run until it is stopped.
const NoLimit = -1

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the configuration of one simulation run.
type Config struct {
	NumFrames       int    `json:"frames"`
	MaxProcesses    int    `json:"processes"`
	NumPages        int    `json:"pages"`
	WorkingSetLimit int    `json:"working_set"`
	WaitSeconds     int    `json:"wait"`
	StoppingLimit   int    `json:"limit"`
	Log2PageSize    uint64 `json:"log2_page_size"`
	Seed            int64  `json:"seed"`

	LogLevel    string `json:"log_level"`
	Quiet       bool   `json:"quiet"`
	TraceEvents bool   `json:"trace_events"`
	Record      bool   `json:"record"`
	RecordPath  string `json:"record_path"`
	Monitor     bool   `json:"monitor"`
	MonitorPort int    `json:"monitor_port"`
	OpenBrowser bool   `json:"open_browser"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		NumFrames:       64,
		MaxProcesses:    20,
		NumPages:        50,
		WorkingSetLimit: 4,
		WaitSeconds:     3,
		StoppingLimit:   NoLimit,
		Log2PageSize:    12,
		LogLevel:        "INFO",
	}
}

// Validate reports every value that is out of its bounds.
func (c Config) Validate() error {
	var errs []error

	check := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%w: %s is %d, must be in [%d, %d]",
				ErrInvalid, name, v, lo, hi))
		}
	}

	check("frames", c.NumFrames, 1, MaxFrames)
	check("processes", c.MaxProcesses, 1, MaxProcesses)
	check("pages", c.NumPages, 1, MaxPages)
	check("working set", c.WorkingSetLimit, 1, MaxPages)
	check("wait", c.WaitSeconds, 0, MaxWaitSeconds)

	if c.StoppingLimit < NoLimit {
		errs = append(errs, fmt.Errorf("%w: limit is %d, must be %d or more",
			ErrInvalid, c.StoppingLimit, NoLimit))
	}

	if c.Log2PageSize > MaxLog2PageSize {
		errs = append(errs, fmt.Errorf("%w: log2 page size is %d, must be at most %d",
			ErrInvalid, c.Log2PageSize, MaxLog2PageSize))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log level %q is not one of "+
			"DEBUG, INFO, WARN, ERROR", ErrInvalid, c.LogLevel))
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		errs = append(errs, fmt.Errorf("%w: monitor port %d", ErrInvalid,
			c.MonitorPort))
	}

	if !c.Monitor && (c.MonitorPort != 0 || c.OpenBrowser) {
		errs = append(errs, fmt.Errorf(
			"%w: monitor options are set but monitoring is disabled", ErrInvalid))
	}

	return errors.Join(errs...)
}

// HasLimit tells whether the run stops after StoppingLimit iterations.
func (c Config) HasLimit() bool {
	return c.StoppingLimit != NoLimit
}

// LoadFile overlays the fields present in a JSON file onto c.
func LoadFile(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvFrames       = "WSSIM_FRAMES"
	EnvProcesses    = "WSSIM_PROCESSES"
	EnvPages        = "WSSIM_PAGES"
	EnvWorkingSet   = "WSSIM_WORKING_SET"
	EnvWait         = "WSSIM_WAIT"
	EnvLimit        = "WSSIM_LIMIT"
	EnvLog2PageSize = "WSSIM_LOG2_PAGE_SIZE"
	EnvSeed         = "WSSIM_SEED"
	EnvLogLevel     = "WSSIM_LOG_LEVEL"
)

// LoadEnvFile applies the variables of a .env file onto c. Variables that
// are already set in the process environment win over the file.
func LoadEnvFile(path string, c *Config) error {
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return ApplyEnv(c, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileEnv[key]

		return v, ok
	})
}

// ApplyEnv sets the fields of c whose variable lookup finds.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	var errs []error

	setInt := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok {
			return
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalid, key, v))
			return
		}

		*dst = n
	}

	setInt(EnvFrames, &c.NumFrames)
	setInt(EnvProcesses, &c.MaxProcesses)
	setInt(EnvPages, &c.NumPages)
	setInt(EnvWorkingSet, &c.WorkingSetLimit)
	setInt(EnvWait, &c.WaitSeconds)
	setInt(EnvLimit, &c.StoppingLimit)

	if v, ok := lookup(EnvLog2PageSize); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalid,
				EnvLog2PageSize, v))
		} else {
			c.Log2PageSize = n
		}
	}

	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalid, EnvSeed, v))
		} else {
			c.Seed = n
		}
	}

	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}

	return errors.Join(errs...)
}
