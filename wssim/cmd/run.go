package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/wssim/config"
	"github.com/sarchlab/wssim/logging"
	"github.com/sarchlab/wssim/report"
	"github.com/sarchlab/wssim/simulation"
)

const defaultEnvFile = ".env"

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation.",
		Long: "Run a simulation. Settings are read from the defaults, then " +
			"the .env file, then the --config JSON file, then the flags.",
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	d := config.Default()
	f := runCmd.Flags()
	f.IntP("frames", "f", d.NumFrames, "number of physical frames")
	f.IntP("processes", "p", d.MaxProcesses, "maximum number of processes")
	f.IntP("pages", "v", d.NumPages, "virtual pages per process")
	f.IntP("working-set", "w", d.WorkingSetLimit, "working set limit")
	f.IntP("wait", "s", d.WaitSeconds, "seconds to wait between iterations")
	f.IntP("limit", "l", d.StoppingLimit, "iterations to run, -1 for no limit")
	f.Uint64("log2-page-size", d.Log2PageSize, "log2 of the page size")
	f.Int64("seed", d.Seed, "random seed, 0 for a time-based seed")
	f.String("log-level", d.LogLevel, "DEBUG, INFO, WARN or ERROR")
	f.BoolP("quiet", "q", false, "do not print requests and residency tables")
	f.Bool("trace-events", false, "print every simulation event")
	f.Bool("record", false, "record requests into an SQLite database")
	f.String("record-path", "", "database path without the .sqlite3 suffix")
	f.Bool("monitor", false, "serve the monitoring API")
	f.Int("monitor-port", 0, "port of the monitoring API, 0 for a random port")
	f.Bool("open-browser", false, "open the monitor in a browser")
	f.String("config", "", "JSON configuration file")
	f.String("env-file", defaultEnvFile, "file of WSSIM_* variables")
	f.Bool("print-config", false, "print the resolved configuration and exit")

	return runCmd
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.Init(cmd.ErrOrStderr(), cfg.LogLevel)

	if printOnly, _ := cmd.Flags().GetBool("print-config"); printOnly {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(cfg)
	}

	s, err := simulation.MakeBuilder().
		WithConfig(cfg).
		WithConsole(cmd.OutOrStdout()).
		Build()
	if err != nil {
		return err
	}

	atexit.Register(func() {
		if err := s.Terminate(); err != nil {
			slog.Error("terminating simulation", "error", err)
		}
	})

	stopOnSignal(cmd, s)

	if err := s.Run(); err != nil {
		return err
	}

	stats := s.GetResolver().Stats()
	if err := report.WriteSummary(cmd.OutOrStdout(), stats); err != nil {
		return err
	}

	return s.Terminate()
}

// stopOnSignal pauses the engine on SIGINT or SIGTERM, prints the summary and
// exits through atexit so that the recorder is flushed.
func stopOnSignal(cmd *cobra.Command, s *simulation.Simulation) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		s.GetEngine().Pause()

		err := report.WriteSummary(cmd.OutOrStdout(), s.GetResolver().Stats())
		if err != nil {
			slog.Error("writing summary", "error", err)
		}

		atexit.Exit(130)
	}()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	err := config.LoadEnvFile(envFile, &cfg)
	if err != nil {
		missing := errors.Is(err, fs.ErrNotExist)
		if !missing || flags.Changed("env-file") {
			return cfg, err
		}

		if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
			return cfg, err
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration: %w", err)
	}

	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	intFlags := map[string]*int{
		"frames":       &cfg.NumFrames,
		"processes":    &cfg.MaxProcesses,
		"pages":        &cfg.NumPages,
		"working-set":  &cfg.WorkingSetLimit,
		"wait":         &cfg.WaitSeconds,
		"limit":        &cfg.StoppingLimit,
		"monitor-port": &cfg.MonitorPort,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	boolFlags := map[string]*bool{
		"quiet":        &cfg.Quiet,
		"trace-events": &cfg.TraceEvents,
		"record":       &cfg.Record,
		"monitor":      &cfg.Monitor,
		"open-browser": &cfg.OpenBrowser,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	if flags.Changed("log2-page-size") {
		cfg.Log2PageSize, _ = flags.GetUint64("log2-page-size")
	}

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("record-path") {
		cfg.RecordPath, _ = flags.GetString("record-path")
	}
}
