package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/talegrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse overlays command-line flags on base, which normally comes from the
// environment. It returns the validated config, a boolean telling the caller
// to exit cleanly (help was requested), or an *ExitError.
func Parse(args []string, output io.Writer, base app.Config) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("talegrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
talegrid - A text adventure driven by declarative conversation graphs.

Usage:
  talegrid [options] [GRID_PATH]

Arguments:
  GRID_PATH
    Directory of .hcl graph and catalog files. Defaults to the built-in grids.

Every option can also be set through its TALEGRID_* environment variable.

Options:
`)
		flagSet.PrintDefaults()
	}

	cfg := base
	flagSet.StringVar(&cfg.GridPath, "grid", cfg.GridPath, "Directory of .hcl graph and catalog files.")
	flagSet.StringVar(&cfg.GridPath, "g", cfg.GridPath, "Directory of .hcl graph and catalog files (shorthand).")
	flagSet.IntVar(&cfg.HealthcheckPort, "healthcheck-port", cfg.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled.")
	flagSet.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.IntVar(&cfg.StepLimit, "step-limit", cfg.StepLimit, "Maximum node executions in one graph run.")
	flagSet.StringVar(&cfg.CatalogDSN, "catalog", cfg.CatalogDSN, "SQLite catalog path, or ':memory:' for an in-process catalog.")
	flagSet.StringVar(&cfg.SessionBackend, "sessions", cfg.SessionBackend, "Session backend. Options: 'memory' or 'redis'.")
	flagSet.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis session backend.")
	flagSet.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "How long an idle session is kept.")
	flagSet.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "Chat model used for narration and intents.")
	flagSet.StringVar(&cfg.LLMBaseURL, "llm-base-url", cfg.LLMBaseURL, "Base URL of an OpenAI-compatible API.")
	flagSet.StringVar(&cfg.ServeAddr, "serve", cfg.ServeAddr, "Serve sessions over socket.io on this address instead of playing in the console.")
	flagSet.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "Write a YAML snapshot of the console session to this file.")
	flagSet.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP endpoint for traces. Empty disables tracing.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one grid path may be given"}
	}
	if flagSet.NArg() == 1 {
		cfg.GridPath = flagSet.Arg(0)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "grid_path", config.GridPath, "serve", config.ServeAddr)
	return config, false, nil
}
