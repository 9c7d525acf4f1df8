package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/app"
	"github.com/specialistvlad/talegrid/internal/cli"
	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/hcl"
)

// main is the entrypoint for the talegrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stdin, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, in io.Reader, args []string) (err error) {
	base, err := app.ConfigFromEnv()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	appConfig, shouldExit, err := cli.Parse(args, outW, base)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors; recover them into a clean error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	talegrid := app.NewApp(outW, appConfig, loaderFor(appConfig.GridPath))
	return talegrid.Run(ctx, in)
}

// loaderFor reads grids from dir, or the built-in grids when dir is empty.
func loaderFor(dir string) config.Loader {
	if dir == "" {
		return hcl.NewLoader(grids.FS)
	}
	return hcl.NewLoader(os.DirFS(dir))
}
