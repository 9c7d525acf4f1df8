package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/game"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/registry"
)

// Acts are the graphs every session plays, in order.
var Acts = []string{"character_creation", "village"}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	registry   *registry.Registry
	game       *game.Game
	closers    []io.Closer
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Misconfiguration is a
// programmer or operator error, so NewApp panics instead of returning one.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{outW: outW, logger: logger, ctx: ctx, config: appConfig}

	model, converter, err := loader.Load(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "graphs", len(model.Graphs))

	cat, lib, closer, err := openCatalog(ctx, appConfig.CatalogDSN, model.Catalog, model.Lore)
	if err != nil {
		panic(err)
	}
	a.addCloser(closer)

	svc, err := newServices(ctx, appConfig, cat, lib)
	if err != nil {
		a.closeAll()
		panic(fmt.Errorf("failed to configure services: %w", err))
	}

	a.registry = registry.New()
	a.registry.RegisterModules(gameModules(svc)...)
	logger.Debug("All Go modules registered.", "handlers", len(a.registry.HandlerNames()), "routers", len(a.registry.RouterNames()))

	defs, err := a.registry.CompileAll(ctx, model, converter)
	if err != nil {
		a.closeAll()
		panic(err)
	}

	acts := make([]*graph.Definition, 0, len(Acts))
	for _, name := range Acts {
		def, ok := defs[name]
		if !ok {
			a.closeAll()
			panic(fmt.Errorf("graph '%s' is not defined", name))
		}
		acts = append(acts, def)
	}

	repo, closer, err := newRepository(ctx, appConfig)
	if err != nil {
		a.closeAll()
		panic(fmt.Errorf("failed to open session repository: %w", err))
	}
	a.addCloser(closer)

	a.game, err = game.New(engine.New(engine.WithStepLimit(appConfig.StepLimit)), repo, acts...)
	if err != nil {
		a.closeAll()
		panic(err)
	}
	logger.Debug("Game assembled.", "acts", a.game.Acts())
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Game returns the assembled game.
func (a *App) Game() *game.Game {
	return a.game
}

func (a *App) addCloser(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// closeAll releases resources in reverse order of acquisition.
func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("Failed to close resource.", "error", err)
		}
	}
	a.closers = nil
}
