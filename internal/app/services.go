package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/catalog/sqlite"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/dice"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/llm"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/narrative"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
)

// openCatalog opens the configured catalog and lore library and seeds both.
// The SQLite store serves as both and is also returned as a closer.
func openCatalog(ctx context.Context, dsn string, seed catalog.Seed, passages []lore.Passage) (catalog.Catalog, lore.Library, io.Closer, error) {
	logger := ctxlog.FromContext(ctx)
	if dsn == MemoryCatalog {
		logger.Debug("Using in-memory catalog.", "races", len(seed.Races), "classes", len(seed.Classes), "lore", len(passages))
		return catalog.NewMemory(seed), lore.NewMemory(passages), nil, nil
	}

	store, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	if len(seed.Races) > 0 || len(seed.Classes) > 0 {
		if err := store.Seed(ctx, seed); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	if len(passages) > 0 {
		if err := store.SeedLore(ctx, passages); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("seed lore: %w", err)
		}
	}
	logger.Info("📚 Catalog ready.", "dsn", dsn, "races", len(seed.Races), "classes", len(seed.Classes), "lore", len(passages))
	return store, store, store, nil
}

// newServices builds the language services. Without an API key the offline
// keyword classifier and template narrator are used.
func newServices(ctx context.Context, cfg *Config, cat catalog.Catalog, lib lore.Library) (*adventure.Services, error) {
	logger := ctxlog.FromContext(ctx)
	svc := &adventure.Services{
		Catalog: cat,
		Lore:    lib,
		Dice:    &dice.Random{},
	}

	if cfg.LLMAPIKey == "" {
		narrator, err := narrative.NewTemplate(nil)
		if err != nil {
			return nil, err
		}
		kw := intent.NewKeyword()
		svc.Narrator, svc.Classifier, svc.Choices, svc.Names = narrator, kw, kw, kw
		logger.Info("🗒️ No LLM API key configured, using offline narration and keyword intents.")
		return svc, svc.Validate()
	}

	client, err := llm.New(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
	})
	if err != nil {
		return nil, err
	}
	classifier := intent.NewLLM(client)
	svc.Narrator = narrative.NewLLM(client)
	svc.Classifier, svc.Choices, svc.Names = classifier, classifier, classifier
	logger.Info("🧠 LLM services configured.", "model", client.Model())
	return svc, svc.Validate()
}

func newRepository(ctx context.Context, cfg *Config) (sessionstore.Repository, io.Closer, error) {
	if cfg.SessionBackend == BackendRedis {
		r, err := sessionstore.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	}
	return sessionstore.NewMemory(cfg.SessionTTL), nil, nil
}
