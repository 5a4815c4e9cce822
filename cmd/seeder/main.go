// cmd/seeder/main.go
//
// Seeds the inventory document from a local JSON file. Intended for
// bootstrapping a fresh store or restoring from an export:
//
//	seeder -file items.json            # fails if a document already exists
//	seeder -file items.json -force     # overwrite the current document
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/elikagan/objectlesson-api/internal/adapters/blobrepo"
	"github.com/elikagan/objectlesson-api/internal/adapters/githubstore"
	"github.com/elikagan/objectlesson-api/internal/core/domain"
	"github.com/elikagan/objectlesson-api/internal/pkg/config"
	"github.com/elikagan/objectlesson-api/internal/pkg/logger"
)

func main() {
	var (
		filePath = flag.String("file", "", "path to a JSON file with an array of items")
		force    = flag.Bool("force", false, "overwrite an existing inventory document")
		dryRun   = flag.Bool("dry-run", false, "validate and report without writing")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "text").Logger

	if *filePath == "" {
		slogger.Error("missing required -file flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, slogger, *filePath, *force, *dryRun); err != nil {
		slogger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, slogger *slog.Logger, filePath string, force, dryRun bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	inv := domain.NewInventory()
	for idx := range items {
		item := items[idx]
		if item.ID == "" {
			item.ID = inv.NextID()
		}
		if inv.FindByID(item.ID) != nil {
			return fmt.Errorf("%w in seed file: %s", domain.ErrDuplicateID, item.ID)
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("invalid item %s: %w", item.ID, err)
		}
		item.PrepareForStorage()
		item.Order = idx
		inv.Items = append(inv.Items, item)
	}
	inv.Sort()

	slogger.Info("seed file parsed",
		slog.Int("items", len(inv.Items)),
		slog.Int("active", len(inv.ActiveIDs())))

	if dryRun {
		slogger.Info("dry run, nothing written")
		return nil
	}

	store := githubstore.New(githubstore.Config{
		Owner:   cfg.GitHub.Owner,
		Repo:    cfg.GitHub.Repo,
		Branch:  cfg.GitHub.Branch,
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: cfg.GitHub.Timeout,
	}, slogger)

	repo := blobrepo.NewInventoryRepository(store, cfg.GitHub.DocumentPath, slogger)

	existing, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to check current document: %w", err)
	}
	if existing.VersionTag != "" && !force {
		return errors.New("inventory document already exists, re-run with -force to overwrite")
	}
	// carry the version tag so the overwrite goes through the normal
	// compare-and-swap path
	inv.VersionTag = existing.VersionTag

	tag, err := repo.Save(ctx, inv, fmt.Sprintf("Seed inventory (%d items)", len(inv.Items)))
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	slogger.Info("inventory document seeded",
		slog.Int("items", len(inv.Items)),
		slog.String("version", tag))
	return nil
}
