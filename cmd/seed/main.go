package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	crmrepo "roofing_crm_backend/internal/crm/repository"
	"roofing_crm_backend/internal/crm/seed"
	"roofing_crm_backend/platform/config"
	"roofing_crm_backend/platform/db"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"
)

func main() {
	path := flag.String("file", "fixtures/roofing.yaml", "path to the YAML fixture")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	if err := run(context.Background(), cfg, log, *path); err != nil {
		log.Error("seed failed", "file", *path, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	snap, err := seed.Parse(f, validator.New())
	if err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	repo := crmrepo.New(pool)
	if err := repo.WithTx(ctx, func(tx *crmrepo.Repository) error {
		return seed.Apply(ctx, tx, snap)
	}); err != nil {
		return err
	}

	log.Info("seed complete",
		"accounts", len(snap.Accounts),
		"contacts", len(snap.Contacts),
		"properties", len(snap.Properties),
		"leads", len(snap.Leads),
	)
	return nil
}
