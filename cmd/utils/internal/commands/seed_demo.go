package commands

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/cmd/utils/internal/seeding"
	"github.com/appetiteclub/floor/internal/menu"
	"github.com/appetiteclub/floor/internal/mongo"
)

// SeedDemo archives a handful of settled demo tables.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	catalog, err := menu.Load(config, logger)
	if err != nil {
		return err
	}

	repo := mongo.NewReceiptRepo(config, logger)
	if err := repo.Start(ctx); err != nil {
		return err
	}
	defer repo.Stop(ctx)

	n, err := seeding.SeedReceipts(ctx, repo, catalog, time.Now())
	if err != nil {
		return err
	}

	logger.Info("Demo receipts seeded", "receipts", n)
	return nil
}
