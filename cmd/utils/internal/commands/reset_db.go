package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/internal/mongo"
	"go.mongodb.org/mongo-driver/bson"
)

// ResetDB drops the floor receipt archive. USE WITH CAUTION.
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	dbName := config.GetStringOrDef("db.mongo.name", mongo.DefaultDatabase)
	logger.Infof("⚠️  DANGER: This will drop the %s database!", dbName)
	logger.Infof("⚠️  This action cannot be undone!")

	repo := mongo.NewReceiptRepo(config, logger)
	if err := repo.Start(ctx); err != nil {
		return err
	}
	defer repo.Stop(ctx)

	result := repo.GetDatabase().RunCommand(ctx, bson.D{{Key: "dropDatabase", Value: 1}})
	if result.Err() != nil {
		return fmt.Errorf("drop database %s: %w", dbName, result.Err())
	}

	logger.Info("Database dropped", "database", dbName)
	return nil
}
