package mongodb

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentranbao-ct/marketplace/internal/models"
)

const productIndexesMigration = "product_indexes_v1"

// MigrationRepository handles database migrations
type MigrationRepository interface {
	EnsureProductIndexes(ctx context.Context) error
	GetMigrationStatus(ctx context.Context, migrationName string) (*MigrationStatus, error)
	SetMigrationStatus(ctx context.Context, migrationName string, status string, result *MigrationResult) error
}

type migrationRepo struct {
	db *DB
}

// MigrationStatus tracks the status of database migrations
type MigrationStatus struct {
	Name        string           `bson:"name" json:"name"`
	Status      string           `bson:"status" json:"status"` // "running", "completed", "failed"
	StartedAt   *time.Time       `bson:"started_at" json:"started_at"`
	CompletedAt *time.Time       `bson:"completed_at" json:"completed_at"`
	Result      *MigrationResult `bson:"result,omitempty" json:"result,omitempty"`
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at" json:"updated_at"`
}

// MigrationResult contains the results of a migration
type MigrationResult struct {
	IndexesCreated []string `bson:"indexes_created,omitempty" json:"indexes_created,omitempty"`
	Errors         []string `bson:"errors,omitempty" json:"errors,omitempty"`
	Duration       string   `bson:"duration" json:"duration"`
}

func NewMigrationRepository(db *DB) MigrationRepository {
	return &migrationRepo{
		db: db,
	}
}

// productIndexes backs the shop listing filter and the newest-first listing.
func productIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shopId", Value: 1}},
			Options: options.Index().SetName("shop_id"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	}
}

func (r *migrationRepo) EnsureProductIndexes(ctx context.Context) error {
	status, err := r.GetMigrationStatus(ctx, productIndexesMigration)
	if err == nil && status.Status == "completed" {
		log.Infow(ctx, "Migration already completed", "migration", productIndexesMigration)
		return nil
	}

	startTime := time.Now()
	if err := r.SetMigrationStatus(ctx, productIndexesMigration, "running", nil); err != nil {
		return fmt.Errorf("failed to set migration status: %w", err)
	}

	collection := r.db.Database.Collection(models.Product{}.CollectionName())
	names, err := collection.Indexes().CreateMany(ctx, productIndexes())
	if err != nil {
		return r.completeMigrationWithError(ctx, productIndexesMigration, startTime, fmt.Errorf("failed to create product indexes: %w", err))
	}

	result := &MigrationResult{
		IndexesCreated: names,
		Duration:       time.Since(startTime).String(),
	}
	if err := r.SetMigrationStatus(ctx, productIndexesMigration, "completed", result); err != nil {
		return fmt.Errorf("failed to set migration status: %w", err)
	}

	log.Infow(ctx, "Migration completed", "migration", productIndexesMigration, "indexes", names, "duration", result.Duration)
	return nil
}

func (r *migrationRepo) completeMigrationWithError(ctx context.Context, migrationName string, startTime time.Time, err error) error {
	result := &MigrationResult{
		Duration: time.Since(startTime).String(),
		Errors:   []string{err.Error()},
	}

	if setErr := r.SetMigrationStatus(ctx, migrationName, "failed", result); setErr != nil {
		log.Errorw(ctx, "Failed to set migration failure status", "error", setErr)
	}

	return err
}

func (r *migrationRepo) GetMigrationStatus(ctx context.Context, migrationName string) (*MigrationStatus, error) {
	collection := r.db.Database.Collection("migrations")

	var status MigrationStatus
	err := collection.FindOne(ctx, bson.M{"name": migrationName}).Decode(&status)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("migration status not found: %s", migrationName)
		}
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	return &status, nil
}

func (r *migrationRepo) SetMigrationStatus(ctx context.Context, migrationName string, status string, result *MigrationResult) error {
	collection := r.db.Database.Collection("migrations")

	now := time.Now()
	set := bson.M{
		"name":       migrationName,
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case "running":
		set["started_at"] = now
	case "completed", "failed":
		set["completed_at"] = now
		if result != nil {
			set["result"] = result
		}
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"name": migrationName}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to set migration status: %w", err)
	}

	return nil
}
