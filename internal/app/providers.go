package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
	pkgmdw "github.com/nguyentranbao-ct/marketplace/internal/server/middleware"
	"github.com/nguyentranbao-ct/marketplace/internal/usecase"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return db.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

// newValidator shares the request validator with the usecases.
func newValidator() usecase.StructValidator {
	return pkgmdw.NewValidator()
}
