package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/marketplace/internal/config"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/events"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/media"
	"github.com/nguyentranbao-ct/marketplace/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/marketplace/internal/server"
	"github.com/nguyentranbao-ct/marketplace/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded",
		"addr", conf.Server.Addr,
		"base_path", conf.Server.BasePath,
		"database", conf.Database.Database,
		"kafka_enabled", conf.Kafka.Enabled,
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newValidator,

			server.NewHandler,

			usecase.NewProductUsecase,
			usecase.NewShopUsecase,

			mongodb.NewProductRepository,
			mongodb.NewShopRepository,
			mongodb.NewMigrationRepository,

			media.NewCloudinaryClient,
			events.NewPublisher,
		),
		fx.Supply(conf),
		fx.Invoke(MigrateIndexes),
		fx.Invoke(funcs...),
	)
}

// MigrateIndexes creates the product indexes once the database is reachable.
func MigrateIndexes(lc fx.Lifecycle, migrationRepo mongodb.MigrationRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return migrationRepo.EnsureProductIndexes(ctx)
		},
	})
}
