package app

import (
	"database/sql"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/metrics"
	"go-timesheet/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redisConnectRetries = 5

// App is the assembled HTTP application plus the resources it must release.
type App struct {
	Router  *gin.Engine
	closers []func() error
	logger  *zap.Logger
}

// Close releases database and redis connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close resource failed", zap.Error(err))
		}
	}
}

type dependencies struct {
	cfg       *config.Config
	db        *sql.DB
	gormDB    *gorm.DB
	rdb       *redis.Client
	flags     *featureflag.Flags
	collector *metrics.Collector
	location  *time.Location
	logger    *zap.Logger
}

func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	log := logger.Named("app")
	a := &App{logger: log}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sqlDB.Close)

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, redisConnectRetries, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, rdb.Close)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps := dependencies{
		cfg:       cfg,
		db:        sqlDB,
		gormDB:    gormDB,
		rdb:       rdb,
		flags:     featureflag.New(cfg.Features),
		collector: metrics.NewCollector(),
		location:  loc,
		logger:    logger,
	}

	router, err := newRouter(deps)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Router = router

	log.Info("application built",
		zap.String("env", cfg.Env),
		zap.String("timezone", loc.String()),
		zap.Any("features", deps.flags.List()),
	)
	return a, nil
}
