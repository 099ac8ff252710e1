package main

import (
	"context"

	"go-timesheet/internal/config"
	"go-timesheet/internal/database"
	"go-timesheet/internal/logger"
	"go-timesheet/internal/shared/connection"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, log)
	if err != nil {
		log.Fatal("connect database failed", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.Migrate(context.Background(), gormDB, log); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
	log.Info("migrations applied")
}
