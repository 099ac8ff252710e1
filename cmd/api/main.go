package main

import (
	"go-timesheet/internal/app"
	"go-timesheet/internal/bootstrap"
	"go-timesheet/internal/config"
	"go-timesheet/internal/logger"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/audit"

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

	apperror.Init()

	// build dependency + routes
	application, err := app.BuildApp(cfg, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}
	defer application.Close()

	err = bootstrap.StartHTTPServer(
		application.Router,
		bootstrap.ServerConfig{
			Port:            cfg.Port,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			IdleTimeout:     cfg.Server.IdleTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		},
		audit.NewStdoutLogger(log),
	)
	if err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}
