package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-timesheet/internal/config"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/messaging/kafka/producer"
	"go-timesheet/internal/metrics"
	"go-timesheet/internal/shared/connection"

	"go.uber.org/zap"
)

const kafkaConnectRetries = 5

func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, kafkaConnectRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		metrics.NewCollector(),
		logger,
		cfg.Kafka.PollInterval,
	)

	log.Info("worker shutting down")
	return nil
}
