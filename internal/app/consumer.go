package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-timesheet/internal/attendance"
	"go-timesheet/internal/config"
	"go-timesheet/internal/events"
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/messaging/kafka/consumer"
	"go-timesheet/internal/shared/connection"
	"go-timesheet/internal/shift"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

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

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	flags := featureflag.New(cfg.Features)
	if !flags.Enabled(featureflag.AutoMarkOnLeave) {
		log.Warn("auto_mark_on_leave is off; approved leave events will be acknowledged without marking attendance")
	}

	shiftService := shift.NewService(shift.NewRepository(gormDB), logger)
	attendanceService := attendance.NewService(sqlDB, attendance.NewRepository(gormDB), shiftService, loc, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveStatusChangedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer.ConsumeLeaveStatusChanged(ctx, reader, attendanceService, flags, logger)

	log.Info("consumer shutting down")
	return nil
}
