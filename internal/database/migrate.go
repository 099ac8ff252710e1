package database

import (
	"context"
	"fmt"

	"go-timesheet/internal/attendance"
	"go-timesheet/internal/leave"
	"go-timesheet/internal/leavebalance"
	"go-timesheet/internal/shift"
	"go-timesheet/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// outboxDDL is kept as raw SQL because the outbox repository talks to the
// table through database/sql rather than a gorm model.
var outboxDDL = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64),
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(150) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	next_retry_at TIMESTAMPTZ,
	error_message TEXT,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created ON outbox_events (status, created_at)`,
}

// Models lists every gorm-managed table in creation order.
func Models() []any {
	return []any{
		&user.User{},
		&leave.LeaveRequest{},
		&leavebalance.LeaveBalance{},
		&shift.ShiftRoster{},
		&attendance.AttendanceRecord{},
	}
}

// Migrate creates or alters every table the services use. It is idempotent.
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	log := logger.Named("database.migrate")

	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("gorm models migrated", zap.Int("tables", len(Models())))

	for _, stmt := range outboxDDL {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("outbox ddl: %w", err)
		}
	}
	log.Info("outbox table ready")

	return nil
}
