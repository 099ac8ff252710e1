package audit

import (
	"context"
	"time"

	"go-timesheet/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	ActionServerShutdown = "SERVER_SHUTDOWN"
	ActionLeaveReviewed  = "LEAVE_REVIEWED"
	ActionBalanceUpdated = "LEAVE_BALANCE_UPDATED"
)

type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// StdoutLogger writes audit entries through zap under the "audit" name.
type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	meta := contextutil.ExtractMetadata(ctx)
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("request_id", meta.RequestID),
		zap.String("actor_id", meta.UserID),
		zap.Any("meta", entry.Meta),
	)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Log(context.Context, Entry) {}
