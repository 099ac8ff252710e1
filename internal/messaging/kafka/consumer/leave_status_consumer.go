package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/featureflag"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const approvedStatus = "approved"

// Backoff between attempts of a failed message. Variables so tests can
// shorten them.
var (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 30 * time.Second
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// OnLeaveMarker fills attendance rows for an approved leave range.
type OnLeaveMarker interface {
	MarkOnLeave(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

// ConsumeLeaveStatusChanged reads leave status events until ctx is cancelled.
// Malformed messages are committed and skipped so they do not block the
// partition. A failed mark is retried in place with exponential backoff, so
// later offsets are never committed ahead of it. Cancelling ctx stops the
// retries and leaves the message uncommitted.
func ConsumeLeaveStatusChanged(
	ctx context.Context,
	reader MessageReader,
	marker OnLeaveMarker,
	flags *featureflag.Flags,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_status")
	log.Info("leave status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("leave status consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, marker, flags, log) {
			log.Info("leave status consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleWithRetry returns false only when ctx ended before msg was handled.
func handleWithRetry(
	ctx context.Context,
	msg kafkago.Message,
	marker OnLeaveMarker,
	flags *featureflag.Flags,
	log *zap.Logger,
) bool {
	delay := retryBaseDelay
	for attempt := 1; ; attempt++ {
		err := handleLeaveStatusMessage(ctx, msg, marker, flags, log)
		if err == nil {
			return true
		}

		log.Error("handle leave status message failed",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return false
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
}

func handleLeaveStatusMessage(
	ctx context.Context,
	msg kafkago.Message,
	marker OnLeaveMarker,
	flags *featureflag.Flags,
	log *zap.Logger,
) error {
	var event events.LeaveStatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Warn("skip malformed leave status event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	if event.EventType != events.LeaveStatusChangedEventType || event.Status != approvedStatus {
		return nil
	}

	if !flags.Enabled(featureflag.AutoMarkOnLeave) {
		log.Debug("auto mark on leave disabled", zap.String("leave_request_id", event.LeaveRequestID))
		return nil
	}

	from, err := time.Parse(time.DateOnly, event.StartDate)
	if err != nil {
		log.Warn("skip leave status event with bad start date", zap.String("leave_request_id", event.LeaveRequestID))
		return nil
	}
	to, err := time.Parse(time.DateOnly, event.EndDate)
	if err != nil {
		log.Warn("skip leave status event with bad end date", zap.String("leave_request_id", event.LeaveRequestID))
		return nil
	}

	marked, err := marker.MarkOnLeave(ctx, event.UserID, from, to)
	if err != nil {
		return err
	}

	log.Info("attendance marked on leave",
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("user_id", event.UserID),
		zap.Int64("rows", marked),
	)
	return nil
}
