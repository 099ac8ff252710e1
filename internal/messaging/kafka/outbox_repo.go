package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"

	// MaxOutboxRetries stops a poisoned event from being retried forever.
	MaxOutboxRetries = 10

	// A failed event waits attempts × RetryBackoffStep, capped at
	// RetryBackoffMaxSteps steps, before it is picked up again.
	RetryBackoffStep     = 15 * time.Second
	RetryBackoffMaxSteps = 10

	maxErrorMessageLen = 500
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// Validate reports every missing or malformed field at once.
func (e OutboxEvent) Validate() error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("outbox id is required"))
	}
	if e.EventType == "" {
		errs = append(errs, errors.New("outbox event type is required"))
	}
	if e.Topic == "" {
		errs = append(errs, errors.New("outbox topic is required"))
	}
	if len(e.Payload) == 0 {
		errs = append(errs, errors.New("outbox payload is required"))
	}
	switch e.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
	default:
		errs = append(errs, fmt.Errorf("invalid outbox status: %q", e.Status))
	}
	return errors.Join(errs...)
}

// outboxRow is the sqlx scan target for outbox_events.
type outboxRow struct {
	ID            string    `db:"id"`
	RequestID     string    `db:"request_id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	Topic         string    `db:"topic"`
	Payload       []byte    `db:"payload"`
	Status        string    `db:"status"`
	RetryCount    int       `db:"retry_count"`
	NextRetryAt   time.Time `db:"next_retry_at"`
}

func (r outboxRow) toEvent() OutboxEvent {
	return OutboxEvent{
		ID:            r.ID,
		RequestID:     r.RequestID,
		AggregateType: r.AggregateType,
		AggregateID:   r.AggregateID,
		EventType:     r.EventType,
		Topic:         r.Topic,
		Payload:       r.Payload,
		Status:        r.Status,
		RetryCount:    r.RetryCount,
		NextRetryAt:   r.NextRetryAt,
	}
}

// OutboxRepository stores events in the transaction of the state change they
// announce; the producer worker publishes them later.
//
//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

const (
	insertOutboxQuery = `
INSERT INTO outbox_events (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)`

	// Failed rows come back once their backoff elapsed and while they still
	// have retries left.
	listPendingOutboxQuery = `
SELECT
	id::text AS id,
	COALESCE(request_id, '') AS request_id,
	aggregate_type,
	aggregate_id::text AS aggregate_id,
	event_type,
	topic,
	payload,
	status,
	retry_count,
	COALESCE(next_retry_at, created_at) AS next_retry_at
FROM outbox_events
WHERE status IN ($1, $2)
	AND retry_count < $3
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at, id
LIMIT $4`

	markOutboxSentQuery = `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

	markOutboxFailedQuery = `
UPDATE outbox_events
SET status = $2,
	retry_count = retry_count + 1,
	error_message = $3,
	next_retry_at = NOW() + make_interval(secs => LEAST(retry_count + 1, $4) * $5),
	updated_at = NOW()
WHERE id = $1`
)

type outboxRepository struct {
	db *sqlx.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: sqlx.NewDb(db, "pgx")}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

// exec runs on the borrowed transaction when there is one.
func (r *outboxRepository) exec() sqlx.ExecerContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	_, err := r.exec().ExecContext(ctx, insertOutboxQuery,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status,
	)
	if err != nil {
		return fmt.Errorf("insert outbox event %s: %w", event.ID, err)
	}
	return nil
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var rows []outboxRow
	if err := r.db.SelectContext(ctx, &rows, listPendingOutboxQuery,
		OutboxStatusPending, OutboxStatusFailed, MaxOutboxRetries, limit,
	); err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}

	events := make([]OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toEvent()
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, markOutboxSentQuery, id, OutboxStatusSent)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.db.ExecContext(ctx, markOutboxFailedQuery,
		id, OutboxStatusFailed, truncate(reason, maxErrorMessageLen),
		RetryBackoffMaxSteps, RetryBackoffStep.Seconds(),
	)
	return err
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
