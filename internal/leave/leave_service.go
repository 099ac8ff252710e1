package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/featureflag"
	leaveerrors "go-timesheet/internal/leave/errors"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/metrics"
	"go-timesheet/internal/shared/audit"
	"go-timesheet/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, filter ListFilter) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, id, reviewerID string, req UpdateStatusRequest) (LeaveRequestResponse, error)
	UpdateAdminNotes(ctx context.Context, id, reviewerID string, req UpdateNotesRequest) (LeaveRequestResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	outbox  kafka.OutboxRepository
	flags   *featureflag.Flags
	metrics *metrics.Collector
	audit   audit.Logger
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, flags *featureflag.Flags, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, flags, nil, nil, logger...)
}

// NewServiceWithOutbox wires the optional collaborators. A nil outbox disables
// leave events regardless of the leave_events flag.
func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	flags *featureflag.Flags,
	collector *metrics.Collector,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &service{
		db:      db,
		repo:    repo,
		outbox:  outboxRepo,
		flags:   flags,
		metrics: collector,
		audit:   auditLogger,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create leave requested",
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("leave_type", req.LeaveType),
	)

	l, err := buildLeaveRequest(userID, req)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if s.flags.Enabled(featureflag.RejectOverlappingLeave) {
		overlap, err := qtx.HasOverlappingPeriod(ctx, userID, l.StartDate, l.EndDate, nil)
		if err != nil {
			log.Error("create leave overlap check failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		if overlap {
			log.Warn("create leave overlap detected",
				zap.String("user_id", userID),
				zap.String("start_date", req.StartDate),
				zap.String("end_date", req.EndDate),
			)
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.String("total_days", l.TotalDays.String()),
	)

	return mapToResponse(*l), nil
}

func buildLeaveRequest(userID string, req CreateLeaveRequest) (*LeaveRequest, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, leaveerrors.ErrInvalidDateRange
	}
	if !slices.Contains(LeaveTypes, req.LeaveType) {
		return nil, leaveerrors.ErrInvalidLeaveType
	}

	session := req.Session
	if session == "" {
		session = SessionFullDay
	}
	switch session {
	case SessionFullDay, SessionFirstHalf, SessionSecondHalf:
	default:
		return nil, leaveerrors.ErrInvalidSession
	}
	if IsHalfDay(session) && !startDate.Equal(endDate) {
		return nil, leaveerrors.ErrHalfDaySpan
	}

	return &LeaveRequest{
		ID:        uuid.New(),
		UserID:    userUUID,
		StartDate: startDate,
		EndDate:   endDate,
		LeaveType: req.LeaveType,
		Session:   session,
		Reason:    req.Reason,
		TotalDays: TotalDays(startDate, endDate, session),
		Status:    StatusPending,
	}, nil
}

// TotalDays counts calendar days in [start, end]; a half day session counts 0.5.
func TotalDays(start, end time.Time, session string) decimal.Decimal {
	if IsHalfDay(session) {
		return decimal.NewFromFloat(0.5)
	}
	days := int64(end.Sub(start).Hours()/24) + 1
	return decimal.NewFromInt(days)
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, filter ListFilter) ([]LeaveRequestResponse, error) {
	if !canReadAll {
		filter.UserID = actorID
	}
	if filter.Status != "" && !isKnownStatus(filter.Status) {
		return nil, leaveerrors.ErrInvalidStatus
	}

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leave failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if !canReadAll && l.UserID.String() != actorID {
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

// UpdateStatus reviews a request under a row lock. Reviewing an already
// reviewed request re-stamps the reviewer unless strict transitions are on.
func (s *service) UpdateStatus(ctx context.Context, id, reviewerID string, req UpdateStatusRequest) (LeaveRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update leave status requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("target_status", req.Status),
	)

	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatus
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidReviewerID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		log.Error("update leave status lookup failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	previousStatus := l.Status
	if l.IsTerminal() {
		if s.flags.Enabled(featureflag.StrictLeaveTransitions) {
			log.Warn("update leave status rejected for reviewed request",
				zap.String("leave_id", id),
				zap.String("from_status", previousStatus),
				zap.String("to_status", req.Status),
			)
			return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
		}
		log.Info("re-reviewing leave request",
			zap.String("leave_id", id),
			zap.String("from_status", previousStatus),
			zap.String("to_status", req.Status),
		)
	}

	reviewedAt := s.now()
	l.Status = req.Status
	l.ReviewedBy = &reviewerUUID
	l.ReviewedAt = &reviewedAt
	if req.AdminNotes != nil {
		l.AdminNotes = req.AdminNotes
	}

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("update leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", req.Status),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	eventQueued := false
	if s.outbox != nil && s.flags.Enabled(featureflag.LeaveEvents) {
		if err := s.queueStatusChanged(ctx, tx, *l, previousStatus); err != nil {
			log.Error("update leave status outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
		eventQueued = true
	}

	if err := tx.Commit(); err != nil {
		log.Error("update leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.metrics.LeaveTransition(req.Status)
	s.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionLeaveReviewed,
		Message: "leave request " + req.Status,
		Meta: map[string]any{
			"leave_request_id": id,
			"user_id":          l.UserID.String(),
			"previous_status":  previousStatus,
			"status":           req.Status,
		},
	})
	log.Info("update leave status success",
		zap.String("leave_id", id),
		zap.String("status", req.Status),
		zap.Bool("event_queued", eventQueued),
	)

	return mapToResponse(*l), nil
}

func (s *service) queueStatusChanged(ctx context.Context, tx *sql.Tx, l LeaveRequest, previousStatus string) error {
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:      events.LeaveStatusChangedEventType,
		LeaveRequestID: l.ID.String(),
		UserID:         l.UserID.String(),
		LeaveType:      l.LeaveType,
		Session:        l.Session,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		PreviousStatus: previousStatus,
		Status:         l.Status,
		ReviewedBy:     l.ReviewedBy.String(),
		OccurredAt:     s.now(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     events.LeaveStatusChangedEventType,
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) UpdateAdminNotes(ctx context.Context, id, reviewerID string, req UpdateNotesRequest) (LeaveRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave notes begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}

	l.AdminNotes = req.AdminNotes
	if err := qtx.Update(ctx, l); err != nil {
		log.Error("update leave notes persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("update leave notes commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	log.Info("update leave notes success", zap.String("leave_id", id), zap.String("reviewer_id", reviewerID))
	return mapToResponse(*l), nil
}

func isKnownStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:         l.ID.String(),
		UserID:     l.UserID.String(),
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		LeaveType:  l.LeaveType,
		Session:    l.Session,
		Reason:     l.Reason,
		TotalDays:  l.TotalDays.InexactFloat64(),
		Status:     l.Status,
		AdminNotes: l.AdminNotes,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
