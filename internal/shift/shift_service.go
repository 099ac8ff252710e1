package shift

import (
	"context"
	"time"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/contextutil"
	shifterrors "go-timesheet/internal/shift/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Service interface {
	Upsert(ctx context.Context, actorID string, req UpsertShiftRequest) (ShiftResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]ShiftResponse, error)
	FindForDay(ctx context.Context, userID string, date time.Time) (*ShiftRoster, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Upsert(ctx context.Context, actorID string, req UpsertShiftRequest) (ShiftResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidUserID
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidDate
	}
	if !IsValidShiftType(req.ShiftType) {
		return ShiftResponse{}, shifterrors.ErrInvalidShiftType
	}
	if !apperror.IsClock(req.StartTime) || !apperror.IsClock(req.EndTime) {
		return ShiftResponse{}, shifterrors.ErrInvalidClock
	}

	// Zero-padded HH:MM compares lexically.
	if req.EndTime <= req.StartTime {
		log.Warn("shift end is not after start",
			zap.String("user_id", req.UserID),
			zap.String("date", req.Date),
			zap.String("start_time", req.StartTime),
			zap.String("end_time", req.EndTime),
		)
	}

	roster := &ShiftRoster{
		ID:        uuid.New(),
		UserID:    userUUID,
		Date:      date,
		ShiftType: req.ShiftType,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UpdatedAt: time.Now().UTC(),
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		roster.CreatedBy = &actorUUID
		roster.UpdatedBy = &actorUUID
	}

	if err := s.repo.Upsert(ctx, roster); err != nil {
		log.Error("upsert shift failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	saved, err := s.repo.FindByUserAndDate(ctx, req.UserID, date)
	if err != nil {
		log.Error("reload shift failed", zap.Error(err))
		return ShiftResponse{}, err
	}
	if saved == nil {
		saved = roster
	}

	log.Info("shift upserted",
		zap.String("user_id", req.UserID),
		zap.String("date", req.Date),
		zap.String("shift_type", req.ShiftType),
	)
	return mapToResponse(*saved), nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]ShiftResponse, error) {
	filter := ListFilter{UserID: actorID}
	if canReadAll {
		filter.UserID = query.UserID
	}

	if query.StartDate != "" {
		d, err := time.Parse(dateLayout, query.StartDate)
		if err != nil {
			return nil, shifterrors.ErrInvalidDate
		}
		filter.StartDate = &d
	}
	if query.EndDate != "" {
		d, err := time.Parse(dateLayout, query.EndDate)
		if err != nil {
			return nil, shifterrors.ErrInvalidDate
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, shifterrors.ErrInvalidDateRange
	}

	shifts, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list shifts failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ShiftResponse, len(shifts))
	for i, sh := range shifts {
		resp[i] = mapToResponse(sh)
	}
	return resp, nil
}

func (s *service) FindForDay(ctx context.Context, userID string, date time.Time) (*ShiftRoster, error) {
	return s.repo.FindByUserAndDate(ctx, userID, date)
}

func mapToResponse(s ShiftRoster) ShiftResponse {
	resp := ShiftResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		Date:      s.Date.Format(dateLayout),
		ShiftType: s.ShiftType,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.CreatedBy != nil {
		v := s.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if s.UpdatedBy != nil {
		v := s.UpdatedBy.String()
		resp.UpdatedBy = &v
	}
	return resp
}
