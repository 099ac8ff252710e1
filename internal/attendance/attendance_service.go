package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-timesheet/internal/attendance/errors"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shift"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	// maxMarkDays bounds how many days a single leave sync may write.
	maxMarkDays = 366
)

// ShiftLookup resolves the rostered shift of a user for one day. A nil roster
// with a nil error means nothing is rostered.
type ShiftLookup interface {
	FindForDay(ctx context.Context, userID string, date time.Time) (*shift.ShiftRoster, error)
}

type Service interface {
	Upsert(ctx context.Context, actorID string, req UpsertAttendanceRequest) (AttendanceResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]AttendanceResponse, error)
	ClockIn(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error)
	MarkOnLeave(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	shifts   ShiftLookup
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewService builds the attendance service. loc is the zone in which
// self-service clock events are dated; nil means UTC.
func NewService(db *sql.DB, repo Repository, shifts ShiftLookup, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		db:       db,
		repo:     repo,
		shifts:   shifts,
		location: loc,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Upsert(ctx context.Context, actorID string, req UpsertAttendanceRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	row, err := s.buildRecord(ctx, actorID, req)
	if err != nil {
		log.Warn("upsert attendance rejected", zap.String("user_id", req.UserID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		log.Error("upsert attendance failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	saved, err := s.repo.FindByUserAndDate(ctx, req.UserID, row.Date)
	if err != nil {
		log.Error("reload attendance failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("attendance upserted",
		zap.String("user_id", req.UserID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)
	return mapToResponse(*saved), nil
}

func (s *service) buildRecord(ctx context.Context, actorID string, req UpsertAttendanceRequest) (*AttendanceRecord, error) {
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidUserID
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	if !IsValidStatus(req.Status) {
		return nil, attendanceerrors.ErrInvalidStatus
	}
	for _, v := range []*string{req.ClockIn, req.ClockOut} {
		if v != nil && !apperror.IsClock(*v) {
			return nil, attendanceerrors.ErrInvalidClock
		}
	}

	row := &AttendanceRecord{
		ID:        uuid.New(),
		UserID:    userUUID,
		Date:      date,
		ClockIn:   req.ClockIn,
		ClockOut:  req.ClockOut,
		Status:    req.Status,
		Notes:     req.Notes,
		Source:    SourceAdmin,
		UpdatedAt: time.Now().UTC(),
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		row.CreatedBy = &actorUUID
	}

	switch {
	case req.TotalHours != nil:
		if *req.TotalHours < 0 || *req.TotalHours > 24 {
			return nil, attendanceerrors.ErrInvalidTotalHours
		}
		v := decimal.NewFromFloat(*req.TotalHours).Round(2)
		row.TotalHours = &v
	case req.ClockIn != nil && req.ClockOut != nil:
		v := HoursBetween(*req.ClockIn, *req.ClockOut)
		row.TotalHours = &v
	}

	if req.ShiftID != nil {
		id, err := uuid.Parse(*req.ShiftID)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidShiftID
		}
		row.ShiftID = &id
	} else if row.ShiftID, err = s.resolveShift(ctx, req.UserID, date); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *service) resolveShift(ctx context.Context, userID string, date time.Time) (*uuid.UUID, error) {
	if s.shifts == nil {
		return nil, nil
	}
	roster, err := s.shifts.FindForDay(ctx, userID, date)
	if err != nil || roster == nil {
		return nil, err
	}
	id := roster.ID
	return &id, nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]AttendanceResponse, error) {
	filter := ListFilter{UserID: actorID, Status: query.Status}
	if canReadAll {
		filter.UserID = query.UserID
	}
	if query.StartDate != "" {
		d, err := time.Parse(dateLayout, query.StartDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		filter.StartDate = &d
	}
	if query.EndDate != "" {
		d, err := time.Parse(dateLayout, query.EndDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// localToday returns the calendar date and wall clock of now in the service
// location. The date is normalised to UTC midnight for storage.
func (s *service) localToday() (time.Time, string) {
	now := s.now().In(s.location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), now.Format(clockLayout)
}

func (s *service) ClockIn(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	today, clock := s.localToday()

	existing, err := qtx.FindByUserAndDate(ctx, userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	var row *AttendanceRecord
	if err == nil {
		switch {
		case existing.ClockIn != nil:
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
		case existing.Status == StatusOnLeave:
			return AttendanceResponse{}, attendanceerrors.ErrOnLeaveToday
		}
		row = existing
		row.ClockIn = &clock
		row.Status = StatusPresent
		row.Source = SourceSelf
		if req.Notes != nil {
			row.Notes = req.Notes
		}
		if err := qtx.Update(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	} else {
		shiftID, err := s.resolveShift(ctx, userID, today)
		if err != nil {
			return AttendanceResponse{}, err
		}
		row = &AttendanceRecord{
			ID:        uuid.New(),
			UserID:    userUUID,
			Date:      today,
			ShiftID:   shiftID,
			ClockIn:   &clock,
			Status:    StatusPresent,
			Notes:     req.Notes,
			Source:    SourceSelf,
			CreatedBy: &userUUID,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	log.Info("clock in recorded", zap.String("user_id", userID), zap.String("clock_in", clock))
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, userID string, req ClockRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(userID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	today, clock := s.localToday()

	row, err := qtx.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.ClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &clock
	hours := HoursBetween(*row.ClockIn, clock)
	row.TotalHours = &hours
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	log.Info("clock out recorded", zap.String("user_id", userID), zap.String("total_hours", hours.String()))
	return mapToResponse(*row), nil
}

// MarkOnLeave writes on_leave rows for every day in [from, to] that has no
// attendance yet. Existing rows win.
func (s *service) MarkOnLeave(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return 0, attendanceerrors.ErrInvalidUserID
	}

	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0, attendanceerrors.ErrInvalidDateRange
	}
	if int(to.Sub(from).Hours()/24) >= maxMarkDays {
		return 0, attendanceerrors.ErrDateRangeTooLong
	}

	note := "approved leave"
	now := time.Now().UTC()
	var rows []AttendanceRecord
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		rows = append(rows, AttendanceRecord{
			ID:        uuid.New(),
			UserID:    userUUID,
			Date:      d,
			Status:    StatusOnLeave,
			Notes:     &note,
			Source:    SourceLeaveSync,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, rows)
	if err != nil {
		log.Error("mark on leave failed", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	log.Info("marked on leave",
		zap.String("user_id", userID),
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
		zap.Int64("inserted", inserted),
	)
	return inserted, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Date:      a.Date.Format(dateLayout),
		ClockIn:   a.ClockIn,
		ClockOut:  a.ClockOut,
		Status:    a.Status,
		Notes:     a.Notes,
		Source:    a.Source,
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ShiftID != nil {
		v := a.ShiftID.String()
		resp.ShiftID = &v
	}
	if a.TotalHours != nil {
		v := a.TotalHours.InexactFloat64()
		resp.TotalHours = &v
	}
	return resp
}
