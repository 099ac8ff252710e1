package leavebalance

import (
	"context"
	"database/sql"
	"time"

	leavebalanceerrors "go-timesheet/internal/leavebalance/errors"
	"go-timesheet/internal/shared/audit"
	"go-timesheet/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Service interface {
	Upsert(ctx context.Context, actorID string, req UpsertLeaveBalanceRequest) (LeaveBalanceResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]LeaveBalanceResponse, error)
	Current(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]LeaveBalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audit  audit.Logger
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &service{
		db:     db,
		repo:   repo,
		audit:  auditLogger,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

// Upsert recomputes the balance and writes it. Without expected_version the
// write is last-writer-wins; with it a stale version yields ErrVersionConflict.
func (s *service) Upsert(ctx context.Context, actorID string, req UpsertLeaveBalanceRequest) (LeaveBalanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("upsert leave balance requested",
		zap.String("user_id", req.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("financial_year", req.FinancialYear),
	)

	b, err := s.buildBalance(actorID, req)
	if err != nil {
		log.Warn("upsert leave balance validation failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("upsert leave balance begin tx failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.ExpectedVersion != nil {
		updated, err := qtx.UpdateIfVersion(ctx, b, *req.ExpectedVersion)
		if err != nil {
			log.Error("upsert leave balance conditional update failed", zap.Error(err))
			return LeaveBalanceResponse{}, err
		}
		if !updated {
			log.Warn("upsert leave balance version conflict",
				zap.String("user_id", req.UserID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("expected_version", *req.ExpectedVersion),
			)
			return LeaveBalanceResponse{}, leavebalanceerrors.ErrVersionConflict
		}
	} else if err := qtx.Upsert(ctx, b); err != nil {
		log.Error("upsert leave balance persist failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}

	saved, err := qtx.FindByKey(ctx, req.UserID, req.LeaveType, req.FinancialYear)
	if err != nil {
		log.Error("upsert leave balance reload failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("upsert leave balance commit failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionBalanceUpdated,
		Message: "leave balance updated",
		Meta: map[string]any{
			"user_id":        req.UserID,
			"leave_type":     req.LeaveType,
			"financial_year": req.FinancialYear,
			"balance":        saved.Balance.String(),
			"version":        saved.Version,
		},
	})
	log.Info("upsert leave balance success",
		zap.String("user_id", req.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("balance", saved.Balance.String()),
		zap.Int("version", saved.Version),
	)

	return mapToResponse(*saved), nil
}

func (s *service) buildBalance(actorID string, req UpsertLeaveBalanceRequest) (*LeaveBalance, error) {
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidUserID
	}
	if !ValidFinancialYear(req.FinancialYear) {
		return nil, leavebalanceerrors.ErrInvalidFinancialYear
	}
	if req.OpeningBalance < 0 || req.Availed < 0 || (req.Lapse != nil && *req.Lapse < 0) {
		return nil, leavebalanceerrors.ErrNegativeQuantity
	}

	opening := Quantity(req.OpeningBalance)
	availed := Quantity(req.Availed)
	var lapse *decimal.Decimal
	if req.Lapse != nil {
		v := Quantity(*req.Lapse)
		lapse = &v
	}

	var lapseDate *time.Time
	if req.LapseDate != nil && *req.LapseDate != "" {
		d, err := time.Parse(dateLayout, *req.LapseDate)
		if err != nil {
			return nil, leavebalanceerrors.ErrInvalidLapseDate
		}
		lapseDate = &d
	}

	b := &LeaveBalance{
		ID:             uuid.New(),
		UserID:         userUUID,
		LeaveType:      req.LeaveType,
		FinancialYear:  req.FinancialYear,
		OpeningBalance: opening,
		Availed:        availed,
		Lapse:          lapse,
		LapseDate:      lapseDate,
		Balance:        ComputeBalance(opening, availed, lapse),
		Version:        1,
		UpdatedAt:      s.now(),
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		b.UpdatedBy = &actorUUID
	}
	return b, nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]LeaveBalanceResponse, error) {
	filter := ListFilter{UserID: actorID, FinancialYear: query.FinancialYear}
	if canReadAll {
		filter.UserID = query.UserID
	}
	if filter.FinancialYear != "" && !ValidFinancialYear(filter.FinancialYear) {
		return nil, leavebalanceerrors.ErrInvalidFinancialYear
	}

	balances, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leave balances failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// Current narrows List to one financial year, the running one by default.
func (s *service) Current(ctx context.Context, actorID string, canReadAll bool, query ListQuery) ([]LeaveBalanceResponse, error) {
	if query.FinancialYear == "" {
		query.FinancialYear = FinancialYearOf(s.now())
	}
	if canReadAll && query.UserID == "" {
		query.UserID = actorID
	}
	return s.List(ctx, actorID, canReadAll, query)
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	resp := LeaveBalanceResponse{
		ID:             b.ID.String(),
		UserID:         b.UserID.String(),
		LeaveType:      b.LeaveType,
		FinancialYear:  b.FinancialYear,
		OpeningBalance: b.OpeningBalance.InexactFloat64(),
		Availed:        b.Availed.InexactFloat64(),
		Balance:        b.Balance.InexactFloat64(),
		Version:        b.Version,
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
	if b.Lapse != nil {
		v := b.Lapse.InexactFloat64()
		resp.Lapse = &v
	}
	if b.LapseDate != nil {
		v := b.LapseDate.Format(dateLayout)
		resp.LapseDate = &v
	}
	return resp
}

func mapToListResponse(balances []LeaveBalance) []LeaveBalanceResponse {
	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
