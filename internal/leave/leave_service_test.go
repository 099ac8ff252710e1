package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/events"
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/leave"
	leaveerrors "go-timesheet/internal/leave/errors"
	"go-timesheet/internal/messaging/kafka"
	kafkaMock "go-timesheet/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn              func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error)
	findByIDFn             func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByIDForUpdateFn    func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	updateFn               func(ctx context.Context, l *leave.LeaveRequest) error
	hasOverlappingPeriodFn func(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, userID, startDate, endDate, excludeID)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func setupLeaveServiceTest(t *testing.T, features config.FeatureConfig) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	repo := &fakeLeaveRepository{}
	svc := leave.NewServiceWithOutbox(db, repo, outbox, featureflag.New(features), nil, nil)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	require.NoError(t, err)
	return d
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		reason := "Family event"
		req := leave.CreateLeaveRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
			LeaveType: "Casual",
			Reason:    &reason,
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, uid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			t.Fatal("overlap check must not run while the flag is off")
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(userID), l.UserID)
			assert.Equal(t, "Casual", l.LeaveType)
			assert.Equal(t, leave.SessionFullDay, l.Session)
			assert.True(t, decimal.NewFromInt(3).Equal(l.TotalDays))
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Nil(t, l.ReviewedBy)
			return nil
		}

		resp, err := deps.service.Create(ctx, userID, req)

		assert.NoError(t, err)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "2026-03-01", resp.StartDate)
		assert.Equal(t, "2026-03-03", resp.EndDate)
		assert.Equal(t, 3.0, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success half day counts half", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-05",
			EndDate:   "2026-03-05",
			LeaveType: "Sick",
			Session:   leave.SessionFirstHalf,
		})

		assert.NoError(t, err)
		assert.Equal(t, 0.5, resp.TotalDays)
		assert.Equal(t, leave.SessionFirstHalf, resp.Session)
	})

	t.Run("negative end before start creates nothing", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		created := false
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = true
			return nil
		}

		_, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-01-05",
			EndDate:   "2026-01-01",
			LeaveType: "Casual",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.False(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative half day spanning days", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-01-01",
			EndDate:   "2026-01-02",
			LeaveType: "Casual",
			Session:   leave.SessionSecondHalf,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrHalfDaySpan)
	})

	t.Run("negative invalid date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "01/01/2026",
			EndDate:   "2026-01-02",
			LeaveType: "Casual",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative overlap period when flag on", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{RejectOverlappingLeave: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, uid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.Equal(t, userID, uid)
			assert.Nil(t, excludeID)
			assert.Equal(t, "2026-03-01", startDate.Format("2006-01-02"))
			return true, nil
		}

		_, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-03-02",
			LeaveType: "Privilege",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative persist error rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.Create(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-03-01",
			LeaveType: "Unpaid",
		})

		assert.EqualError(t, err, "insert failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_List(t *testing.T) {
	ctx := context.Background()
	employeeA := uuid.New()
	employeeB := uuid.New()

	rows := []leave.LeaveRequest{{
		ID:        uuid.New(),
		UserID:    employeeA,
		StartDate: mustDate(t, "2026-01-01"),
		EndDate:   mustDate(t, "2026-01-05"),
		LeaveType: "Casual",
		Session:   leave.SessionFullDay,
		TotalDays: decimal.NewFromInt(5),
		Status:    leave.StatusPending,
	}}

	fakeStore := func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
		out := []leave.LeaveRequest{}
		for _, r := range rows {
			if filter.UserID == "" || r.UserID.String() == filter.UserID {
				out = append(out, r)
			}
		}
		return out, nil
	}

	t.Run("employee sees only own requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()
		deps.repo.findAllFn = fakeStore

		resp, err := deps.service.List(ctx, employeeB.String(), false, leave.ListFilter{UserID: employeeA.String()})

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("admin sees all", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()
		deps.repo.findAllFn = fakeStore

		resp, err := deps.service.List(ctx, uuid.NewString(), true, leave.ListFilter{})

		assert.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, employeeA.String(), resp[0].UserID)
	})

	t.Run("negative repository error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()
		deps.repo.findAllFn = func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.List(ctx, employeeA.String(), false, leave.ListFilter{})
		assert.Error(t, err)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	found := func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
		return &leave.LeaveRequest{ID: id, UserID: owner, Status: leave.StatusPending, TotalDays: decimal.NewFromInt(1)}, nil
	}

	t.Run("owner reads", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()
		deps.repo.findByIDFn = found

		resp, err := deps.service.GetByID(ctx, owner.String(), false, id.String())
		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})

	t.Run("negative other employee gets not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()
		deps.repo.findByIDFn = found

		_, err := deps.service.GetByID(ctx, uuid.NewString(), false, id.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, owner.String(), true, "not-a-uuid")
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	owner := uuid.New()
	reviewer := uuid.New()

	pendingRow := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        id,
			UserID:    owner,
			StartDate: mustDate(t, "2026-02-02"),
			EndDate:   mustDate(t, "2026-02-03"),
			LeaveType: "Casual",
			Session:   leave.SessionFullDay,
			TotalDays: decimal.NewFromInt(2),
			Status:    leave.StatusPending,
		}
	}

	t.Run("success approve queues event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{LeaveEvents: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			assert.Equal(t, id.String(), gotID)
			return pendingRow(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			require.NotNil(t, l.ReviewedBy)
			assert.Equal(t, reviewer, *l.ReviewedBy)
			assert.NotNil(t, l.ReviewedAt)
			return nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.LeaveStatusChangedTopic, e.Topic)
			assert.Equal(t, id.String(), e.AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, e.Status)

			var payload events.LeaveStatusChangedEvent
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, leave.StatusPending, payload.PreviousStatus)
			assert.Equal(t, leave.StatusApproved, payload.Status)
			assert.Equal(t, "2026-02-02", payload.StartDate)
			assert.Equal(t, owner.String(), payload.UserID)
			return nil
		})

		notes := "enjoy"
		resp, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{
			Status:     leave.StatusApproved,
			AdminNotes: &notes,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		require.NotNil(t, resp.ReviewedBy)
		assert.Equal(t, reviewer.String(), *resp.ReviewedBy)
		require.NotNil(t, resp.AdminNotes)
		assert.Equal(t, "enjoy", *resp.AdminNotes)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject without events", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{LeaveEvents: false})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			return pendingRow(), nil
		}

		resp, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusRejected})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("re-approval keeps reviewer stamped", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		firstReviewer := uuid.New()
		firstReviewedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			row := pendingRow()
			row.Status = leave.StatusApproved
			row.ReviewedBy = &firstReviewer
			row.ReviewedAt = &firstReviewedAt
			return row, nil
		}

		resp, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusApproved})

		assert.NoError(t, err)
		require.NotNil(t, resp.ReviewedBy)
		require.NotNil(t, resp.ReviewedAt)
		assert.Equal(t, reviewer.String(), *resp.ReviewedBy)
		assert.NotEqual(t, firstReviewedAt.Format(time.RFC3339), *resp.ReviewedAt)
	})

	t.Run("negative strict transitions reject re-review", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{StrictLeaveTransitions: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			row := pendingRow()
			row.Status = leave.StatusRejected
			return row, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("update must not run")
			return nil
		}

		_, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		_, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusPending})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative outbox failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{LeaveEvents: true})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			return pendingRow(), nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox insert failed"))

		_, err := deps.service.UpdateStatus(ctx, id.String(), reviewer.String(), leave.UpdateStatusRequest{Status: leave.StatusApproved})

		assert.EqualError(t, err, "outbox insert failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_UpdateAdminNotes(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success only notes change", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, gotID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, UserID: uuid.New(), Status: leave.StatusApproved, TotalDays: decimal.NewFromInt(1)}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			require.NotNil(t, l.AdminNotes)
			assert.Equal(t, "paid out", *l.AdminNotes)
			return nil
		}

		notes := "paid out"
		resp, err := deps.service.UpdateAdminNotes(ctx, id.String(), uuid.NewString(), leave.UpdateNotesRequest{AdminNotes: &notes})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, config.FeatureConfig{})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		notes := "x"
		_, err := deps.service.UpdateAdminNotes(ctx, id.String(), uuid.NewString(), leave.UpdateNotesRequest{AdminNotes: &notes})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestTotalDays(t *testing.T) {
	start := mustDate(t, "2026-03-30")
	end := mustDate(t, "2026-04-02")

	assert.True(t, decimal.NewFromInt(4).Equal(leave.TotalDays(start, end, leave.SessionFullDay)))
	assert.True(t, decimal.NewFromFloat(0.5).Equal(leave.TotalDays(start, start, leave.SessionSecondHalf)))
}
