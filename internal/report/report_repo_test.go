package report_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go-timesheet/internal/report"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqlxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestRepository_MonthlyAttendance(t *testing.T) {
	db, mock := newSqlxMock(t)
	repo := report.NewRepository(db)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"user_id", "user_name", "date", "status", "attendance_status",
		"leave_type", "clock_in", "clock_out", "total_hours",
	}).
		AddRow("u-1", "Asha", day, "present", "present", nil, "09:00", "18:00", 9.0).
		AddRow("u-2", "Ravi", day, "on_leave", nil, "Casual", nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM generate_series($1::date, $2::date, interval '1 day')")).
		WithArgs("2026-03-01", "2026-03-31").
		WillReturnRows(rows)

	got, err := repo.MonthlyAttendance(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "present", got[0].Status)
	require.NotNil(t, got[0].TotalHours)
	assert.Equal(t, 9.0, *got[0].TotalHours)
	assert.Equal(t, "on_leave", got[1].Status)
	require.NotNil(t, got[1].LeaveType)
	assert.Equal(t, "Casual", *got[1].LeaveType)
	assert.Nil(t, got[1].AttendanceStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ShiftAnalysis(t *testing.T) {
	db, mock := newSqlxMock(t)
	repo := report.NewRepository(db)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM shift_roster sr")).
		WithArgs("2026-03-01", "2026-03-07").
		WillReturnRows(sqlmock.NewRows([]string{"date", "shift_type", "rostered", "present"}).
			AddRow(day, "General Shift", 10, 7).
			AddRow(day, "Second Shift", 4, 4))

	got, err := repo.ShiftAnalysis(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Rostered)
	assert.Equal(t, 7, got[0].Present)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryError(t *testing.T) {
	db, mock := newSqlxMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM shift_roster sr")).WillReturnError(errors.New("relation does not exist"))

	_, err := report.NewRepository(db).ShiftAnalysis(context.Background(), time.Now(), time.Now())
	assert.ErrorContains(t, err, "shift analysis report")
}
