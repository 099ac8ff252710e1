package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// A day is on_leave when no attendance row exists and an approved leave
// covers it. The earliest such leave supplies leave_type.
const monthlyAttendanceQuery = `
SELECT
	u.id::text AS user_id,
	u.name AS user_name,
	d.day::date AS date,
	CASE
		WHEN a.status IS NOT NULL THEN a.status
		WHEN lr.id IS NOT NULL THEN 'on_leave'
		ELSE 'absent'
	END AS status,
	a.status AS attendance_status,
	lr.leave_type AS leave_type,
	a.clock_in AS clock_in,
	a.clock_out AS clock_out,
	a.total_hours::float8 AS total_hours
FROM generate_series($1::date, $2::date, interval '1 day') AS d(day)
CROSS JOIN users u
LEFT JOIN attendance a ON a.user_id = u.id AND a.date = d.day::date
LEFT JOIN LATERAL (
	SELECT l.id, l.leave_type
	FROM leave_requests l
	WHERE l.user_id = u.id
		AND l.status = 'approved'
		AND d.day::date BETWEEN l.start_date AND l.end_date
	ORDER BY l.start_date, l.created_at
	LIMIT 1
) lr ON true
WHERE u.is_active
ORDER BY u.name, u.id, d.day`

const shiftAnalysisQuery = `
SELECT
	sr.date AS date,
	sr.shift_type AS shift_type,
	COUNT(*) AS rostered,
	COUNT(a.id) FILTER (WHERE a.status = 'present') AS present
FROM shift_roster sr
LEFT JOIN attendance a ON a.user_id = sr.user_id AND a.date = sr.date
WHERE sr.date BETWEEN $1::date AND $2::date
GROUP BY sr.date, sr.shift_type
ORDER BY sr.date, sr.shift_type`

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	MonthlyAttendance(ctx context.Context, start, end time.Time) ([]MonthlyAttendanceRow, error)
	ShiftAnalysis(ctx context.Context, start, end time.Time) ([]ShiftAnalysisRow, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MonthlyAttendance(ctx context.Context, start, end time.Time) ([]MonthlyAttendanceRow, error) {
	rows := []MonthlyAttendanceRow{}
	if err := r.db.SelectContext(ctx, &rows, monthlyAttendanceQuery, start.Format(dateLayout), end.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("monthly attendance report: %w", err)
	}
	return rows, nil
}

func (r *repository) ShiftAnalysis(ctx context.Context, start, end time.Time) ([]ShiftAnalysisRow, error) {
	rows := []ShiftAnalysisRow{}
	if err := r.db.SelectContext(ctx, &rows, shiftAnalysisQuery, start.Format(dateLayout), end.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("shift analysis report: %w", err)
	}
	return rows, nil
}
