package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-timesheet/internal/metrics"
	"go-timesheet/internal/report"
	reporterrors "go-timesheet/internal/report/errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeRepo struct {
	monthlyFn func(ctx context.Context, start, end time.Time) ([]report.MonthlyAttendanceRow, error)
	shiftFn   func(ctx context.Context, start, end time.Time) ([]report.ShiftAnalysisRow, error)
}

func (f *fakeRepo) MonthlyAttendance(ctx context.Context, start, end time.Time) ([]report.MonthlyAttendanceRow, error) {
	return f.monthlyFn(ctx, start, end)
}

func (f *fakeRepo) ShiftAnalysis(ctx context.Context, start, end time.Time) ([]report.ShiftAnalysisRow, error) {
	return f.shiftFn(ctx, start, end)
}

func sampleRows() []report.MonthlyAttendanceRow {
	hours := 8.5
	in, out := "09:00", "17:30"
	leaveType := "Sick"
	return []report.MonthlyAttendanceRow{
		{UserID: "u-1", UserName: "Asha", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Status: "present", ClockIn: &in, ClockOut: &out, TotalHours: &hours},
		{UserID: "u-1", UserName: "Asha", Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Status: "on_leave", LeaveType: &leaveType},
	}
}

func TestService_MonthlyAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("covers the whole month", func(t *testing.T) {
		repo := &fakeRepo{monthlyFn: func(_ context.Context, start, end time.Time) ([]report.MonthlyAttendanceRow, error) {
			assert.Equal(t, "2024-02-01", start.Format("2006-01-02"))
			assert.Equal(t, "2024-02-29", end.Format("2006-01-02"))
			return sampleRows(), nil
		}}

		rows, err := report.NewService(repo, nil).MonthlyAttendance(ctx, 2, 2024)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-02-02", rows[1].Day)
	})

	t.Run("validation", func(t *testing.T) {
		svc := report.NewService(&fakeRepo{}, nil)
		_, err := svc.MonthlyAttendance(ctx, 13, 2024)
		assert.ErrorIs(t, err, reporterrors.ErrInvalidMonth)
		_, err = svc.MonthlyAttendance(ctx, 0, 2024)
		assert.ErrorIs(t, err, reporterrors.ErrInvalidMonth)
		_, err = svc.MonthlyAttendance(ctx, 1, 1999)
		assert.ErrorIs(t, err, reporterrors.ErrInvalidYear)
		_, err = svc.MonthlyAttendance(ctx, 1, 2101)
		assert.ErrorIs(t, err, reporterrors.ErrInvalidYear)
	})

	t.Run("concurrent identical requests share one query", func(t *testing.T) {
		const callers = 5
		release := make(chan struct{})
		var calls int32
		repo := &fakeRepo{monthlyFn: func(context.Context, time.Time, time.Time) ([]report.MonthlyAttendanceRow, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return sampleRows(), nil
		}}
		collector := metrics.NewCollector()
		svc := report.NewService(repo, collector)

		var wg sync.WaitGroup
		results := make([][]report.MonthlyAttendanceRow, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rows, err := svc.MonthlyAttendance(ctx, 2, 2024)
				assert.NoError(t, err)
				results[i] = rows
			}(i)
		}
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, r := range results {
			assert.Len(t, r, 2)
		}

		expected := `
# HELP report_requests_coalesced_total Monthly report requests served by an in-flight identical query.
# TYPE report_requests_coalesced_total counter
report_requests_coalesced_total 5
`
		assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "report_requests_coalesced_total"))
	})
}

func TestService_MonthlyAttendance_CallerCancellation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var queryErr atomic.Value
	repo := &fakeRepo{monthlyFn: func(qctx context.Context, _, _ time.Time) ([]report.MonthlyAttendanceRow, error) {
		close(started)
		<-release
		if err := qctx.Err(); err != nil {
			queryErr.Store(err)
			return nil, err
		}
		return sampleRows(), nil
	}}
	svc := report.NewService(repo, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.MonthlyAttendance(firstCtx, 2, 2024)
		firstErr <- err
	}()
	<-started

	type result struct {
		rows []report.MonthlyAttendanceRow
		err  error
	}
	second := make(chan result, 1)
	go func() {
		rows, err := svc.MonthlyAttendance(context.Background(), 2, 2024)
		second <- result{rows: rows, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Len(t, got.rows, 2)
	assert.Nil(t, queryErr.Load())
}

func TestService_ShiftAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("absent is rostered minus present", func(t *testing.T) {
		repo := &fakeRepo{shiftFn: func(context.Context, time.Time, time.Time) ([]report.ShiftAnalysisRow, error) {
			return []report.ShiftAnalysisRow{
				{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ShiftType: "General Shift", Rostered: 10, Present: 7},
				{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), ShiftType: "Second Shift", Rostered: 4, Present: 4},
			}, nil
		}}

		rows, err := report.NewService(repo, nil).ShiftAnalysis(ctx, "2026-03-01", "2026-03-07")
		require.NoError(t, err)
		assert.Equal(t, 3, rows[0].Absent)
		assert.Equal(t, 0, rows[1].Absent)
		assert.Equal(t, "2026-03-02", rows[0].Day)
	})

	t.Run("no roster yields empty list", func(t *testing.T) {
		repo := &fakeRepo{shiftFn: func(context.Context, time.Time, time.Time) ([]report.ShiftAnalysisRow, error) {
			return nil, nil
		}}

		rows, err := report.NewService(repo, nil).ShiftAnalysis(ctx, "2026-03-01", "2026-03-07")
		require.NoError(t, err)
		require.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("validation", func(t *testing.T) {
		svc := report.NewService(&fakeRepo{}, nil)
		_, err := svc.ShiftAnalysis(ctx, "2026-03-07", "2026-03-01")
		assert.ErrorIs(t, err, reporterrors.ErrInvalidDateRange)
		_, err = svc.ShiftAnalysis(ctx, "03/01/2026", "2026-03-07")
		assert.ErrorIs(t, err, reporterrors.ErrInvalidDate)
		_, err = svc.ShiftAnalysis(ctx, "2024-01-01", "2026-01-01")
		assert.ErrorIs(t, err, reporterrors.ErrRangeTooLong)
	})
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{monthlyFn: func(context.Context, time.Time, time.Time) ([]report.MonthlyAttendanceRow, error) {
		return sampleRows(), nil
	}}
	svc := report.NewService(repo, nil)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		info, err := svc.Export(ctx, 2, 2024, report.FormatCSV, &buf)
		require.NoError(t, err)
		assert.Equal(t, "monthly-attendance-2024-02.csv", info.Filename)

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "user_id", records[0][0])
		assert.Equal(t, []string{"u-1", "Asha", "2024-02-01", "present", "", "09:00", "17:30", "8.50"}, records[1])
		assert.Equal(t, "Sick", records[2][4])
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		info, err := svc.Export(ctx, 2, 2024, report.FormatXLSX, &buf)
		require.NoError(t, err)
		assert.Contains(t, info.ContentType, "spreadsheetml")

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Attendance")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "on_leave", rows[2][3])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Export(ctx, 2, 2024, "pdf", &bytes.Buffer{})
		assert.ErrorIs(t, err, reporterrors.ErrUnsupportedFormat)
	})
}
