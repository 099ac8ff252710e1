package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-timesheet/internal/metrics"
	reporterrors "go-timesheet/internal/report/errors"
	"go-timesheet/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	dateLayout   = "2006-01-02"
	maxRangeDays = 366

	// sharedQueryTimeout bounds a coalesced query once it no longer follows
	// the context of the caller that started it.
	sharedQueryTimeout = 2 * time.Minute
)

type Service interface {
	MonthlyAttendance(ctx context.Context, month, year int) ([]MonthlyAttendanceRow, error)
	ShiftAnalysis(ctx context.Context, startDate, endDate string) ([]ShiftAnalysisRow, error)
	Export(ctx context.Context, month, year int, format string, w io.Writer) (ExportInfo, error)
}

type service struct {
	repo    Repository
	sf      *singleflight.Group
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewService(repo Repository, collector *metrics.Collector, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		repo:    repo,
		sf:      &singleflight.Group{},
		metrics: collector,
		logger:  l,
	}
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return reporterrors.ErrInvalidMonth
	}
	if year < 2000 || year > 2100 {
		return reporterrors.ErrInvalidYear
	}
	return nil
}

// MonthlyAttendance returns one row per active user per calendar day of the
// month. Identical concurrent requests share a single query.
func (s *service) MonthlyAttendance(ctx context.Context, month, year int) ([]MonthlyAttendanceRow, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	log := contextutil.GetLogger(ctx, s.logger)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	key := fmt.Sprintf("monthly:%04d-%02d", year, month)

	// The shared query outlives any single caller; each caller only stops
	// waiting when its own context ends.
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedQueryTimeout)
		defer cancel()

		rows, err := s.repo.MonthlyAttendance(qctx, start, end)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Day = rows[i].Date.Format(dateLayout)
		}
		return rows, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		log.Warn("monthly attendance report abandoned", zap.Int("month", month), zap.Int("year", year), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res = <-ch:
	}

	shared := res.Shared
	if shared {
		s.metrics.ReportCoalesced()
	}
	if res.Err != nil {
		log.Error("monthly attendance report failed", zap.Int("month", month), zap.Int("year", year), zap.Error(res.Err))
		return nil, res.Err
	}

	rows := res.Val.([]MonthlyAttendanceRow)
	log.Debug("monthly attendance report built",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("rows", len(rows)),
		zap.Bool("coalesced", shared),
	)
	// Callers must not share the slice backing a coalesced result.
	out := make([]MonthlyAttendanceRow, len(rows))
	copy(out, rows)
	return out, nil
}

// ShiftAnalysis reports rostered and present headcount per (date, shift_type).
// Absent is rostered minus present.
func (s *service) ShiftAnalysis(ctx context.Context, startDate, endDate string) ([]ShiftAnalysisRow, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, reporterrors.ErrInvalidDate
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, reporterrors.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, reporterrors.ErrInvalidDateRange
	}
	if end.Sub(start) >= maxRangeDays*24*time.Hour {
		return nil, reporterrors.ErrRangeTooLong
	}

	rows, err := s.repo.ShiftAnalysis(ctx, start, end)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("shift analysis report failed", zap.Error(err))
		return nil, err
	}
	if rows == nil {
		rows = []ShiftAnalysisRow{}
	}
	for i := range rows {
		rows[i].Day = rows[i].Date.Format(dateLayout)
		rows[i].Absent = rows[i].Rostered - rows[i].Present
	}
	return rows, nil
}

func (s *service) Export(ctx context.Context, month, year int, format string, w io.Writer) (ExportInfo, error) {
	var render func(io.Writer, []MonthlyAttendanceRow) error
	var info ExportInfo
	switch format {
	case FormatCSV:
		render = WriteCSV
		info = ExportInfo{ContentType: "text/csv", Filename: fmt.Sprintf("monthly-attendance-%04d-%02d.csv", year, month)}
	case FormatXLSX:
		render = WriteXLSX
		info = ExportInfo{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("monthly-attendance-%04d-%02d.xlsx", year, month),
		}
	default:
		return ExportInfo{}, reporterrors.ErrUnsupportedFormat
	}

	rows, err := s.MonthlyAttendance(ctx, month, year)
	if err != nil {
		return ExportInfo{}, err
	}
	if err := render(w, rows); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render report export failed", zap.String("format", format), zap.Error(err))
		return ExportInfo{}, err
	}
	return info, nil
}
