package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeader = []string{
	"user_id", "user_name", "date", "status", "leave_type", "clock_in", "clock_out", "total_hours",
}

type ExportInfo struct {
	ContentType string
	Filename    string
}

func exportRecord(r MonthlyAttendanceRow) []string {
	hours := ""
	if r.TotalHours != nil {
		hours = strconv.FormatFloat(*r.TotalHours, 'f', 2, 64)
	}
	return []string{
		r.UserID, r.UserName, r.Day, r.Status,
		deref(r.LeaveType), deref(r.ClockIn), deref(r.ClockOut), hours,
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func WriteCSV(w io.Writer, rows []MonthlyAttendanceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []MonthlyAttendanceRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		record := exportRecord(r)
		if err := f.SetSheetRow(exportSheet, cell, &record); err != nil {
			return err
		}
	}
	return f.Write(w)
}
