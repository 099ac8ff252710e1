package attendance

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

// clockMinutes converts a validated HH:MM value into minutes after midnight.
func clockMinutes(v string) int {
	h, _ := strconv.Atoi(v[:2])
	m, _ := strconv.Atoi(v[3:])
	return h*60 + m
}

// HoursBetween is the worked time from clockIn to clockOut rounded to two
// decimals. A clock-out earlier than the clock-in belongs to the next day.
func HoursBetween(clockIn, clockOut string) decimal.Decimal {
	diff := clockMinutes(clockOut) - clockMinutes(clockIn)
	if diff < 0 {
		diff += minutesPerDay
	}
	return decimal.NewFromInt(int64(diff)).Div(decimal.NewFromInt(60)).Round(2)
}
