package leavebalance_test

import (
	"testing"
	"time"

	"go-timesheet/internal/leavebalance"

	"github.com/stretchr/testify/assert"
)

func TestValidFinancialYear(t *testing.T) {
	cases := map[string]bool{
		"2024-25":   true,
		"1999-00":   true,
		"2024-26":   false,
		"2024-2025": false,
		"24-25":     false,
		"":          false,
	}
	for in, want := range cases {
		assert.Equal(t, want, leavebalance.ValidFinancialYear(in), in)
	}
}

func TestFinancialYearOf(t *testing.T) {
	assert.Equal(t, "2024-25", leavebalance.FinancialYearOf(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-25", leavebalance.FinancialYearOf(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-24", leavebalance.FinancialYearOf(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2099-00", leavebalance.FinancialYearOf(time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
