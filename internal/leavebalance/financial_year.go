package leavebalance

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var financialYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// FinancialYearStartMonth is the first month of a financial year. "2024-25"
// runs from April 2024 to March 2025.
const FinancialYearStartMonth = time.April

// ValidFinancialYear accepts "YYYY-YY" where the second part is the year after
// the first, e.g. "2024-25" or "2099-00".
func ValidFinancialYear(v string) bool {
	m := financialYearPattern.FindStringSubmatch(v)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return (start+1)%100 == end
}

func FinancialYearOf(t time.Time) string {
	start := t.Year()
	if t.Month() < FinancialYearStartMonth {
		start--
	}
	return fmt.Sprintf("%04d-%02d", start, (start+1)%100)
}
