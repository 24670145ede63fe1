package ledger

import (
	"strconv"
	"strings"
	"time"

	"finance-ledger/internal/util"

	"gorm.io/gorm"
)

// MonthFilter restricts a query to one calendar month of the stored (UTC)
// transaction date. The zero value means all time.
type MonthFilter struct {
	Month int
	Year  int
}

// ParseMonthFilter builds a filter from raw month/year query values. Both
// empty means no filter; giving only one of them is a validation error.
func ParseMonthFilter(month, year string) (MonthFilter, error) {
	month, year = strings.TrimSpace(month), strings.TrimSpace(year)
	if month == "" && year == "" {
		return MonthFilter{}, nil
	}
	if month == "" || year == "" {
		return MonthFilter{}, invalidf("month and year must be given together")
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return MonthFilter{}, invalidf("invalid month %q", month)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return MonthFilter{}, invalidf("invalid year %q", year)
	}
	f := MonthFilter{Month: m, Year: y}
	if _, _, err := f.Range(); err != nil {
		return MonthFilter{}, invalidf("%v", err)
	}
	return f, nil
}

// IsZero reports whether the filter selects all time.
func (f MonthFilter) IsZero() bool {
	return f.Month == 0 && f.Year == 0
}

// Range returns the half-open UTC interval covered by the filter.
func (f MonthFilter) Range() (time.Time, time.Time, error) {
	return util.MonthRange(f.Year, f.Month)
}

// apply narrows q to the filter window on column col.
func (f MonthFilter) apply(q *gorm.DB, col string) (*gorm.DB, error) {
	if f.IsZero() {
		return q, nil
	}
	start, end, err := f.Range()
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return q.Where(col+" >= ? AND "+col+" < ?", start, end), nil
}
