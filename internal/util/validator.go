package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive upper bound for a single transaction amount.
var MaxAmount = decimal.NewFromInt(10_000_000)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,      // 2025-12-03T00:00:00.000+08:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	"2006-01-02 15:04:05", // 2025-12-03 00:00:00
	"2006-01-02",          // 2025-12-03
}

// MoneyScale is the number of fractional digits the money columns keep.
const MoneyScale = 4

// ValidateScale rejects values the decimal(20,4) columns would round.
func ValidateScale(v decimal.Decimal) error {
	if !v.Equal(v.Round(MoneyScale)) {
		return fmt.Errorf("at most %d decimal places allowed, got %s", MoneyScale, v)
	}
	return nil
}

// ValidateAmount 验证金额（必须为正数且不超过上限）
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return ValidateScale(amount)
}

// ParseDate accepts RFC3339 and the common date/datetime forms without an
// offset (read as UTC) and returns the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ValidateName 验证名称（不能为空且长度合理）
func ValidateName(name string, max int) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if utf8.RuneCountInString(name) > max {
		return fmt.Errorf("name too long, max %d characters", max)
	}
	return nil
}

// MonthRange returns [first instant of the month, first instant of the next
// month) in UTC.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be 1-12, got %d", month)
	}
	if year < 1000 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("year must have four digits, got %d", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}
