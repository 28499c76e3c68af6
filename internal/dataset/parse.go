package dataset

import (
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the canonical timestamp form cleaned tables are written in.
const TimeLayout = "2006-01-02 15:04:05"

var timeLayouts = []string{
	TimeLayout,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseTime parses a cell as a timestamp against the accepted layouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseFloat parses a cell as a float64.
func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseInt parses a cell as an integer, accepting float renderings of whole
// numbers ("17850.0") the way spreadsheet exports produce them.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// FormatFloat renders a float so that it parses back to the same value.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatInt renders an integer cell.
func FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
