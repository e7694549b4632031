package model

import "time"

// DateLayout is the numeric-year, short-month, numeric-day, 2-digit time form.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// FormatDate renders t in local time. The zero time formats to "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// FormatDateString is FormatDate for RFC 3339 text; empty or unparsable input gives "".
func FormatDateString(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return ""
	}
	return FormatDate(t)
}
