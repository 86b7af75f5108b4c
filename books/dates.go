package books

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006, 03:04 pm"
	isoDateLayout  = "2006-01-02"
)

// Date accepts both calendar dates ("2024-01-15") and RFC 3339 timestamps.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// ParseDate parses a calendar date or RFC 3339 timestamp. Empty input yields
// the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if len(value) == len(isoDateLayout) {
		return time.Parse(isoDateLayout, value)
	}
	return time.Parse(time.RFC3339, value)
}

// Midnight drops the time-of-day, keeping the calendar date as written.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from "from" to "to".
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// FormatDateTime renders a timestamp as dd/mm/yyyy, hh:mm am.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateTimeLayout)
}

// CombineDateTime joins a yyyy-mm-dd date and an hh:mm time in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	parsed, err := time.ParseInLocation(isoDateLayout+" 15:04", strings.TrimSpace(date)+" "+clock, loc)
	if err != nil {
		return time.Time{}, NewError(KindValidation, "invalid payment date or time", err)
	}
	return parsed, nil
}
