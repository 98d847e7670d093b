package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day exchanged with the backend as "2006-01-02".
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses "2006-01-02"; a trailing time component is ignored.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the Go weekday of the date.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// TeachingDay maps the date to its timetable day; ok is false on weekends.
func (d Date) TeachingDay() (Weekday, bool) {
	switch d.t.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	}
	return "", false
}

func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }

// Within reports whether from <= d <= to.
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a time of day with minute precision, exchanged as "15:04".
type ClockTime struct {
	minutes int
	set     bool
}

// NewClockTime builds a ClockTime from hours and minutes.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{minutes: hour*60 + minute, set: true}
}

// ParseClockTime accepts "15:04" and "15:04:05"; seconds are dropped.
func ParseClockTime(value string) (ClockTime, error) {
	value = strings.TrimSpace(value)
	var hour, minute, second int
	var err error
	switch strings.Count(value, ":") {
	case 1:
		_, err = fmt.Sscanf(value, "%d:%d", &hour, &minute)
	case 2:
		_, err = fmt.Sscanf(value, "%d:%d:%d", &hour, &minute, &second)
	default:
		err = fmt.Errorf("unexpected format")
	}
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return ClockTime{}, fmt.Errorf("invalid time of day %q", value)
	}
	return NewClockTime(hour, minute), nil
}

// MustClockTime is ParseClockTime for literals known to be valid.
func MustClockTime(value string) ClockTime {
	c, err := ParseClockTime(value)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) IsZero() bool { return !c.set }

// Minutes returns the number of minutes since midnight.
func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) Before(other ClockTime) bool { return c.minutes < other.minutes }

// HoursUntil returns the duration in hours between c and end, negative when end precedes c.
func (c ClockTime) HoursUntil(end ClockTime) float64 {
	return float64(end.minutes-c.minutes) / 60
}

func (c ClockTime) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*c = ClockTime{}
		return nil
	}
	parsed, err := ParseClockTime(*raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
