package amazfit

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// dateLayout is the calendar-day format used by the API and by all record
// Date fields.
const dateLayout = "2006-01-02"

// dayStart truncates t to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayEnd returns the last instant of t's calendar day.
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// validateRange rejects a range whose end day precedes its start day. Both
// bounds are inclusive and compared at calendar-day granularity, so
// start == end selects a single day.
func validateRange(start, end time.Time) error {
	if dayStart(end).Before(dayStart(start)) {
		return &RangeError{Start: start, End: end}
	}
	return nil
}

// rangeMillis converts an inclusive date range into the epoch-millisecond
// bounds the events endpoint expects: midnight of the start day through the
// last instant of the end day.
func rangeMillis(start, end time.Time) (from, to int64) {
	return dayStart(start).UnixMilli(), dayEnd(end).UnixMilli()
}

// dateInRange reports whether an ISO date string falls inside the inclusive
// range. ISO dates compare correctly as strings.
func dateInRange(date string, start, end time.Time) bool {
	return date >= dayStart(start).Format(dateLayout) && date <= dayStart(end).Format(dateLayout)
}

// unixMillis is an epoch timestamp the API reports inconsistently: some
// endpoints use seconds, some milliseconds, and some quote the number as a
// JSON string. Values at or below 1e12 are treated as seconds.
type unixMillis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *unixMillis) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if f != 0 && f <= 1e12 {
		f *= 1000
	}
	*m = unixMillis(f)
	return nil
}

// Time converts the timestamp to a time.Time in the local zone.
func (m unixMillis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Date returns the timestamp's calendar day as an ISO date string.
func (m unixMillis) Date() string {
	return m.Time().Format(dateLayout)
}

// flexFloat parses numeric fields the API sometimes returns as quoted
// strings, e.g. an average heart rate of "110.0". Empty strings and null
// decode as zero.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexInt is flexFloat truncated to an integer; several integer fields arrive
// as strings or with a trailing decimal.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// flexString reads identifiers the API emits as either strings or bare
// numbers, such as workout track ids.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(trimmed)
	return nil
}
