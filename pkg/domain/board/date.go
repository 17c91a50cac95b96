package board

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (ISO 8601 date).
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day or zone. The zero value means
// "no date". Arithmetic goes through time.Time so month and year boundaries
// roll over correctly.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil // empty means unset
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t.UTC()}, nil
}

// MustParseDate parses a date or panics. Use only in tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf truncates a time.Time to its calendar day in UTC.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the underlying time at UTC midnight.
func (d Date) Time() time.Time {
	return d.t
}

// String renders the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalYAML renders the date as a YYYY-MM-DD scalar.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML parses a YYYY-MM-DD scalar.
func (d *Date) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GobEncode implements gob encoding so dates survive net/rpc transport.
func (d Date) GobEncode() ([]byte, error) {
	return []byte(d.String()), nil
}

// GobDecode implements gob decoding.
func (d *Date) GobDecode(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON renders the date as a YYYY-MM-DD string, null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a YYYY-MM-DD string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
