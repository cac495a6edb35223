package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. It is stored as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date, normalising to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, InvalidDate("invalid date %q", s)
	}
	return Date{t}, nil
}

// ParseExpiry converts a positional DDMMYYYY string into a Date. A nil or
// wrongly sized value means "no date" and is not an error. A value of the right
// size that does not name a real calendar day fails with ErrInvalidDate.
func ParseExpiry(s *string) (*Date, error) {
	if s == nil || len(*s) != 8 {
		return nil, nil
	}
	v := *s
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return nil, InvalidDate("invalid expiry %q: expected DDMMYYYY digits", v)
		}
	}
	day, _ := strconv.Atoi(v[0:2])
	month, _ := strconv.Atoi(v[2:4])
	year, _ := strconv.Atoi(v[4:8])
	if year == 0 {
		return nil, InvalidDate("invalid expiry %q: year 0000 is not a calendar year", v)
	}

	// time.Date normalises overflow (31 April becomes 1 May), so compare back.
	d := NewDate(year, time.Month(month), day)
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return nil, InvalidDate("invalid expiry %q: %02d/%02d/%04d is not a calendar date", v, day, month, year)
	}
	return &d, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. sqlite hands back text, postgres a time.Time.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}
