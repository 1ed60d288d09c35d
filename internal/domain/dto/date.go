package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"coreapi/internal/domain"
)

// Date accepts either a bare calendar date or an RFC 3339 timestamp, which
// is what HTML date inputs and API clients send respectively.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date { return Date{Time: t} }

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// ParseDate parses "2006-01-02" or RFC 3339. Empty input is the zero time.
func ParseDate(s string) (time.Time, error) { return domain.ParseDate(s) }

// Ptr returns nil for the zero date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
