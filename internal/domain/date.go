package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date form sent by HTML date inputs.
const DateLayout = "2006-01-02"

// ParseDate parses "2006-01-02" or RFC 3339. Empty input is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func decodeDate(b []byte) (time.Time, bool, error) {
	if bytes.Equal(b, []byte("null")) {
		return time.Time{}, false, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}, false, fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, !t.IsZero(), nil
}

// dateField decodes a required date into t.
type dateField struct{ t *time.Time }

func (d dateField) UnmarshalJSON(b []byte) error {
	t, _, err := decodeDate(b)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

// optionalDateField decodes a nullable date into *p. null and "" clear it.
type optionalDateField struct{ p **time.Time }

func (d optionalDateField) UnmarshalJSON(b []byte) error {
	t, ok, err := decodeDate(b)
	if err != nil {
		return err
	}
	if !ok {
		*d.p = nil
		return nil
	}
	*d.p = &t
	return nil
}
