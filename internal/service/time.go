package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateOnly accepts the date spellings the automation layer sends.
type dateOnly struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func (d *dateOnly) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, raw)
}

// monthKey reports whether raw is a valid "YYYY-MM" payroll month.
func monthKey(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01", raw); err != nil {
		return "", false
	}
	return raw, true
}

func timePtr(d *dateOnly) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// endExclusive turns an inclusive "to" date into the store's exclusive
// upper bound.
func endExclusive(d *dateOnly) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time.Add(24 * time.Hour)
	return &t
}
