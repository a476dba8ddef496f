package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// ISOLayout renders instants the way browsers' Date.toISOString does.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// zone-less layouts produced by the backend's LocalDateTime fields.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// DateTime is a point in time on the wire. Incoming values may be RFC 3339 or
// zone-less local date-times (interpreted in time.Local); outgoing values are
// always UTC in ISOLayout.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.UTC().Format(ISOLayout))), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("datetime: %w", err)
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDateTime accepts RFC 3339 or a zone-less local date-time.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("datetime: unsupported format %q", s)
}
