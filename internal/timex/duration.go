// Package timex holds time helpers shared by configuration loaders.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration is time.ParseDuration plus a leading day component, so the
// "1d" and "7d12h" forms common in token expiry settings are accepted.
// A day is always 24h.
func ParseDuration(s string) (time.Duration, error) {
	days, rest, ok := strings.Cut(s, "d")
	if !ok {
		return time.ParseDuration(s)
	}

	n, err := strconv.ParseInt(days, 10, 64)
	if err != nil || n < 0 || strings.HasPrefix(days, "+") {
		return 0, fmt.Errorf("timex: invalid duration %q", s)
	}
	d := time.Duration(n) * 24 * time.Hour
	if d/(24*time.Hour) != time.Duration(n) {
		return 0, fmt.Errorf("timex: duration %q overflows", s)
	}

	if rest == "" {
		return d, nil
	}
	extra, err := time.ParseDuration(rest)
	if err != nil || extra < 0 {
		return 0, fmt.Errorf("timex: invalid duration %q", s)
	}
	return d + extra, nil
}

// Duration wraps time.Duration so JSON config files may spell intervals
// either as strings ("15m", "1h30m", "1d") or as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}
