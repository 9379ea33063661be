// Package coerce turns raw scraped strings into typed values.
package coerce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotNumeric    = errors.New("not numeric")
	ErrNotATimestamp = errors.New("not a timestamp")
)

// Number parses counters as the scrapers print them: "1,204", "1.2K", "3M",
// and Facebook's "12K play". Fractions left after applying a K/M multiplier
// are truncated toward zero.
func Number(raw string) (int64, error) {
	s := strings.ToLower(strings.ReplaceAll(raw, ",", ""))
	s = strings.TrimSpace(strings.ReplaceAll(s, "play", ""))

	var factor int64 = 1
	switch {
	case strings.HasSuffix(s, "k"):
		factor = 1_000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		factor = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if hasPoint && (frac == "" || strings.Contains(frac, ".")) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	if !validMantissa(whole, hasPoint) || !digitsOnly(frac) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}

	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}

	scale := int64(1)
	for range len(frac) {
		scale *= 10
	}
	if factor != 1 && n > (1<<63-1)/factor {
		return 0, fmt.Errorf("%w: %q overflows", ErrNotNumeric, raw)
	}
	return n * factor / scale, nil
}

func validMantissa(whole string, hasPoint bool) bool {
	digits := strings.TrimPrefix(whole, "-")
	if digits == "" {
		// ".5" is accepted, a bare "-" is not.
		return hasPoint && whole == ""
	}
	return digitsOnly(digits)
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Timestamp parses raw with layout and shifts the result by offset.
func Timestamp(raw, layout string, offset time.Duration) (time.Time, error) {
	if layout == "" {
		return time.Time{}, fmt.Errorf("%w: no layout for %q", ErrNotATimestamp, raw)
	}
	t, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotATimestamp, raw)
	}
	return t.Add(offset), nil
}
