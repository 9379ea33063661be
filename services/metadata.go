package services

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"search-analysis/models"
	"search-analysis/platform"
)

var ErrUnrecognizedFilename = errors.New("unrecognized filename")

const (
	trendingTag  = "trending@"
	collectedTag = "collected@"
)

// Extractor reads collection parameters out of export paths. Two layouts are
// understood:
//
//	<query>_<platform>_trending@MM-DD-HH_collected@MM-DD-HH[/...]
//	<query>-MM-DD-<time>.csv
//
// The second carries no trending time. File names never carry a year, so one
// is supplied.
type Extractor struct {
	year int
}

func NewExtractor(year int) *Extractor {
	return &Extractor{year: year}
}

// Extract parses path. Platform is left empty when nothing in the path names one.
func (x *Extractor) Extract(p string) (models.FileMetadata, error) {
	slashed := filepath.ToSlash(p)
	segments := strings.Split(slashed, "/")
	base := path.Base(slashed)
	stem := strings.TrimSuffix(base, path.Ext(base))

	for _, seg := range segments {
		seg = strings.TrimSuffix(seg, ".csv")
		if strings.Contains(seg, trendingTag) && strings.Contains(seg, collectedTag) {
			return x.explicit(seg, stem, slashed)
		}
	}
	for _, seg := range segments {
		seg = strings.TrimSuffix(seg, ".csv")
		if strings.Contains(seg, collectedTag) {
			return x.explicit(seg, stem, slashed)
		}
	}
	return x.positional(stem, slashed)
}

// explicit handles the underscore layout. Query and platform come from the
// tagged segment when it has them, else from the file name and the path.
func (x *Extractor) explicit(seg, stem, full string) (models.FileMetadata, error) {
	tokens := strings.Split(seg, "_")

	meta := models.FileMetadata{TrendingTime: models.UnknownTrending}
	var haveCollected bool
	var plain []string
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, trendingTag):
			t, err := x.stamp(strings.TrimPrefix(tok, trendingTag))
			if err != nil {
				return models.FileMetadata{}, fmt.Errorf("%w: %q: trending time: %v", ErrUnrecognizedFilename, full, err)
			}
			meta.TrendingTime = t
			meta.TrendingKnown = true
		case strings.HasPrefix(tok, collectedTag):
			t, err := x.stamp(strings.TrimPrefix(tok, collectedTag))
			if err != nil {
				return models.FileMetadata{}, fmt.Errorf("%w: %q: collected time: %v", ErrUnrecognizedFilename, full, err)
			}
			meta.CollectedTime = t
			haveCollected = true
		default:
			plain = append(plain, tok)
		}
	}
	if !haveCollected {
		return models.FileMetadata{}, fmt.Errorf("%w: %q: no collected time", ErrUnrecognizedFilename, full)
	}

	if len(plain) >= 2 {
		meta.Query = plain[0]
		if p, err := platform.Parse(plain[1]); err == nil {
			meta.Platform = p
		}
	} else {
		q, _, _ := strings.Cut(stem, "_")
		q, _, _ = strings.Cut(q, "-")
		meta.Query = q
	}
	if meta.Platform == "" {
		if p, err := platform.Parse(full); err == nil {
			meta.Platform = p
		}
	}
	if meta.Query == "" {
		return models.FileMetadata{}, fmt.Errorf("%w: %q: no query", ErrUnrecognizedFilename, full)
	}
	return meta, nil
}

// positional handles "<query>-MM-DD-<time>". Facebook exports are prefixed with
// "Facebook_". The time part is either a clock after a space, as in
// "1721059200 13:00:00", or HHMM digits, as in "1300 PM".
func (x *Extractor) positional(stem, full string) (models.FileMetadata, error) {
	name := stem
	if strings.Contains(name, "Facebook") {
		if _, rest, ok := strings.Cut(name, "_"); ok {
			name = rest
		}
	}

	tokens := strings.Split(name, "-")
	if len(tokens) < 4 || tokens[0] == "" {
		return models.FileMetadata{}, fmt.Errorf("%w: %q", ErrUnrecognizedFilename, full)
	}

	month, errM := strconv.Atoi(tokens[1])
	day, errD := strconv.Atoi(tokens[2])
	hour, errH := parseHour(strings.Join(tokens[3:], "-"))
	if errM != nil || errD != nil || errH != nil {
		return models.FileMetadata{}, fmt.Errorf("%w: %q: no date after query", ErrUnrecognizedFilename, full)
	}
	collected := time.Date(x.year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
	if month < 1 || month > 12 || collected.Day() != day {
		return models.FileMetadata{}, fmt.Errorf("%w: %q: invalid date %02d-%02d", ErrUnrecognizedFilename, full, month, day)
	}

	meta := models.FileMetadata{
		Query:         tokens[0],
		TrendingTime:  models.UnknownTrending,
		CollectedTime: collected,
	}
	if p, err := platform.Parse(full); err == nil {
		meta.Platform = p
	}
	return meta, nil
}

// stamp parses MM-DD-HH in the extractor's year.
func (x *Extractor) stamp(s string) (time.Time, error) {
	t, err := time.Parse(models.CollectionLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(x.year, t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC), nil
}

func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)

	if _, clock, ok := strings.Cut(s, " "); ok {
		if hh, _, isClock := strings.Cut(strings.TrimSpace(clock), ":"); isClock {
			return checkHour(strconv.Atoi(hh))
		}
	}

	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	digits := s[:end]
	switch len(digits) {
	case 3, 4:
		digits = digits[:len(digits)-2]
	case 1, 2:
	default:
		return 0, fmt.Errorf("no hour in %q", s)
	}
	h, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}

	suffix := strings.ToUpper(strings.TrimSpace(s[end:]))
	switch {
	case strings.HasPrefix(suffix, "PM") && h < 12:
		h += 12
	case strings.HasPrefix(suffix, "AM") && h == 12:
		h = 0
	}
	return checkHour(h, nil)
}

func checkHour(h int, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	return h, nil
}
