package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies one of the social media sources the scraping jobs export.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"

	// Any is only produced by ParseFilter and never tags a record.
	Any Platform = "all"
)

// All lists the supported platforms in a stable order.
var All = []Platform{Facebook, Instagram, TikTok, YouTube}

var ErrUnknownPlatform = errors.New("unknown platform")

// Parse maps a loosely written platform name onto its constant. Matching is a
// case-insensitive substring test, so "Instagram1" and "data/tiktok" both resolve.
func Parse(s string) (Platform, error) {
	lower := strings.ToLower(s)
	for _, p := range All {
		if strings.Contains(lower, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

// ParseFilter is Parse that additionally accepts "all".
func ParseFilter(s string) (Platform, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(Any)) {
		return Any, nil
	}
	return Parse(s)
}

// Valid reports whether p is one of the four concrete platforms.
func (p Platform) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// Title returns the display name, e.g. "TikTok".
func (p Platform) Title() string {
	switch p {
	case Facebook:
		return "Facebook"
	case Instagram:
		return "Instagram"
	case TikTok:
		return "TikTok"
	case YouTube:
		return "YouTube"
	}
	return string(p)
}

func (p Platform) String() string { return string(p) }
