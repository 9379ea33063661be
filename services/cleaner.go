package services

import (
	"net/url"
	"regexp"
	"strings"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/utils"
)

// The TikTok scraper writes this id when it could not resolve a video, so the
// rebuilt link ends in it whatever the author handle.
const unresolvedVideo = "could not collect"

var facebookIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`videos/[^/]+/(\d+)`),
	regexp.MustCompile(`story_fbid=(\d+)`),
	regexp.MustCompile(`id=(\d+)`),
	regexp.MustCompile(`v=(\d+)`),
	regexp.MustCompile(`reel/(\d+)`),
}

// Cleaner removes duplicates and junk rows from the concatenated dataset.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops exact duplicates, renders id and url as text, drops rows the
// scrapers produced on failure and canonicalizes Facebook links.
func (c *Cleaner) Clean(d models.Dataset) models.Dataset {
	seen := utils.NewURLSet()
	result := make(models.Dataset, 0, len(d))
	var dups, junk int

	for _, e := range d {
		if !seen.Add(e.Key()) {
			dups++
			continue
		}

		e = e.Clone()
		stringify(&e.Fields, string(platform.ID))
		stringify(&e.Fields, string(platform.URL))

		if isJunk(e) {
			c.logger.Debug("[cleaner] Dropping junk row: %s", e.URL())
			junk++
			continue
		}

		if e.Platform == platform.Facebook {
			if v, ok := e.Fields.Value(string(platform.URL)).Raw(); ok {
				e.Fields.Set(string(platform.URL), models.StringValue(CleanFacebookURL(v)))
			}
		}
		result = append(result, e)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d entries (dropped %d duplicates, %d junk)",
		len(d), len(result), dups, junk)
	return result
}

// stringify turns a number or time under key into its text form. Absent stays absent.
func stringify(row *models.Row, key string) {
	v, ok := row.Get(key)
	if !ok || v.IsAbsent() || v.IsString() {
		return
	}
	row.Set(key, models.StringValue(v.String()))
}

func isJunk(e models.Entry) bool {
	if strings.Contains(e.ID(), "https://www.tiktok") {
		return true
	}
	if e.Platform == platform.TikTok && e.ID() == unresolvedVideo {
		return true
	}
	u := e.URL()
	return strings.Contains(u, "login/?") || strings.HasSuffix(u, "/video/"+unresolvedVideo)
}

// CleanFacebookURL keeps only the story_fbid query parameter. Watch links are
// returned unchanged, as are strings that do not parse as URLs.
func CleanFacebookURL(raw string) string {
	if strings.Contains(raw, "watch") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	kept := url.Values{}
	for _, v := range u.Query()["story_fbid"] {
		kept.Add("story_fbid", v)
	}
	u.RawQuery = kept.Encode()
	return u.String()
}

// FacebookID extracts the numeric post id from the Facebook link shapes seen in
// exports, or "" when none matches.
func FacebookID(link string) string {
	for _, re := range facebookIDPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}
