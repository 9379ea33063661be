package platform

import (
	"errors"
	"fmt"
	"time"
)

// RegistryVersion changes whenever a mapping, placeholder set or layout below
// changes. Cached datasets are keyed on it.
const RegistryVersion = 3

var ErrUnsupportedField = errors.New("unsupported field")

// Field is a platform independent column name used across the unified dataset.
type Field string

// Post fields. The first five are available on every platform.
const (
	URL        Field = "url"
	UploadTime Field = "upload time"
	UserName   Field = "user name"
	Text       Field = "text"
	Likes      Field = "likes"

	ID             Field = "id"
	Rank           Field = "rank"
	UserUniqueName Field = "user id"
	Type           Field = "type"
	VideoDuration  Field = "video duration (s)"
	Comments       Field = "comments"
	Views          Field = "views"
	Shares         Field = "shares"
)

// User fields.
const (
	Name       Field = "name"
	UniqueName Field = "unique name"
	Bio        Field = "bio"
	Followers  Field = "followers"
	Following  Field = "following"
	PostCount  Field = "posts"
)

// PostFields is the canonical post field set in presentation order.
var PostFields = []Field{
	URL, UploadTime, UserName, Text, Likes,
	ID, Rank, UserUniqueName, Type, VideoDuration, Comments, Views, Shares,
}

// Schema is the static translation table for one record kind. It is built once
// at package init and never mutated afterwards.
type Schema struct {
	kind         string
	columns      map[Platform]map[Field]string
	reverse      map[Platform]map[string]Field
	placeholders map[Platform]map[string]struct{}
	required     map[Platform][]Field
}

func newSchema(kind string, columns map[Platform]map[Field]string, placeholders map[Platform][]string, required map[Platform][]Field) *Schema {
	s := &Schema{
		kind:         kind,
		columns:      columns,
		reverse:      make(map[Platform]map[string]Field, len(columns)),
		placeholders: make(map[Platform]map[string]struct{}, len(placeholders)),
		required:     required,
	}
	for p, m := range columns {
		rev := make(map[string]Field, len(m))
		for f, col := range m {
			rev[col] = f
		}
		s.reverse[p] = rev
	}
	for p, values := range placeholders {
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		s.placeholders[p] = set
	}
	return s
}

// Column returns the native column holding f on platform p.
func (s *Schema) Column(p Platform, f Field) (string, error) {
	col, ok := s.columns[p][f]
	if !ok {
		return "", fmt.Errorf("%w: %s %s has no %q", ErrUnsupportedField, p.Title(), s.kind, f)
	}
	return col, nil
}

// Field is the reverse of Column.
func (s *Schema) Field(p Platform, column string) (Field, bool) {
	f, ok := s.reverse[p][column]
	return f, ok
}

// IsPlaceholder reports whether raw is a "not collected" sentinel on p.
func (s *Schema) IsPlaceholder(p Platform, raw string) bool {
	_, ok := s.placeholders[p][raw]
	return ok
}

// Required lists the fields whose native column must be present for a row to be usable.
func (s *Schema) Required(p Platform) []Field {
	return s.required[p]
}

// Validate checks that every platform carries a complete table.
func (s *Schema) Validate() error {
	for _, p := range All {
		if _, ok := s.columns[p]; !ok {
			return fmt.Errorf("registry: %s schema has no mapping for %s", s.kind, p)
		}
		if _, ok := s.placeholders[p]; !ok {
			return fmt.Errorf("registry: %s schema has no placeholder set for %s", s.kind, p)
		}
		for _, f := range s.required[p] {
			if _, err := s.Column(p, f); err != nil {
				return fmt.Errorf("registry: required field: %w", err)
			}
		}
	}
	return nil
}

// Posts is the post schema of the four scrapers.
var Posts = newSchema("post",
	map[Platform]map[Field]string{
		Facebook: {
			URL:        "url",
			UploadTime: "time",
			UserName:   "name",
			Text:       "description",
			Likes:      "likes",

			Type:     "type",
			Comments: "comments",
			Views:    "views",
			Shares:   "shares",
		},
		Instagram: {
			ID:         "id",
			UploadTime: "upload date",
			UserName:   "full name",
			Text:       "caption",
			Likes:      "likes",

			Rank:           "rank",
			Type:           "type",
			UserUniqueName: "username",
			Comments:       "comments",
		},
		TikTok: {
			ID:         "id",
			UploadTime: "createTime",
			UserName:   "author_nickname",
			Text:       "videoDescription",
			Likes:      "diggCount",

			Rank:           "position",
			Type:           "isAd",
			UserUniqueName: "author_uniqueId",
			VideoDuration:  "videoDuration",
			Comments:       "commentCount",
			Views:          "playCount",
			Shares:         "shareCount",
		},
		YouTube: {
			URL:        "videoUrl",
			UploadTime: "publishDate",
			UserName:   "author",
			Text:       "description",
			Likes:      "likes",

			Rank:          "position",
			VideoDuration: "length",
			Views:         "views",
		},
	},
	map[Platform][]string{
		// The Facebook scraper writes the column title when a cell could not be read.
		Facebook: {
			"", "name", "no display name", "likes", "views", "shares", "comments",
			"description", "description not found", "time", "time not found",
		},
		Instagram: {"<<could not collect>>", "<<not collected>>"},
		TikTok:    {""},
		YouTube:   {""},
	},
	map[Platform][]Field{
		Facebook:  {URL},
		Instagram: {ID},
		TikTok:    {ID},
		YouTube:   {Text},
	},
)

// Users is the user schema. Only Instagram exports profiles; on the other
// platforms users are derived from posts and keyed by the canonical names.
var Users = newSchema("user",
	map[Platform]map[Field]string{
		Facebook: {Name: string(Name), UniqueName: string(UniqueName)},
		Instagram: {
			Name:       "full name",
			UniqueName: "username",
			Bio:        "bio",
			Followers:  "followers",

			Following: "following",
			PostCount: "posts",
		},
		TikTok:  {Name: string(Name), UniqueName: string(UniqueName)},
		YouTube: {Name: string(Name), UniqueName: string(UniqueName)},
	},
	map[Platform][]string{
		Facebook:  {},
		Instagram: {},
		TikTok:    {},
		YouTube:   {},
	},
	nil,
)

var timeLayouts = map[Platform]string{
	Facebook:  "Monday, January 2, 2006 at 3:04 PM",
	Instagram: "2006-01-02 15:04:05",
	TikTok:    "2006-01-02T15:04:05",
	YouTube:   "2006-01-02 15:04:05",
}

// TimeLayout is the layout upload timestamps are written in on p.
func TimeLayout(p Platform) string {
	return timeLayouts[p]
}

// TimeOffset corrects a platform's clock. TikTok exports are four hours ahead.
func TimeOffset(p Platform) time.Duration {
	if p == TikTok {
		return -4 * time.Hour
	}
	return 0
}

// Validate checks both schemas and the timestamp layouts.
func Validate() error {
	for _, s := range []*Schema{Posts, Users} {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, p := range All {
		if timeLayouts[p] == "" {
			return fmt.Errorf("registry: no time layout for %s", p)
		}
	}
	return nil
}
