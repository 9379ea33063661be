package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"search-analysis/coerce"
	"search-analysis/platform"
)

var ErrMissingColumn = errors.New("missing column")

// Resolution is the full outcome of reading one field. CoerceErr is set when
// every converter rejected Raw and Value fell back to the string.
type Resolution struct {
	Value     Value
	Raw       string
	Column    string
	CoerceErr error
}

// Item is the shared record behaviour of posts and users: a read-only view over
// one raw row tagged with its platform.
type Item struct {
	platform platform.Platform
	schema   *platform.Schema
	raw      map[string]string
	order    []string
	convert  func(p platform.Platform, raw string) (Value, error)

	// normalized is set when the item wraps an already canonical row.
	normalized *Row
}

func newItem(schema *platform.Schema, p platform.Platform, header, values []string, convert func(platform.Platform, string) (Value, error)) Item {
	it := Item{
		platform: p,
		schema:   schema,
		raw:      make(map[string]string, len(header)),
		order:    make([]string, 0, len(header)),
		convert:  convert,
	}
	for i, col := range header {
		if _, dup := it.raw[col]; dup {
			continue
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		it.raw[col] = v
		it.order = append(it.order, col)
	}
	return it
}

func fromMap(raw map[string]string) (header, values []string) {
	header = make([]string, 0, len(raw))
	for k := range raw {
		header = append(header, k)
	}
	sort.Strings(header)
	values = make([]string, len(header))
	for i, k := range header {
		values[i] = raw[k]
	}
	return header, values
}

func (it *Item) Platform() platform.Platform { return it.platform }

// Raw returns the unconverted cell under a native column name.
func (it *Item) Raw(column string) (string, bool) {
	v, ok := it.raw[column]
	return v, ok
}

// Columns lists the native columns in source order.
func (it *Item) Columns() []string {
	return append([]string(nil), it.order...)
}

// Resolve looks key up as a canonical field first and as a native column second.
func (it *Item) Resolve(key platform.Field) (Resolution, error) {
	if it.normalized != nil {
		v, ok := it.normalized.Get(string(key))
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %s record has no %q", platform.ErrUnsupportedField, it.platform.Title(), key)
		}
		return Resolution{Value: v, Raw: v.String(), Column: string(key)}, nil
	}

	col, raw, err := it.lookup(key)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Raw: raw, Column: col}
	if it.schema.IsPlaceholder(it.platform, raw) {
		return res, nil
	}
	res.Value, res.CoerceErr = it.convert(it.platform, raw)
	return res, nil
}

// Get returns the coerced value of key, Absent for placeholders.
func (it *Item) Get(key platform.Field) (Value, error) {
	res, err := it.Resolve(key)
	if err != nil {
		return Absent(), err
	}
	return res.Value, nil
}

func (it *Item) lookup(key platform.Field) (string, string, error) {
	col, mapErr := it.schema.Column(it.platform, key)
	if mapErr == nil {
		if v, ok := it.raw[col]; ok {
			return col, v, nil
		}
	}
	if v, ok := it.raw[string(key)]; ok {
		return string(key), v, nil
	}
	if mapErr != nil {
		return "", "", mapErr
	}
	return "", "", fmt.Errorf("%w: %s row lacks %q for %q", ErrMissingColumn, it.platform.Title(), col, key)
}

// IsPlaceholder reports whether raw means "not collected" on this item's platform.
func (it *Item) IsPlaceholder(raw string) bool {
	return it.schema.IsPlaceholder(it.platform, raw)
}

// ToRow materializes every raw column, renamed to its canonical field where one
// exists and coerced like Get.
func (it *Item) ToRow() Row {
	if it.normalized != nil {
		return it.normalized.Clone()
	}
	row := NewRow()
	for _, col := range it.order {
		key := col
		if f, ok := it.schema.Field(it.platform, col); ok {
			key = string(f)
		} else if mapped, err := it.schema.Column(it.platform, platform.Field(col)); err == nil && mapped != col {
			// An unmapped column named like a canonical field would shadow the real one.
			if _, present := it.raw[mapped]; present {
				continue
			}
		}
		raw := it.raw[col]
		if it.schema.IsPlaceholder(it.platform, raw) {
			row.Set(key, Absent())
			continue
		}
		v, _ := it.convert(it.platform, raw)
		row.Set(key, v)
	}
	return row
}

// convertPost tries a number, then a timestamp in the platform layout, then
// keeps the string. The platform clock correction is applied here and only here.
func convertPost(p platform.Platform, raw string) (Value, error) {
	n, numErr := coerce.Number(raw)
	if numErr == nil {
		return NumberValue(n), nil
	}
	t, timeErr := coerce.Timestamp(raw, platform.TimeLayout(p), platform.TimeOffset(p))
	if timeErr == nil {
		return TimeValue(t), nil
	}
	return StringValue(raw), errors.Join(numErr, timeErr)
}

func convertUser(_ platform.Platform, raw string) (Value, error) {
	n, err := coerce.Number(raw)
	if err != nil {
		return StringValue(raw), err
	}
	return NumberValue(n), nil
}

// Post is one scraped search result.
type Post struct {
	Item
}

// NewPost builds a post from a header and the matching cells of one row.
func NewPost(p platform.Platform, header, values []string) *Post {
	return &Post{Item: newItem(platform.Posts, p, header, values, convertPost)}
}

// NewPostFromMap is NewPost for callers holding a column map.
func NewPostFromMap(p platform.Platform, raw map[string]string) *Post {
	header, values := fromMap(raw)
	return NewPost(p, header, values)
}

// PostFromRow wraps a canonical row produced by ToRow. Values are taken as is.
func PostFromRow(p platform.Platform, row Row) *Post {
	r := row.Clone()
	return &Post{Item: Item{
		platform:   p,
		schema:     platform.Posts,
		raw:        map[string]string{},
		convert:    convertPost,
		normalized: &r,
		order:      r.Keys(),
	}}
}

// URL is the link to the post. Instagram and TikTok exports only carry the id,
// so the link is rebuilt from it.
func (p *Post) URL() (Value, error) {
	if p.normalized != nil {
		if v, ok := p.normalized.Get(string(platform.URL)); ok {
			return v, nil
		}
	}
	switch p.platform {
	case platform.Instagram:
		id, err := p.ID()
		if err != nil || id.IsAbsent() {
			return Absent(), err
		}
		kind := "reel"
		if t, err := p.Type(); err == nil && t.String() == "post" {
			kind = "p"
		}
		return StringValue(fmt.Sprintf("https://www.instagram.com/%s/%s", kind, id.String())), nil
	case platform.TikTok:
		id, err := p.ID()
		if err != nil || id.IsAbsent() {
			return Absent(), err
		}
		if s, ok := id.Raw(); ok && strings.Contains(s, "https://") {
			return id, nil
		}
		handle := ""
		if u, err := p.UserUniqueName(); err == nil {
			handle = u.String()
		}
		return StringValue(fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", handle, id.String())), nil
	}
	return p.Get(platform.URL)
}

// UploadTime is already clock corrected by the coercion layer.
func (p *Post) UploadTime() (Value, error)     { return p.Get(platform.UploadTime) }
func (p *Post) UserName() (Value, error)       { return p.Get(platform.UserName) }
func (p *Post) Text() (Value, error)           { return p.Get(platform.Text) }
func (p *Post) Likes() (Value, error)          { return p.Get(platform.Likes) }
func (p *Post) ID() (Value, error)             { return p.Get(platform.ID) }
func (p *Post) Rank() (Value, error)           { return p.Get(platform.Rank) }
func (p *Post) UserUniqueName() (Value, error) { return p.Get(platform.UserUniqueName) }
func (p *Post) Type() (Value, error)           { return p.Get(platform.Type) }
func (p *Post) VideoDuration() (Value, error)  { return p.Get(platform.VideoDuration) }
func (p *Post) Comments() (Value, error)       { return p.Get(platform.Comments) }
func (p *Post) Views() (Value, error)          { return p.Get(platform.Views) }
func (p *Post) Shares() (Value, error)         { return p.Get(platform.Shares) }

// Key identifies a post by url and likes. Two scrapes of the same post with the
// same like count collapse; a changed count is treated as a different sighting.
func (p *Post) Key() string {
	url, _ := p.URL()
	likes, _ := p.Likes()
	return url.key() + "\x1f" + likes.key()
}

// Equal compares posts by Key.
func (p *Post) Equal(o *Post) bool {
	return o != nil && p.Key() == o.Key()
}

// SamePost compares posts by url only.
func (p *Post) SamePost(o *Post) bool {
	if o == nil {
		return false
	}
	a, _ := p.URL()
	b, _ := o.URL()
	return a.Equal(b)
}

// User is an account seen on a platform.
type User struct {
	Item
}

// NewUser builds a user from a column map. Instagram profiles without a full
// name fall back to the handle.
func NewUser(p platform.Platform, raw map[string]string) *User {
	header, values := fromMap(raw)
	u := &User{Item: newItem(platform.Users, p, header, values, convertUser)}
	if p == platform.Instagram {
		nameCol, _ := platform.Users.Column(p, platform.Name)
		uniqueCol, _ := platform.Users.Column(p, platform.UniqueName)
		if u.raw[nameCol] == "" {
			if _, ok := u.raw[nameCol]; !ok {
				u.order = append(u.order, nameCol)
			}
			u.raw[nameCol] = u.raw[uniqueCol]
		}
	}
	return u
}

func (u *User) Name() (Value, error)       { return u.Get(platform.Name) }
func (u *User) UniqueName() (Value, error) { return u.Get(platform.UniqueName) }
func (u *User) Bio() (Value, error)        { return u.Get(platform.Bio) }
func (u *User) Followers() (Value, error)  { return u.Get(platform.Followers) }
func (u *User) Following() (Value, error)  { return u.Get(platform.Following) }
func (u *User) Posts() (Value, error)      { return u.Get(platform.PostCount) }

// Key identifies a user by display name, plus the handle where the platform has one.
func (u *User) Key() string {
	name, _ := u.Name()
	k := string(u.platform) + "\x1f" + name.String()
	if u.platform == platform.Instagram || u.platform == platform.TikTok {
		unique, _ := u.UniqueName()
		k += "\x1f" + unique.String()
	}
	return k
}

// UsersFromPosts returns the distinct authors of posts in first-seen order.
// Only name and handle are filled in.
func UsersFromPosts(posts []*Post) []*User {
	seen := make(map[string]struct{})
	var users []*User
	for _, post := range posts {
		p := post.Platform()
		nameCol, _ := platform.Users.Column(p, platform.Name)
		uniqueCol, _ := platform.Users.Column(p, platform.UniqueName)

		raw := map[string]string{nameCol: "", uniqueCol: ""}
		if v, err := post.UserName(); err == nil {
			raw[nameCol] = v.String()
		}
		if v, err := post.UserUniqueName(); err == nil {
			raw[uniqueCol] = v.String()
		}

		u := NewUser(p, raw)
		if _, dup := seen[u.Key()]; dup {
			continue
		}
		seen[u.Key()] = struct{}{}
		users = append(users, u)
	}
	return users
}
