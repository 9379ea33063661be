package models

import (
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	}
	return "absent"
}

// TimeFormat is used whenever a time value is rendered as text.
const TimeFormat = "2006-01-02 15:04:05"

// Value is one coerced cell. The zero Value is absent: the platform reported
// the cell as not collected.
type Value struct {
	kind Kind
	str  string
	num  int64
	t    time.Time
}

func Absent() Value               { return Value{} }
func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n int64) Value   { return Value{kind: KindNumber, num: n} }
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == KindAbsent }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsTime() bool    { return v.kind == KindTime }
func (v Value) IsString() bool  { return v.kind == KindString }

// Int returns the number held by v.
func (v Value) Int() (int64, bool) {
	return v.num, v.kind == KindNumber
}

// Time returns the timestamp held by v.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Raw returns the string held by v. Only string values carry one.
func (v Value) Raw() (string, bool) {
	return v.str, v.kind == KindString
}

// String renders v as text. Absent values render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatInt(v.num, 10)
	case KindTime:
		return v.t.Format(TimeFormat)
	}
	return ""
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindTime:
		return v.t.Equal(o.t)
	}
	return true
}

// key is a kind-qualified rendering used for row identity.
func (v Value) key() string {
	return fmt.Sprintf("%d:%s", v.kind, v.String())
}

type wireValue struct {
	Kind Kind       `json:"k"`
	Str  string     `json:"s,omitempty"`
	Num  int64      `json:"n,omitempty"`
	Time *time.Time `json:"t,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.kind, Str: v.str, Num: v.num}
	if v.kind == KindTime {
		t := v.t
		w.Time = &t
	}
	return json.Marshal(w)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = Value{kind: w.Kind, str: w.Str, num: w.Num}
	if w.Time != nil {
		v.t = *w.Time
	}
	return nil
}
