package dini

import (
	"strconv"
)

// KeyKind distinguishes numeric keys from text keys.
type KeyKind int8

const (
	KindStr = KeyKind(iota)
	KindNum
)

// A Key is a single scalar token: either an integer or a run of text.
// A token made only of digits is always numeric, even in key position,
// so "8 = great" has the key NumKey(8).
//
// Keys are comparable and can be used as map keys. The zero Key is the
// empty text token.
type Key struct {
	Kind KeyKind
	Num  int64
	Str  string
}

// NumKey returns a numeric key.
func NumKey(n int64) Key {
	return Key{Kind: KindNum, Num: n}
}

// StrKey returns a text key.
func StrKey(s string) Key {
	return Key{Kind: KindStr, Str: s}
}

func (k Key) isEmpty() bool {
	return k.Kind == KindStr && k.Str == ""
}

// String returns the text of the key, formatting numbers in decimal.
func (k Key) String() string {
	if k.Kind == KindNum {
		return strconv.FormatInt(k.Num, 10)
	}
	return k.Str
}

func (k Key) GoString() string {
	if k.Kind == KindNum {
		return strconv.FormatInt(k.Num, 10)
	}
	return strconv.Quote(k.Str)
}

func (k Key) any() any {
	if k.Kind == KindNum {
		return k.Num
	}
	return k.Str
}

// A Value is either a single scalar or, for comma separated values, a
// flat list of scalars.
type Value struct {
	Key
	List []Key
}

// IsList reports whether the value was written as a comma separated list.
func (v Value) IsList() bool {
	return v.List != nil
}

func (v Value) any() any {
	if !v.IsList() {
		return v.Key.any()
	}
	list := make([]any, len(v.List))
	for i, k := range v.List {
		list[i] = k.any()
	}
	return list
}

// A Group holds the key/value pairs of one section.
type Group map[Key]Value

// Plain converts the group to a map[string]any, with numeric keys written
// in decimal, scalars as int64 or string, and lists as []any.
func (g Group) Plain() map[string]any {
	m := make(map[string]any, len(g))
	for k, v := range g {
		m[k.String()] = v.any()
	}
	return m
}

// Anonymous is the section name under which [Parse] stores the key/value
// pairs that appear before the first section header.
const Anonymous = "_"

// A Document maps section names to their groups.
type Document map[string]Group

// Plain converts each group with [Group.Plain].
func (d Document) Plain() map[string]any {
	m := make(map[string]any, len(d))
	for name, g := range d {
		m[name] = g.Plain()
	}
	return m
}

// Parse parses a whole document. See [ParseString].
func Parse(data []byte) (Document, error) {
	return ParseString(string(data))
}

// ParseString parses a whole document. Text keys and values in the result
// are substrings of input and are not copied.
//
// Pairs before the first section are stored under [Anonymous] (if there are
// any). When a key or section appears more than once, the last one wins.
func ParseString(input string) (Document, error) {
	doc, err := document(input)
	if err != nil {
		return nil, locate(input, err)
	}
	return doc, nil
}
