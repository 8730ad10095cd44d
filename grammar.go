package dini

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule identifies the grammar rule that failed to match in a [SyntaxError].
type Rule int8

// These rules are reported by [SyntaxError].
const (
	RuleLineEnd = Rule(iota)
	RuleKey
	RuleComma
	RuleSection
)

func (r Rule) String() string {
	switch r {
	case RuleLineEnd:
		return "end of line"
	case RuleKey:
		return "key"
	case RuleComma:
		return "comma"
	case RuleSection:
		return "section header"
	default:
		panic("Unknown Rule")
	}
}

func (r Rule) GoString() string {
	switch r {
	case RuleLineEnd:
		return "RuleLineEnd"
	case RuleKey:
		return "RuleKey"
	case RuleComma:
		return "RuleComma"
	case RuleSection:
		return "RuleSection"
	default:
		panic("Unknown Rule")
	}
}

func isTokenRune(r rune) bool {
	return r == '_' || r == ' ' || r == '\t' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func skipWhitespace(in string) string {
	return strings.TrimLeft(in, " \t\r\n")
}

func skipSpaces(in string) string {
	return strings.TrimLeft(in, " \t")
}

func cutNewline(in string) (string, bool) {
	if rest, ok := strings.CutPrefix(in, "\n"); ok {
		return rest, true
	}
	return strings.CutPrefix(in, "\r\n")
}

// lineEnd matches an optional comment followed by one or more line breaks.
// A comment that runs to the end of the input also matches. The comment
// text (without the leading ";") is returned.
func lineEnd(in string) (rest, comment string, err error) {
	rest = skipSpaces(in)
	if body, ok := strings.CutPrefix(rest, ";"); ok {
		i := strings.IndexAny(body, "\r\n")
		if i < 0 {
			return "", body, nil
		}
		comment, rest = body[:i], body[i:]
	}

	found := false
	for {
		next, ok := cutNewline(skipSpaces(rest))
		if !ok {
			break
		}
		rest, found = next, true
	}
	if !found {
		return in, "", &SyntaxError{Rule: RuleLineEnd, Input: in}
	}
	return rest, comment, nil
}

// skipBlank skips whitespace, blank lines and comment-only lines.
func skipBlank(in string) string {
	for {
		in = skipWhitespace(in)
		if !strings.HasPrefix(in, ";") {
			return in
		}
		in, _, _ = lineEnd(in)
	}
}

// scalar reads one token after skipping leading whitespace. A run of digits
// that fits in an int64 is a number; anything else is the longest run of
// letters, digits, spaces and underscores with trailing space removed.
// The text may be empty, scalar never fails.
func scalar(in string) (string, Key) {
	in = skipWhitespace(in)

	if digits := len(in) - len(strings.TrimLeft(in, "0123456789")); digits > 0 {
		rest := in[digits:]
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !isWordRune(r) {
			if n, err := strconv.ParseInt(in[:digits], 10, 64); err == nil {
				return rest, NumKey(n)
			}
		}
	}

	end := strings.IndexFunc(in, func(r rune) bool { return !isTokenRune(r) })
	if end < 0 {
		end = len(in)
	}
	return in[end:], StrKey(strings.TrimRight(in[:end], " \t"))
}

func punctuation(in string, c string) (string, bool) {
	rest, ok := strings.CutPrefix(skipSpaces(in), c)
	if !ok {
		return in, false
	}
	return skipSpaces(rest), true
}

func assignment(in string) (string, bool) {
	return punctuation(in, "=")
}

func comma(in string) (string, bool) {
	return punctuation(in, ",")
}

// value reads a scalar, or a comma separated list of scalars when the first
// scalar is followed by a comma.
func value(in string) (string, Value) {
	rest, first := scalar(in)
	if _, ok := comma(rest); !ok {
		return rest, Value{Key: first}
	}

	list := []Key{first}
	for {
		next, ok := comma(rest)
		if !ok {
			return rest, Value{List: list}
		}
		var k Key
		rest, k = scalar(next)
		list = append(list, k)
	}
}

func keyValue(in string) (string, Key, Value, error) {
	rest, key := scalar(in)
	if key.isEmpty() {
		return in, Key{}, Value{}, &SyntaxError{Rule: RuleKey, Input: skipWhitespace(in)}
	}
	rest, ok := assignment(rest)
	if !ok {
		return in, Key{}, Value{}, &AssignmentError{Input: rest}
	}
	rest, val := value(rest)
	return rest, key, val, nil
}

// groupBody reads key/value lines until the end of input or the next
// section header.
func groupBody(in string) (string, Group, error) {
	group := Group{}
	for {
		in = skipBlank(in)
		if in == "" || strings.HasPrefix(in, "[") {
			return in, group, nil
		}
		rest, key, val, err := keyValue(in)
		if err != nil {
			return in, nil, err
		}
		group[key] = val
		if next, _, err := lineEnd(rest); err == nil {
			rest = next
		}
		in = rest
	}
}

// sectionHeader reads "[name]". The name is a run of token characters and
// may contain spaces, so "[bar junk]" names the section "bar junk".
func sectionHeader(in string) (string, string, error) {
	rest, ok := strings.CutPrefix(in, "[")
	if !ok {
		return in, "", &SyntaxError{Rule: RuleSection, Input: in}
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return !isTokenRune(r) })
	if end < 0 {
		end = len(rest)
	}
	name := strings.Trim(rest[:end], " \t")
	rest, ok = strings.CutPrefix(rest[end:], "]")
	if !ok || name == "" {
		return in, "", &SyntaxError{Rule: RuleSection, Input: in}
	}
	return rest, name, nil
}

func group(in string) (string, string, Group, error) {
	rest, name, err := sectionHeader(skipWhitespace(in))
	if err != nil {
		return in, "", nil, err
	}
	if next, _, err := lineEnd(rest); err == nil {
		rest = next
	}
	rest, body, err := groupBody(rest)
	if err != nil {
		return in, "", nil, err
	}
	return rest, name, body, nil
}

func document(in string) (Document, error) {
	doc := Document{}
	rest, anon, err := groupBody(in)
	if err != nil {
		return nil, err
	}
	if len(anon) > 0 {
		doc[Anonymous] = anon
	}

	for rest = skipBlank(rest); rest != ""; rest = skipBlank(rest) {
		var name string
		var body Group
		rest, name, body, err = group(rest)
		if err != nil {
			return nil, err
		}
		doc[name] = body
	}
	return doc, nil
}
