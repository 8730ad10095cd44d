package dini

import "strings"

// ident is the classification of the next item in a group: either a
// section header or a key. The zero ident with ok == false means neither.
type ident struct {
	section string
	key     Key
}

func (id ident) isSection() bool {
	return id.section != ""
}

func (id ident) name() string {
	if id.isSection() {
		return id.section
	}
	return id.key.String()
}

// readIdent reads a section header (and the line end after it) or a
// non-empty key.
func readIdent(in string) (string, ident, bool) {
	in = skipWhitespace(in)
	if strings.HasPrefix(in, "[") {
		rest, name, err := sectionHeader(in)
		if err != nil {
			return in, ident{}, false
		}
		if next, _, err := lineEnd(rest); err == nil {
			rest = next
		}
		return rest, ident{section: name}, true
	}

	rest, key := scalar(in)
	if key.isEmpty() {
		return in, ident{}, false
	}
	return rest, ident{key: key}, true
}

func peekIdent(in string) (ident, bool) {
	_, id, ok := readIdent(in)
	return id, ok
}

func peekEOF(in string) bool {
	return skipWhitespace(in) == ""
}

func peekLineEnd(in string) bool {
	_, _, err := lineEnd(in)
	return err == nil
}
