package dini

import "testing"

func TestScalar(t *testing.T) {
	for _, test := range []struct {
		input string
		rest  string
		key   Key
	}{
		{"42", "", NumKey(42)},
		{"  \n 42 ; c", " ; c", NumKey(42)},
		{"2fa = x", "= x", StrKey("2fa")},
		{"tom foo  \n", "\n", StrKey("tom foo")},
		{"a, b", ", b", StrKey("a")},
		{"99999999999999999999", "", StrKey("99999999999999999999")},
		{"= 5", "= 5", StrKey("")},
		{"", "", StrKey("")},
	} {
		rest, key := scalar(test.input)
		if rest != test.rest || key != test.key {
			t.Errorf("scalar(%q) = %q, %#v; want %q, %#v", test.input, rest, key, test.rest, test.key)
		}
	}
}

func TestLineEnd(t *testing.T) {
	for _, test := range []struct {
		input   string
		rest    string
		comment string
		ok      bool
	}{
		{"\nnext", "next", "", true},
		{"  ; note\r\n\n  \nnext", "next", " note", true},
		{"; at eof", "", " at eof", true},
		{"\n   ; own line\n", "   ; own line\n", "", true},
		{" x", " x", "", false},
		{"", "", "", false},
	} {
		rest, comment, err := lineEnd(test.input)
		if (err == nil) != test.ok {
			t.Errorf("lineEnd(%q) error = %v, want ok = %v", test.input, err, test.ok)
			continue
		}
		if rest != test.rest || comment != test.comment {
			t.Errorf("lineEnd(%q) = %q, %q; want %q, %q", test.input, rest, comment, test.rest, test.comment)
		}
	}
}

func TestPeeksDoNotConsume(t *testing.T) {
	input := "[general]\nfoo = bar\n"
	id, ok := peekIdent(input)
	if !ok || id.section != "general" {
		t.Fatalf("peekIdent(%q) = %#v, %v", input, id, ok)
	}
	if id, _ := peekIdent(input); id.section != "general" {
		t.Errorf("second peekIdent returned %#v", id)
	}

	rest, id, ok := readIdent(input)
	if !ok || rest != "foo = bar\n" {
		t.Fatalf("readIdent(%q) = %q, %#v, %v", input, rest, id, ok)
	}
	if id, ok := peekIdent(rest); !ok || id.isSection() || id.key != StrKey("foo") {
		t.Errorf("peekIdent(%q) = %#v, %v", rest, id, ok)
	}

	if _, ok := peekIdent("[broken"); ok {
		t.Errorf("expected unterminated header not to classify")
	}
	if _, ok := peekIdent(", x"); ok {
		t.Errorf("expected punctuation not to classify")
	}
	if !peekEOF(" \n\t") || peekEOF(" x") {
		t.Errorf("peekEOF mismatch")
	}
	if !peekLineEnd(" ; c\n") || peekLineEnd(", 2") {
		t.Errorf("peekLineEnd mismatch")
	}
}

func TestRuleString(t *testing.T) {
	for rule, str := range map[Rule]string{
		RuleLineEnd: "end of line",
		RuleKey:     "key",
		RuleComma:   "comma",
		RuleSection: "section header",
	} {
		if rule.String() != str {
			t.Errorf("%#v.String() = %q, want %q", rule, rule.String(), str)
		}
	}
}
