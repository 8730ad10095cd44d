// Package dini implements parsing and decoding of a small INI dialect.
//
// A document is a list of key/value lines, optionally grouped under section
// headers. Values are integers, runs of text, or comma separated lists of
// those. Comments start with ";" and run to the end of the line.
//
//	; a basic document
//	name = tom foo
//	ports = 80, 443
//
//	[general]
//	verbose = true
//	tags = one, two, three
//
// There are no quoted strings, escapes, multi-line values or floats; a text
// value is a run of letters, digits, spaces and underscores.
//
// [Parse] reads a document into a [Document], a map from section name to
// [Group]. Pairs before the first section are stored under [Anonymous].
//
// Like the builtin json package, [Unmarshal] converts a document directly
// into Go values. For example, the document above can be decoded into:
//
//	type Example struct {
//	  Name    string   `dini:"name"`
//	  Ports   []int    `dini:"ports"`
//	  General struct {
//	    Verbose bool     `dini:"verbose"`
//	    Tags    []string `dini:"tags"`
//	  } `dini:"general"`
//	}
//
//	example := Example{}
//	dini.Unmarshal(data, &example)
//
// Unmarshal does not build an intermediate document: it reads the input
// once, front to back, and each Go type consumes exactly the tokens it
// needs. Text values are substrings of the input, so [UnmarshalString] and
// [ParseString] do not copy them.
package dini
