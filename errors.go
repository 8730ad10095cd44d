package dini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTrailingContent is returned by [Unmarshal] when the target value was
// fully decoded but the document still has non-whitespace content left over.
var ErrTrailingContent = errors.New("junk at end of input")

// A SyntaxError reports input that does not match the grammar.
type SyntaxError struct {
	Rule  Rule   // the rule that failed to match
	Input string // the remaining input at the point of failure
	Lno   int    // 1-based line number, or 0 if unknown
}

func (e *SyntaxError) Error() string {
	return withLno(e.Lno, fmt.Sprintf("expected %s, found %s", e.Rule, excerpt(e.Input)))
}

// An AssignmentError reports a key that is not followed by "=".
type AssignmentError struct {
	Input string
	Lno   int
}

func (e *AssignmentError) Error() string {
	return withLno(e.Lno, fmt.Sprintf("expected assignment, found %s", excerpt(e.Input)))
}

// An IdentError reports a position where a key or section header was
// required but neither could be read.
type IdentError struct {
	Input string
	Lno   int
}

func (e *IdentError) Error() string {
	return withLno(e.Lno, fmt.Sprintf("expected key or section, found %s", excerpt(e.Input)))
}

// A BoolError reports a scalar that is not one of the accepted boolean spellings.
type BoolError struct {
	Found Key
}

func (e *BoolError) Error() string {
	return fmt.Sprintf("expected bool, found %#v", e.Found)
}

// A CharError reports a scalar that cannot be read as a single character.
type CharError struct {
	Found Key
}

func (e *CharError) Error() string {
	return fmt.Sprintf("expected char, found %#v", e.Found)
}

// An IntError reports a scalar that is not a valid integer for the target.
// Err is usually a [*strconv.NumError].
type IntError struct {
	Token string
	Err   error
}

func (e *IntError) Error() string {
	return fmt.Sprintf("expected number, found %q: %v", e.Token, e.Err)
}

func (e *IntError) Unwrap() error {
	return e.Err
}

// An UnsupportedError reports a Go type that the format cannot represent,
// such as floats, byte slices or empty structs.
type UnsupportedError struct {
	Kind string
}

func (e *UnsupportedError) Error() string {
	return e.Kind + " is not supported"
}

// A CustomError carries a failure raised by the target type rather than
// the grammar: unknown or missing fields, bad enum variants, wrong tuple
// lengths, or errors from UnmarshalText.
type CustomError struct {
	Msg string
	Err error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func customf(format string, args ...any) *CustomError {
	return &CustomError{Msg: fmt.Sprintf(format, args...)}
}

func rangeError(fn, token string) *IntError {
	return &IntError{Token: token, Err: &strconv.NumError{Func: fn, Num: token, Err: strconv.ErrRange}}
}

func withLno(lno int, msg string) string {
	if lno == 0 {
		return msg
	}
	return fmt.Sprintf("%d: %s", lno, msg)
}

// excerpt quotes the rest of the current line for error messages.
func excerpt(input string) string {
	if input == "" {
		return "end of input"
	}
	line, _, _ := strings.Cut(input, "\n")
	line = strings.TrimRight(line, "\r")
	if len(line) > 40 {
		line = line[:40] + "..."
	}
	return strconv.Quote(line)
}

// locate fills in the line number of positional errors, given the
// complete source the remaining input was sliced from.
func locate(src string, err error) error {
	lno := func(rest string) int {
		if len(rest) > len(src) {
			return 0
		}
		return strings.Count(src[:len(src)-len(rest)], "\n") + 1
	}
	var se *SyntaxError
	var ae *AssignmentError
	var ie *IdentError
	switch {
	case errors.As(err, &se):
		se.Lno = lno(se.Input)
	case errors.As(err, &ae):
		ae.Lno = lno(ae.Input)
	case errors.As(err, &ie):
		ie.Lno = lno(ie.Input)
	}
	return err
}
