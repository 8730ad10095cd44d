package dini

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Char is a single character. A Char field takes the first character of
// a text value; numbers and empty values are rejected with a [CharError].
type Char rune

// Enum is implemented by integer types whose values name a fixed set of
// variants. A text value selects the variant with that name, and a number
// selects the variant at that index.
//
//	type Fruit int
//
//	func (Fruit) Variants() []string { return []string{"apple", "pear"} }
type Enum interface {
	Variants() []string
}

var (
	charType            = reflect.TypeFor[Char]()
	keyType             = reflect.TypeFor[Key]()
	valueType           = reflect.TypeFor[Value]()
	enumType            = reflect.TypeFor[Enum]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	plainMapType        = reflect.TypeFor[map[string]any]()
)

// A Decoder reads a document from an input stream.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads all of the input and unmarshals it into v.
func (dec *Decoder) Decode(v any) error {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v)
}

// Unmarshal updates the value v with the data from the document.
// See [UnmarshalString] for details.
func Unmarshal(data []byte, v any) error {
	return UnmarshalString(string(data), v)
}

// UnmarshalString updates the value v with the data from the document.
// v should be a non-nil pointer. Strings in the result share memory with
// input.
//
// The document is decoded directly into v without building a [Document]
// first. Structs and maps read key/value lines; a section header at the
// top level is read as a key whose value is the section's body. Inside a
// section, the next section header ends the map.
//
// For struct fields the key is taken from a `dini:"name"` tag, then from a
// `json:"name"` tag, and otherwise either the field name or its snake_case
// version matches. Fields are required unless they are pointers or
// interfaces, or are tagged `dini:",optional"`. A struct field tagged
// `dini:",tuple"` is read positionally from a comma separated list.
//
// Slices and arrays read comma separated lists, pointers are allocated as
// needed, and [encoding.TextUnmarshaler] receives the text of one scalar.
// When decoding into an interface, scalars become int64 or string, lists
// become []any and sections become map[string]any.
//
// Floats, byte slices and empty structs cannot be represented and return
// an [UnsupportedError]. If content remains after v has been decoded,
// Unmarshal returns [ErrTrailingContent].
func UnmarshalString(input string, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return fmt.Errorf("invalid target, must be a non-nil pointer")
	}

	d := &decoder{input: input}
	if err := d.decodeValue(value.Elem()); err != nil {
		return locate(input, err)
	}
	if skipBlank(d.input) != "" {
		return ErrTrailingContent
	}
	return nil
}

// decoder is a cursor over the remaining input. input only ever moves
// forward. section is set once a section header has been read as a key,
// and tells maps opened after that point to stop at the next header.
type decoder struct {
	input   string
	section string
}

func (d *decoder) scalar() Key {
	rest, k := scalar(d.input)
	d.input = rest
	return k
}

func (d *decoder) decodeValue(v reflect.Value) error {
	t := v.Type()

	if t.Kind() != reflect.Pointer && v.CanAddr() && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		k := d.scalar()
		if err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(k.String())); err != nil {
			return &CustomError{Msg: fmt.Sprintf("invalid %s %#v", t, k), Err: err}
		}
		return nil
	}

	switch t {
	case charType:
		return d.decodeChar(v)
	case keyType:
		v.Set(reflect.ValueOf(d.scalar()))
		return nil
	case valueType:
		rest, val := value(d.input)
		d.input = rest
		v.Set(reflect.ValueOf(val))
		return nil
	}

	if e, ok := asEnum(v); ok {
		return d.decodeEnum(v, e.Variants())
	}

	switch t.Kind() {
	case reflect.Bool:
		k := d.scalar()
		b, ok := parseBool(k)
		if !ok {
			return &BoolError{Found: k}
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(v, d.scalar())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUint(v, d.scalar())
	case reflect.String:
		v.SetString(d.scalar().String())
		return nil
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return d.decodeValue(v.Elem())
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return &UnsupportedError{Kind: t.String()}
		}
		rest, val := value(d.input)
		d.input = rest
		v.Set(reflect.ValueOf(val.any()))
		return nil
	case reflect.Struct:
		if t.NumField() == 0 {
			return &UnsupportedError{Kind: "unit"}
		}
		return d.decodeStruct(v)
	case reflect.Map:
		return d.decodeMap(v)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &UnsupportedError{Kind: "bytes"}
		}
		return d.decodeSlice(v)
	case reflect.Array:
		return d.decodeFixed(v.Len(), v.Index)
	case reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return &UnsupportedError{Kind: t.Kind().String()}
	}
	return &UnsupportedError{Kind: t.String()}
}

func asEnum(v reflect.Value) (Enum, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, false
	}
	if v.Type().Implements(enumType) {
		return v.Interface().(Enum), true
	}
	if v.CanAddr() && v.Addr().Type().Implements(enumType) {
		return v.Addr().Interface().(Enum), true
	}
	return nil, false
}

func parseBool(k Key) (bool, bool) {
	if k.Kind == KindNum {
		switch k.Num {
		case 0:
			return false, true
		case 1:
			return true, true
		}
		return false, false
	}
	switch k.Str {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

func setInt(v reflect.Value, k Key) error {
	n := k.Num
	if k.Kind == KindStr {
		var err error
		if n, err = strconv.ParseInt(k.Str, 10, 64); err != nil {
			return &IntError{Token: k.Str, Err: err}
		}
	}
	if v.OverflowInt(n) {
		return rangeError("ParseInt", k.String())
	}
	v.SetInt(n)
	return nil
}

func setUint(v reflect.Value, k Key) error {
	var u uint64
	if k.Kind == KindNum {
		if k.Num < 0 {
			return rangeError("ParseUint", k.String())
		}
		u = uint64(k.Num)
	} else {
		var err error
		if u, err = strconv.ParseUint(k.Str, 10, 64); err != nil {
			return &IntError{Token: k.Str, Err: err}
		}
	}
	if v.OverflowUint(u) {
		return rangeError("ParseUint", k.String())
	}
	v.SetUint(u)
	return nil
}

func (d *decoder) decodeChar(v reflect.Value) error {
	k := d.scalar()
	if k.Kind != KindStr || k.Str == "" {
		return &CharError{Found: k}
	}
	r, _ := utf8.DecodeRuneInString(k.Str)
	v.SetInt(int64(r))
	return nil
}

func (d *decoder) decodeEnum(v reflect.Value, variants []string) error {
	k := d.scalar()
	var i int
	if k.Kind == KindNum {
		if k.Num < 0 || k.Num >= int64(len(variants)) {
			return customf("invalid value: integer `%d`, expected variant index 0 <= i < %d", k.Num, len(variants))
		}
		i = int(k.Num)
	} else if i = slices.Index(variants, k.Str); i < 0 {
		return customf("unknown variant `%s`, expected one of `%s`", k.Str, strings.Join(variants, "`, `"))
	}

	if v.CanInt() {
		v.SetInt(int64(i))
	} else {
		v.SetUint(uint64(i))
	}
	return nil
}

// decodeEntries drives a map: it reads keys until the end of input or,
// for maps opened inside a section, until the next section header. Each
// key is passed to each, which must decode exactly one value.
func (d *decoder) decodeEntries(each func(id ident) error) error {
	nested := d.section != ""
	for {
		d.input = skipBlank(d.input)
		if peekEOF(d.input) {
			d.input = ""
			return nil
		}

		id, ok := peekIdent(d.input)
		if !ok {
			return &IdentError{Input: d.input}
		}
		if id.isSection() && nested {
			return nil
		}

		d.input, id, _ = readIdent(d.input)
		if id.isSection() {
			d.section = id.section
		} else {
			rest, ok := assignment(d.input)
			if !ok {
				return &AssignmentError{Input: d.input}
			}
			d.input = rest
		}

		if err := each(id); err != nil {
			return err
		}
		if rest, _, err := lineEnd(d.input); err == nil {
			d.input = rest
		}
	}
}

// decodeEntry decodes the value of one map entry.
func (d *decoder) decodeEntry(id ident, v reflect.Value, tuple bool) error {
	if id.isSection() && v.Kind() == reflect.Interface && v.NumMethod() == 0 {
		m := reflect.New(plainMapType).Elem()
		if err := d.decodeMap(m); err != nil {
			return err
		}
		v.Set(m)
		return nil
	}

	if tuple {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.Struct {
			return d.decodeTuple(v)
		}
	}
	return d.decodeValue(v)
}

func (d *decoder) decodeMap(v reflect.Value) error {
	t := v.Type()
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}
	return d.decodeEntries(func(id ident) error {
		key := reflect.New(t.Key()).Elem()
		if err := setKey(key, id); err != nil {
			return err
		}
		value := reflect.New(t.Elem()).Elem()
		if err := d.decodeEntry(id, value, false); err != nil {
			return err
		}
		v.SetMapIndex(key, value)
		return nil
	})
}

func setKey(v reflect.Value, id ident) error {
	k := id.key
	if id.isSection() {
		k = StrKey(id.section)
	}

	if v.Type() == keyType {
		v.Set(reflect.ValueOf(k))
		return nil
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(k.String())
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(v, k)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUint(v, k)
	case reflect.Interface:
		if v.NumMethod() == 0 {
			v.Set(reflect.ValueOf(k.any()))
			return nil
		}
	}
	return &UnsupportedError{Kind: "map key " + v.Type().String()}
}

type field struct {
	index    int
	name     string
	optional bool
	tuple    bool
}

type fields struct {
	list   []field
	byName map[string]int
}

func structFields(t reflect.Type) fields {
	fs := fields{byName: map[string]int{}}

	for i := 0; i < t.NumField(); i++ {
		fieldType := t.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		tag, ok := fieldType.Tag.Lookup("dini")
		if !ok {
			tag, _ = fieldType.Tag.Lookup("json")
		}
		if tag == "-" {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")

		kind := fieldType.Type.Kind()
		f := field{
			index:    i,
			name:     name,
			optional: kind == reflect.Pointer || kind == reflect.Interface,
		}
		for _, option := range strings.Split(options, ",") {
			switch option {
			case "optional":
				f.optional = true
			case "tuple":
				f.tuple = true
			}
		}

		n := len(fs.list)
		if name != "" {
			fs.byName[name] = n
		} else {
			f.name = toSnakeCase(fieldType.Name)
			fs.byName[fieldType.Name] = n
			fs.byName[f.name] = n
		}
		fs.list = append(fs.list, f)
	}
	return fs
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func (d *decoder) decodeStruct(v reflect.Value) error {
	fs := structFields(v.Type())
	seen := make([]bool, len(fs.list))

	err := d.decodeEntries(func(id ident) error {
		i, ok := fs.byName[id.name()]
		if !ok {
			return customf("unknown field `%s`", id.name())
		}
		seen[i] = true
		f := fs.list[i]
		return d.decodeEntry(id, v.Field(f.index), f.tuple)
	})
	if err != nil {
		return err
	}

	for i, f := range fs.list {
		if !seen[i] && !f.optional {
			return customf("missing field `%s`", f.name)
		}
	}
	return nil
}

// nextElement reports whether a sequence has another element, consuming
// the comma before every element but the first. A sequence ends at a line
// end, the end of input, or a section header.
func (d *decoder) nextElement(first bool) (bool, error) {
	if peekLineEnd(d.input) {
		d.input, _, _ = lineEnd(d.input)
		return false, nil
	}
	if peekEOF(d.input) {
		d.input = ""
		return false, nil
	}
	if id, ok := peekIdent(d.input); ok && id.isSection() {
		return false, nil
	}
	if !first {
		rest, ok := comma(d.input)
		if !ok {
			return false, &SyntaxError{Rule: RuleComma, Input: d.input}
		}
		d.input = rest
	}
	return true, nil
}

// decodeElement decodes one sequence element. Interfaces hold a single
// scalar here rather than a list.
func (d *decoder) decodeElement(v reflect.Value) error {
	if v.Kind() == reflect.Interface && v.NumMethod() == 0 {
		v.Set(reflect.ValueOf(d.scalar().any()))
		return nil
	}
	return d.decodeValue(v)
}

func (d *decoder) decodeSlice(v reflect.Value) error {
	s := reflect.Zero(v.Type())
	for first := true; ; first = false {
		more, err := d.nextElement(first)
		if err != nil {
			return err
		}
		if !more {
			v.Set(s)
			return nil
		}
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := d.decodeElement(elem); err != nil {
			return err
		}
		s = reflect.Append(s, elem)
	}
}

// decodeFixed decodes exactly n sequence elements, as arrays and tuples
// require.
func (d *decoder) decodeFixed(n int, at func(int) reflect.Value) error {
	for i := 0; i < n; i++ {
		more, err := d.nextElement(i == 0)
		if err != nil {
			return err
		}
		if !more {
			return customf("invalid length %d, expected %d elements", i, n)
		}
		if err := d.decodeElement(at(i)); err != nil {
			return err
		}
	}

	more, err := d.nextElement(n == 0)
	if err != nil {
		return err
	}
	if more {
		return customf("too many elements, expected %d", n)
	}
	return nil
}

func (d *decoder) decodeTuple(v reflect.Value) error {
	var exported []int
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).IsExported() {
			exported = append(exported, i)
		}
	}
	return d.decodeFixed(len(exported), func(i int) reflect.Value {
		return v.Field(exported[i])
	})
}
