// Package value implements the interpreter's polymorphic Value type: an
// immutable, cheaply-clonable datum with a canonical string rep and a
// cached parsed rep, per spec.md section 4.2.
//
// A Value is a small struct wrapping a pointer to an internal
// representation. Copying a Value copies the pointer, so Values are
// "shared by reference" the way spec.md's reference-counting language
// describes; Go's garbage collector reclaims the backing rep once the
// last Value referencing it is gone, which is this language's analogue
// of the refcount-to-zero destruction rule.
//
// The backing rep is never mutated to change the abstract value it
// denotes - only its *cache* (which parsed form is currently memoized)
// is ever replaced, and the string rep, once computed, is frozen for the
// lifetime of the rep. This mirrors the "cache invalidation by
// replacement, not mutation" design note in spec.md section 9.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which parsed representation, if any, a Value's rep
// currently caches.
type Kind int

const (
	// KindNone means only the string rep is known; no parsed rep is
	// cached yet.
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindDict
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// External is the interface a host-supplied datum must implement to flow
// through the language without string thrash, per spec.md section 3
// ("External values").
type External interface {
	// ExternalString renders the datum as its canonical string rep.
	ExternalString() string
}

// rep is the shared, mutable-by-replacement backing store for a Value.
// Invariant: at least one of hasStr or kind != KindNone holds at all
// times (spec.md 4.2, invariant (a)).
type rep struct {
	hasStr bool
	str    string

	kind Kind
	b    bool
	i    int64
	f    float64
	list []Value
	dict *Dict
	ext  External
}

// Value is the interpreter's polymorphic datum.
type Value struct {
	r *rep
}

// Empty is the canonical empty-string Value.
var Empty = FromString("")

// FromString constructs a Value whose string rep is s and which has no
// cached parsed rep yet.
func FromString(s string) Value {
	return Value{r: &rep{hasStr: true, str: s}}
}

// FromBool constructs a Value with a bool parsed rep. Its string rep,
// once materialized, is "1" or "0" (matching the canonical boolean
// rendering used throughout the example pack's ancestor, molt).
func FromBool(b bool) Value {
	return Value{r: &rep{kind: KindBool, b: b}}
}

// FromInt constructs a Value with an int parsed rep.
func FromInt(i int64) Value {
	return Value{r: &rep{kind: KindInt, i: i}}
}

// FromFloat constructs a Value with a float parsed rep.
func FromFloat(f float64) Value {
	return Value{r: &rep{kind: KindFloat, f: f}}
}

// FromList constructs a Value with a list parsed rep. The slice is
// retained, not copied; callers must not mutate it afterwards.
func FromList(items []Value) Value {
	return Value{r: &rep{kind: KindList, list: items}}
}

// FromDict constructs a Value with a dict parsed rep.
func FromDict(d *Dict) Value {
	return Value{r: &rep{kind: KindDict, dict: d}}
}

// FromExternal constructs a Value wrapping a host-supplied datum. Its
// string rep is computed lazily via ext.ExternalString().
func FromExternal(ext External) Value {
	return Value{r: &rep{kind: KindExternal, ext: ext}}
}

// IsZero reports whether v is the zero Value (never constructed through
// one of the From* functions). Such a Value should never be observed by
// interpreter code; it exists only to make accidental zero-value use
// detectable.
func (v Value) IsZero() bool {
	return v.r == nil
}

// Kind returns the currently cached parsed-rep kind, or KindNone if only
// a string rep is held.
func (v Value) Kind() Kind {
	return v.r.kind
}

// AsString returns the string rep, computing and caching it from the
// parsed rep on first call.
func (v Value) AsString() string {
	r := v.r
	if r.hasStr {
		return r.str
	}
	s := formatParsed(r)
	r.str = s
	r.hasStr = true
	return s
}

func formatParsed(r *rep) string {
	switch r.kind {
	case KindBool:
		if r.b {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.FormatInt(r.i, 10)
	case KindFloat:
		return formatFloat(r.f)
	case KindList:
		return FormatList(r.list)
	case KindDict:
		return FormatList(r.dict.Flatten())
	case KindExternal:
		return r.ext.ExternalString()
	default:
		return ""
	}
}

// formatFloat renders a float64 the way the expression evaluator and
// built-ins expect: the shortest decimal that round-trips, always with
// either a fractional part or an exponent so that re-parsing does not
// collapse it back into an integer (e.g. 5.0 renders as "5" is avoided
// by appending ".0" when Go's shortest form would otherwise look
// integral). Open Question in spec.md section 9 leaves exact precision
// unspecified; this follows the convention spelled out in molt's
// value.rs doc comment.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Equal reports whether v and other have equal string reps, per spec.md
// 4.2's equality rule.
func (v Value) Equal(other Value) bool {
	return v.AsString() == other.AsString()
}

// AsBool returns the bool parsed rep, parsing and caching it from the
// string rep if necessary. Numeric Values coerce: nonzero is true.
func (v Value) AsBool() (bool, error) {
	if v.r.kind == KindBool {
		return v.r.b, nil
	}
	if v.r.kind == KindInt {
		return v.r.i != 0, nil
	}
	if v.r.kind == KindFloat {
		return v.r.f != 0, nil
	}
	s := v.AsString()
	b, ok := ParseBool(s)
	if !ok {
		return false, fmt.Errorf("expected boolean value but got %q", s)
	}
	v.r.kind = KindBool
	v.r.b = b
	return b, nil
}

// AsInt returns the int parsed rep, parsing and caching it if necessary.
func (v Value) AsInt() (int64, error) {
	if v.r.kind == KindInt {
		return v.r.i, nil
	}
	s := v.AsString()
	i, ok := ParseInt(s)
	if !ok {
		return 0, fmt.Errorf("expected integer but got %q", s)
	}
	v.r.kind = KindInt
	v.r.i = i
	return i, nil
}

// AsFloat returns the float parsed rep, parsing and caching it if
// necessary. An Int parsed rep coerces without reparsing the string.
func (v Value) AsFloat() (float64, error) {
	if v.r.kind == KindFloat {
		return v.r.f, nil
	}
	if v.r.kind == KindInt {
		return float64(v.r.i), nil
	}
	s := v.AsString()
	f, ok := ParseFloat(s)
	if !ok {
		return 0, fmt.Errorf("expected floating-point number but got %q", s)
	}
	v.r.kind = KindFloat
	v.r.f = f
	return f, nil
}

// AsList returns the list parsed rep, parsing and caching it if
// necessary.
func (v Value) AsList() ([]Value, error) {
	if v.r.kind == KindList {
		return v.r.list, nil
	}
	if v.r.kind == KindDict {
		return v.r.dict.Flatten(), nil
	}
	items, err := ParseList(v.AsString())
	if err != nil {
		return nil, err
	}
	v.r.kind = KindList
	v.r.list = items
	return items, nil
}

// AsDict returns the dict parsed rep, parsing and caching it if
// necessary, per spec.md 4.2's "a list with an even element count"
// dict-parsing rule.
func (v Value) AsDict() (*Dict, error) {
	if v.r.kind == KindDict {
		return v.r.dict, nil
	}
	items, err := v.AsList()
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := NewDict()
	for i := 0; i+1 < len(items); i += 2 {
		d.Set(items[i], items[i+1])
	}
	v.r.kind = KindDict
	v.r.dict = d
	return d, nil
}

// As attempts to retrieve an External parsed rep of the exact type T,
// reparsing the string rep with parse if the cached rep is absent or of
// a different concrete type. A successful reparse replaces any
// previously cached parsed rep, per spec.md 4.2.
func As[T External](v Value, parse func(string) (T, error)) (T, error) {
	if v.r.kind == KindExternal {
		if t, ok := v.r.ext.(T); ok {
			return t, nil
		}
	}
	t, err := parse(v.AsString())
	if err != nil {
		var zero T
		return zero, err
	}
	v.r.kind = KindExternal
	v.r.ext = t
	return t, nil
}

// Number is the result of AlreadyNumber: a numeric value known without
// reparsing the string rep.
type Number struct {
	IsInt bool
	I     int64
	F     float64
}

// Float returns the number's value as a float64 regardless of which
// numeric kind it holds.
func (n Number) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

// AlreadyNumber is a non-coercing peek used by the expression evaluator
// to preserve numeric type without reparsing (spec.md 4.2). It returns
// ok=false if no numeric parsed rep is currently cached, even if the
// string rep would in fact parse as a number.
func (v Value) AlreadyNumber() (Number, bool) {
	switch v.r.kind {
	case KindInt:
		return Number{IsInt: true, I: v.r.i}, true
	case KindFloat:
		return Number{F: v.r.f}, true
	default:
		return Number{}, false
	}
}
