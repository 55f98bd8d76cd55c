// Package value implements the semi-structured value model shared by fixture
// definitions, SQL literals and generated fixture documents.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged union of null, bool, int64, decimal float, string,
// sequence and ordered string-keyed mapping. The zero Value is null.
//
// Floats keep the decimal text they were created from so that a literal read
// from a fixture definition is written to SQL and back out unchanged.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	s       string
	items   []Value
	entries []MapItem
}

// MapItem is a single key/value pair of a mapping Value.
type MapItem struct {
	Key   string
	Value Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns a sequence holding items in order.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindSequence, items: items}
}

// Mapping returns a mapping holding entries in order.
func Mapping(entries ...MapItem) Value {
	if entries == nil {
		entries = []MapItem{}
	}

	return Value{kind: KindMapping, entries: entries}
}

// Float returns a float holding the decimal literal text.
// The text must be a finite decimal number such as "1.5", "-0.25" or "6.02e23".
// Exponent forms are stored as "<mantissa with fraction>e<signed exponent>",
// so "1e5" is kept as "1.0e+5".
func Float(text string) (Value, error) {
	if _, err := decimal.NewFromString(text); err != nil {
		return Value{}, fmt.Errorf("invalid decimal literal %q: %w", text, err)
	}

	return Value{kind: KindFloat, s: floatText(text)}, nil
}

// MustFloat is like Float but panics on invalid text. Intended for literals in code and tests.
func MustFloat(text string) Value {
	v, err := Float(text)
	if err != nil {
		panic(err)
	}

	return v
}

// Magnitudes outside this range are written in exponent form.
const (
	minPlainFloat = 1e-6
	maxPlainFloat = 1e21
)

// FloatFromFloat64 returns a float holding the shortest decimal text that
// round-trips f. NaN and infinities have no decimal form and are rejected.
func FloatFromFloat64(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("non-finite float %v has no decimal representation", f)
	}

	if abs := math.Abs(f); abs != 0 && (abs < minPlainFloat || abs >= maxPlainFloat) {
		return Value{kind: KindFloat, s: floatText(strconv.FormatFloat(f, 'e', -1, 64))}, nil
	}

	return Value{kind: KindFloat, s: floatText(decimal.NewFromFloat(f).String())}, nil
}

// floatText makes sure the literal still reads as a float once written out:
// "2" becomes "2.0" and "1e5" becomes "1.0e+5".
func floatText(text string) string {
	i := strings.IndexAny(text, "eE")
	if i < 0 {
		if strings.Contains(text, ".") {
			return text
		}

		return text + ".0"
	}

	mantissa, exponent := text[:i], text[i+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}

	if !strings.HasPrefix(exponent, "+") && !strings.HasPrefix(exponent, "-") {
		exponent = "+" + exponent
	}

	return mantissa + "e" + exponent
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInteger() (int64, bool) { return v.i, v.kind == KindInteger }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// FloatText returns the decimal text of a float.
func (v Value) FloatText() (string, bool) {
	if v.kind != KindFloat {
		return "", false
	}

	return v.s, true
}

// Decimal returns a float as a decimal number.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindFloat {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(v.s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Items returns the elements of a sequence.
func (v Value) Items() ([]Value, bool) { return v.items, v.kind == KindSequence }

// Entries returns the entries of a mapping in document order.
func (v Value) Entries() ([]MapItem, bool) { return v.entries, v.kind == KindMapping }

// Lookup returns the value stored under key in a mapping.
// The first entry wins when a key is repeated.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}

	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return Value{}, false
}

// Equal reports whether two values have the same kind and content.
// Floats compare by decimal value, so "1.50" equals "1.5".
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInteger:
		return v.i == other.i
	case KindString:
		return v.s == other.s
	case KindFloat:
		a, okA := v.Decimal()
		b, okB := other.Decimal()

		return okA && okB && a.Equal(b)
	case KindSequence:
		if len(v.items) != len(other.items) {
			return false
		}

		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		if len(v.entries) != len(other.entries) {
			return false
		}

		for i := range v.entries {
			if v.entries[i].Key != other.entries[i].Key || !v.entries[i].Value.Equal(other.entries[i].Value) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders the value in a compact flow style for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return v.s
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, len(v.entries))
		for i, e := range v.entries {
			parts[i] = e.Key + ": " + e.Value.String()
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}
