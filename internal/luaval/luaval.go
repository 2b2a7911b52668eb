// Package luaval converts between raw transcript tokens, typed values, and
// Lua literal text. Coercion and emission are exact inverses for canonical
// tokens; anything that would not round-trip stays a string.
package luaval

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the typed values a transcript token can carry.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	// KindMask is an integer that must render as a hex literal so the
	// fixture consumer can tell bitmasks from plain numbers.
	KindMask
)

// Value is one typed transcript field.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func Nil() Value            { return Value{Kind: KindNil} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Int(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Mask(n int64) Value    { return Value{Kind: KindMask, Int: n} }

// Coerce classifies a raw token in fixed precedence: nil, boolean, number,
// string. A numeric parse is accepted only if re-stringifying reproduces the
// token exactly, so "007" and "1.0" stay strings. The literal token "nil"
// cannot be told apart from an absent value; that ambiguity is accepted.
func Coerce(token string) Value {
	switch token {
	case "nil":
		return Nil()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		if strconv.FormatInt(n, 10) == token {
			return Int(n)
		}
		return String(token)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		if strconv.FormatFloat(f, 'g', -1, 64) == token {
			return Float(f)
		}
	}
	return String(token)
}

// IsNumber reports whether v carries a plain numeric value.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// AsInt returns the integer value of a numeric Value, truncating floats.
func (v Value) AsInt() int64 {
	if v.Kind == KindFloat {
		return int64(v.Float)
	}
	return v.Int
}

// AsString returns the raw string of a string Value, "" otherwise.
func (v Value) AsString() string {
	if v.Kind == KindString {
		return v.Str
	}
	return ""
}

// Emit renders v as Lua literal text.
func Emit(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindMask:
		return fmt.Sprintf("%#x", v.Int)
	default:
		return Quote(v.Str)
	}
}

// Quote wraps s in double quotes, escaping quotes, backslashes and control
// characters so the literal re-parses to the original string.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
