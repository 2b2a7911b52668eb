package luaval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoercePrecedence(t *testing.T) {
	assert.Equal(t, KindNil, Coerce("nil").Kind)
	assert.Equal(t, Bool(true), Coerce("true"))
	assert.Equal(t, Bool(false), Coerce("false"))
	assert.Equal(t, Int(413051), Coerce("413051"))
	assert.Equal(t, Int(-5), Coerce("-5"))
	assert.Equal(t, Float(3.14), Coerce("3.14"))
	assert.Equal(t, String("Fyrakk"), Coerce("Fyrakk"))
}

func TestCoerceNumericRoundTrip(t *testing.T) {
	// Canonical numeric text coerces to a number and stringifies back
	// unchanged.
	for _, token := range []string{"0", "42", "-17", "0.5", "12.25", "9007199254740993"} {
		v := Coerce(token)
		assert.True(t, v.IsNumber(), "token %q", token)
		assert.Equal(t, token, Emit(v), "token %q", token)
	}
}

func TestCoerceNonCanonicalNumbersStayStrings(t *testing.T) {
	// Leading zeros, trailing fraction zeros and exponents would not
	// round-trip, so they stay strings.
	for _, token := range []string{"007", "1.0", "1e3", "0x10", "+5", "1."} {
		assert.Equal(t, String(token), Coerce(token), "token %q", token)
	}
}

func TestEmitMask(t *testing.T) {
	assert.Equal(t, "0x511", Emit(Mask(0x511)))
	assert.Equal(t, "0xa48", Emit(Mask(0xa48)))
	assert.Equal(t, "0x0", Emit(Mask(0)))
}

func TestEmitNilAndBool(t *testing.T) {
	assert.Equal(t, "nil", Emit(Nil()))
	assert.Equal(t, "true", Emit(Bool(true)))
}

func TestQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"say \"hi\""`, Quote(`say "hi"`))
	assert.Equal(t, `"a\\b"`, Quote(`a\b`))
	assert.Equal(t, `"line\nbreak"`, Quote("line\nbreak"))
	assert.Equal(t, `"bell\007"`, Quote("bell\a"))
}
