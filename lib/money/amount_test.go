package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	a, err := Parse("400")
	assert.NoError(t, err)
	assert.Equal(t, "400", a.String())

	zero, err := Parse("0")
	assert.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestParseExceedsNativeRange(t *testing.T) {
	// 2^128, far beyond int64
	a, err := Parse("340282366920938463463374607431768211456")
	assert.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211456", a.String())

	sum := a.Add(New(1))
	assert.Equal(t, "340282366920938463463374607431768211457", sum.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"", "-1", "+1", "1.5", "1e18", "0x10", "12 3", "abc"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", s)
	}
}

func TestSub(t *testing.T) {
	a := MustParse("1000")
	b := MustParse("400")

	res, err := a.Sub(b)
	assert.NoError(t, err)
	assert.Equal(t, "600", res.String())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestCmp(t *testing.T) {
	assert.Equal(t, 0, MustParse("5").Cmp(New(5)))
	assert.Equal(t, -1, Zero().Cmp(New(1)))
	assert.Equal(t, 1, New(2).Cmp(New(1)))
	assert.True(t, MustParse("7").Equal(New(7)))
}

func TestJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(MustParse("920000"))
	assert.NoError(t, err)
	assert.Equal(t, `"920000"`, string(out))

	var a Amount
	assert.NoError(t, json.Unmarshal([]byte(`"930000"`), &a))
	assert.Equal(t, "930000", a.String())
}
