package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42, ParseValue("42"))
	assert.Equal(t, 3.14, ParseValue(" 3.14 "))
	assert.Equal(t, "delivered", ParseValue("delivered"))
	assert.Nil(t, ParseValue(""))
	assert.Nil(t, ParseValue("   "))
}

func TestParseMoney(t *testing.T) {
	assert.True(t, ParseMoney("19.90").Equal(decimal.RequireFromString("19.90")))
	assert.True(t, ParseMoney("").IsZero())
	assert.True(t, ParseMoney("not-a-number").IsZero())
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, 5.0, Numeric(5))
	assert.Equal(t, 5.0, Numeric(int64(5)))
	assert.Equal(t, 2.5, Numeric(2.5))
	assert.Equal(t, 2.5, Numeric(float32(2.5)))
	assert.Equal(t, 10.5, Numeric(decimal.RequireFromString("10.5")))
	assert.Equal(t, 7.5, Numeric("7.5"))
	assert.Equal(t, 0.0, Numeric("nope"))
	assert.Equal(t, 0.0, Numeric(nil))
}

func TestInt(t *testing.T) {
	assert.Equal(t, 3, Int(3))
	assert.Equal(t, 3, Int(int64(3)))
	assert.Equal(t, 3, Int(3.9))
	assert.Equal(t, 0, Int("3"))
	assert.Equal(t, 0, Int(nil))
}
