package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOr(t *testing.T) {
	e := &Service{}

	t.Setenv("BOOKING_TEST_SET", "value")
	assert.Equal(t, "value", e.GetOr("BOOKING_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", e.GetOr("BOOKING_TEST_UNSET", "fallback"))
}

func TestGetBool(t *testing.T) {
	e := &Service{}

	t.Setenv("BOOKING_TEST_BOOL", "true")
	assert.True(t, e.GetBool("BOOKING_TEST_BOOL", false))

	t.Setenv("BOOKING_TEST_BOOL", "not-a-bool")
	assert.True(t, e.GetBool("BOOKING_TEST_BOOL", true), "unparseable values fall back to the default")

	assert.False(t, e.GetBool("BOOKING_TEST_BOOL_UNSET", false))
}

func TestGetInt(t *testing.T) {
	e := &Service{}

	t.Setenv("BOOKING_TEST_INT", "42")
	assert.Equal(t, 42, e.GetInt("BOOKING_TEST_INT", 7))

	t.Setenv("BOOKING_TEST_INT", "forty-two")
	assert.Equal(t, 7, e.GetInt("BOOKING_TEST_INT", 7))
}
