package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restmap/schema"
)

func TestCoerce_NilPassesThrough(t *testing.T) {
	v, err := Coerce(nil, schema.ScalarInt)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCoerce_String(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"hello", "hello"},
		{[]byte("raw"), "raw"},
		{true, "true"},
		{42, "42"},
		{int64(42), "42"},
		{1.5, "1.5"},
	}

	for _, tc := range cases {
		v, err := Coerce(tc.in, schema.ScalarString)
		require.NoError(t, err, "input %#v", tc.in)
		assert.Equal(t, tc.want, v)
	}
}

func TestCoerce_Int(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{5, 5},
		{int64(5), 5},
		{float64(5), 5},
		{"5", 5},
		{"-12", -12},
	}

	for _, tc := range cases {
		v, err := Coerce(tc.in, schema.ScalarInt)
		require.NoError(t, err, "input %#v", tc.in)
		assert.Equal(t, tc.want, v)
	}
}

func TestCoerce_IntRejectsFractionsAndJunk(t *testing.T) {
	for _, in := range []any{5.5, "5.5", "abc", true, []string{"5"}} {
		_, err := Coerce(in, schema.ScalarInt)
		require.Error(t, err, "input %#v", in)

		var cErr *ConversionError
		assert.ErrorAs(t, err, &cErr)
	}
}

func TestCoerce_Float(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{1.5, 1.5},
		{3, 3},
		{int64(3), 3},
		{"0.99", 0.99},
	}

	for _, tc := range cases {
		v, err := Coerce(tc.in, schema.ScalarFloat)
		require.NoError(t, err, "input %#v", tc.in)
		assert.Equal(t, tc.want, v)
	}
}

func TestCoerce_Bool(t *testing.T) {
	truthy := []any{true, "true", "1", "t", 1, int64(1), float64(1)}
	for _, in := range truthy {
		v, err := Coerce(in, schema.ScalarBool)
		require.NoError(t, err, "input %#v", in)
		assert.Equal(t, true, v)
	}

	falsy := []any{false, "false", "0", 0, int64(0), float64(0)}
	for _, in := range falsy {
		v, err := Coerce(in, schema.ScalarBool)
		require.NoError(t, err, "input %#v", in)
		assert.Equal(t, false, v)
	}

	for _, in := range []any{"yes", 2, 1.5} {
		_, err := Coerce(in, schema.ScalarBool)
		require.Error(t, err, "input %#v", in)
	}
}

func TestCoerce_Time(t *testing.T) {
	now := time.Now()

	v, err := Coerce(now, schema.ScalarTime)
	require.NoError(t, err)
	assert.Equal(t, now, v)

	v, err = Coerce("2024-03-01T10:30:00Z", schema.ScalarTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), v)

	v, err = Coerce("2024-03-01", schema.ScalarTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), v)

	_, err = Coerce("not a date", schema.ScalarTime)
	require.Error(t, err)
}
