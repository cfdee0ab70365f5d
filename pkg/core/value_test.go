package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	ts := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null()},
		{"string", "hello", String("hello")},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int8", int8(-3), Int(-3)},
		{"int32", int32(7), Int(7)},
		{"uint16", uint16(9), Int(9)},
		{"uint64", uint64(11), Int(11)},
		{"float32", float32(1.5), Float(1.5)},
		{"float64", 2.25, Float(2.25)},
		{"json int", json.Number("30"), Int(30)},
		{"json float", json.Number("3.5"), Float(3.5)},
		{"time", ts, Time(ts)},
		{"time pointer", &ts, Time(ts)},
		{"nil time pointer", (*time.Time)(nil), Null()},
		{"value passthrough", String("x"), String("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	for _, input := range []any{[]int{1}, map[string]any{}, struct{}{}, uint64(math.MaxUint64)} {
		_, err := ValueOf(input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %T", input)
	}
}

func TestFromDriver(t *testing.T) {
	assert.Equal(t, String("abc"), FromDriver([]byte("abc")))
	assert.Equal(t, Int(5), FromDriver(int64(5)))
	assert.Equal(t, Null(), FromDriver(nil))
	assert.Equal(t, String("[1 2]"), FromDriver([]int{1, 2}))
}

func TestValue_Accessors(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		value  Value
		kind   Kind
		any    any
		string string
	}{
		{Null(), KindNull, nil, "NULL"},
		{String("a"), KindString, "a", "a"},
		{Int(-7), KindInt, int64(-7), "-7"},
		{Float(0.5), KindFloat, 0.5, "0.5"},
		{Bool(false), KindBool, false, "false"},
		{Time(ts), KindTime, ts, "2020-01-02T03:04:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.any, tt.value.Any())
			assert.Equal(t, tt.string, tt.value.String())

			dv, err := tt.value.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.any, dv)
		})
	}

	assert.True(t, Value{}.IsNull())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestValue_Equal(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("CET", 3600))
	now := time.Now()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same instant in two zones", Time(utc), Time(local), true},
		{"monotonic reading ignored", Time(now), Time(now.Round(0)), true},
		{"different instants", Time(utc), Time(utc.Add(time.Second)), false},
		{"strings", String("a"), String("a"), true},
		{"int and float differ", Int(1), Float(1), false},
		{"nulls", Null(), Null(), true},
		{"null and empty string", Null(), String(""), false},
		{"bools", Bool(true), Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}

	assert.NotEqual(t, Time(utc), Time(local), "== style comparison sees the location")
}

func TestValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal([]Value{String("a"), Int(1), Float(1.5), Bool(true), Null(), Float(math.Inf(1))})
	require.NoError(t, err)
	assert.Equal(t, `["a",1,1.5,true,null,"+Inf"]`, string(out))
}
