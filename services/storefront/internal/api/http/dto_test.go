package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw   string
		loose bool
		want  int
		ok    bool
	}{
		{raw: `3`, want: 3, ok: true},
		{raw: `3.0`, want: 3, ok: true},
		{raw: `"3"`, loose: true, want: 3, ok: true},
		{raw: `"3"`, loose: false},
		{raw: `" 7 "`, loose: true, want: 7, ok: true},
		{raw: `2.5`},
		{raw: `0`},
		{raw: `-1`},
		{raw: `null`},
		{raw: ``},
		{raw: `true`},
		{raw: `[1]`},
		{raw: `"abc"`, loose: true},
		{raw: `1e400`},
	}
	for _, tt := range tests {
		got, err := parseQuantity(json.RawMessage(tt.raw), tt.loose)
		if !tt.ok {
			require.ErrorIs(t, err, errInvalidQuantity, "raw=%s loose=%v", tt.raw, tt.loose)
			continue
		}
		require.NoError(t, err, "raw=%s", tt.raw)
		require.Equal(t, tt.want, got)
	}
}

func TestParsePageParam(t *testing.T) {
	require.Equal(t, 0, parsePageParam(""))
	require.Equal(t, 0, parsePageParam("abc"))
	require.Equal(t, 2, parsePageParam("2"))
	require.Equal(t, 2, parsePageParam("2abc"))
	require.Equal(t, 3, parsePageParam(" 3.7"))
	require.Equal(t, -4, parsePageParam("-4"))
	require.Equal(t, maxInt, parsePageParam("99999999999999999999999"))
}

func TestDecodeItems(t *testing.T) {
	items, isArray, err := decodeItems(json.RawMessage(`[{"id":"a","quantity":1},{"product":"b","quantity":"2"}]`))
	require.NoError(t, err)
	require.True(t, isArray)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].ProductID)
	require.Equal(t, "b", items[1].ProductID)
	require.Equal(t, 2, items[1].Quantity)

	_, isArray, _ = decodeItems(json.RawMessage(`{"id":"a"}`))
	require.False(t, isArray)

	_, isArray, _ = decodeItems(nil)
	require.False(t, isArray)

	_, isArray, err = decodeItems(json.RawMessage(`[{"id":"a","quantity":0}]`))
	require.True(t, isArray)
	require.ErrorIs(t, err, errInvalidQuantity)
}
