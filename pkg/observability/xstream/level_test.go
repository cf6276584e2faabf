package xstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_Order(t *testing.T) {
	levels := Levels()
	require.Len(t, levels, 4)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1].Rank(), levels[i].Rank())
	}

	levels[0] = LevelFatal
	assert.Equal(t, LevelDebug, Levels()[0], "Levels returns a fresh slice")
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelFatal, "FATAL"},
		{Level(7), "Level(7)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"Warning", LevelWarn},
		{"fatal", LevelFatal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "trace", "error", "panic"} {
		got, err := ParseLevel(bad)
		assert.ErrorIs(t, err, ErrUnknownLevel, bad)
		assert.Equal(t, LevelInfo, got)
	}
}

func TestLevelOf(t *testing.T) {
	for _, l := range Levels() {
		got, err := LevelOf(l.Rank())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := LevelOf(-1)
	assert.ErrorIs(t, err, ErrUnknownLevel)
	_, err = LevelOf(4)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLevel_Text(t *testing.T) {
	data, err := json.Marshal(map[string]Level{"level": LevelWarn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warn"}`, string(data))

	var out struct {
		Level Level `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"FATAL"}`), &out))
	assert.Equal(t, LevelFatal, out.Level)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"level":"loud"}`), &out), ErrUnknownLevel)

	_, err = Level(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownLevel)
}
