package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeqMode(t *testing.T) {
	tests := []struct {
		in     string
		want   SeqMode
		wantOK bool
	}{
		{"none", SeqNone, true},
		{"simple", SeqSimple, true},
		{"custom", SeqCustom, true},
		{"Simple", SeqNone, false},
		{"bogus", SeqNone, false},
		{"", SeqNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeqMode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeqModeText(t *testing.T) {
	data, err := json.Marshal(SeqCustom)
	require.NoError(t, err)
	assert.Equal(t, `"custom"`, string(data))

	var m SeqMode
	require.NoError(t, json.Unmarshal([]byte(`"simple"`), &m))
	assert.Equal(t, SeqSimple, m)

	err = json.Unmarshal([]byte(`"loud"`), &m)
	assert.True(t, errors.Is(err, ErrInvalidSeqMode))

	_, err = json.Marshal(SeqMode(9))
	assert.Error(t, err)
	assert.Equal(t, "SeqMode(9)", SeqMode(9).String())
}

func TestThemeText(t *testing.T) {
	got, ok := ParseTheme("dark")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, got)

	_, ok = ParseTheme("sepia")
	assert.False(t, ok)

	data, err := json.Marshal(Toggles{Theme: ThemeLight, Compact: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sound":false,"haptics":false,"theme":"light","compact":true}`, string(data))

	var tg Toggles
	err = json.Unmarshal([]byte(`{"theme":"neon"}`), &tg)
	assert.True(t, errors.Is(err, ErrInvalidTheme))
}
