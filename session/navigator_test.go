package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigator_Wraparound(t *testing.T) {
	n := NewNavigator[string](nil, nil)
	n.SetResults([]string{"a", "b", "c"})

	assert.True(t, n.HandleKey(KeyEnd))
	assert.Equal(t, 2, n.Selected())

	assert.True(t, n.HandleKey(KeyArrowDown))
	assert.Equal(t, 0, n.Selected())

	assert.True(t, n.HandleKey(KeyArrowUp))
	assert.Equal(t, 2, n.Selected())

	assert.True(t, n.HandleKey(KeyArrowUp))
	assert.Equal(t, 1, n.Selected())

	assert.True(t, n.HandleKey(KeyHome))
	assert.Equal(t, 0, n.Selected())
}

func TestNavigator_EnterAndEscape(t *testing.T) {
	var selected []string
	closed := 0
	n := NewNavigator(func(s string) { selected = append(selected, s) }, func() { closed++ })
	n.SetResults([]string{"a", "b", "c"})

	n.HandleKey(KeyArrowDown)
	assert.True(t, n.HandleKey(KeyEnter))
	assert.Equal(t, []string{"b"}, selected)
	assert.Equal(t, 1, n.Selected())

	assert.True(t, n.HandleKey(KeyEscape))
	assert.Equal(t, 1, closed)
}

func TestNavigator_EmptyList(t *testing.T) {
	var selected []string
	closed := 0
	n := NewNavigator(func(s string) { selected = append(selected, s) }, func() { closed++ })

	for _, key := range []Key{KeyArrowDown, KeyArrowUp, KeyHome, KeyEnd, KeyEnter} {
		assert.False(t, n.HandleKey(key), key.String())
		assert.Equal(t, 0, n.Selected())
	}
	assert.Empty(t, selected)

	_, ok := n.Current()
	assert.False(t, ok)

	assert.True(t, n.HandleKey(KeyEscape))
	assert.Equal(t, 1, closed)
}

func TestNavigator_ResetsOnLengthChange(t *testing.T) {
	n := NewNavigator[string](nil, nil)
	n.SetResults([]string{"a", "b", "c"})
	n.HandleKey(KeyEnd)

	n.SetResults([]string{"x", "y", "z"})
	assert.Equal(t, 2, n.Selected())

	n.SetResults([]string{"x", "y"})
	assert.Equal(t, 0, n.Selected())

	n.HandleKey(KeyArrowDown)
	n.Activate()
	assert.Equal(t, 0, n.Selected())
}

func TestNavigator_UnknownKey(t *testing.T) {
	n := NewNavigator[string](nil, nil)
	n.SetResults([]string{"a"})
	assert.False(t, n.HandleKey(KeyUnknown))
}

func TestParseKey(t *testing.T) {
	tests := map[string]Key{
		"ArrowDown": KeyArrowDown,
		"up":        KeyArrowUp,
		" Home ":    KeyHome,
		"END":       KeyEnd,
		"return":    KeyEnter,
		"esc":       KeyEscape,
		"tab":       KeyUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseKey(name), name)
	}
}
