package root

import (
	"strings"
	"testing"

	"github.com/aryann/difflib"
	"github.com/mgutz/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffText(t *testing.T) {
	ansi.DisableColors(true)
	defer ansi.DisableColors(false)

	current := strings.Join([]string{"a", "b", "c", "d", "e", "f"}, "\n")
	desired := strings.Join([]string{"a", "b", "c", "X", "e", "f"}, "\n")

	t.Run("FullContext", func(t *testing.T) {
		out, changed, err := diffText(current, desired, -1)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, strings.HasPrefix(out, "  a\n  b\n  c\n"))
		assert.True(t, strings.HasSuffix(out, "  e\n  f\n"))
		assert.Contains(t, out, "- d\n")
		assert.Contains(t, out, "+ X\n")
	})

	t.Run("OneLineOfContext", func(t *testing.T) {
		out, _, err := diffText(current, desired, 1)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "...\n  c\n"), out)
		assert.True(t, strings.HasSuffix(out, "  e\n...\n"), out)
		assert.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 6)
	})

	t.Run("Unchanged", func(t *testing.T) {
		_, changed, err := diffText(current, current, 0)
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestDiffJsonIgnoresFormatting(t *testing.T) {
	_, changed, err := diffJson(`{"b":1,"a":{"c":[1,2]}}`, "{\n  \"a\": {\"c\": [1, 2]},\n  \"b\": 1\n}", -1)
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = diffJson(`{`, `{}`, -1)
	assert.Error(t, err)
}

func TestCalculateDistances(t *testing.T) {
	diffs := []difflib.DiffRecord{
		{Payload: "a", Delta: difflib.Common},
		{Payload: "b", Delta: difflib.LeftOnly},
		{Payload: "c", Delta: difflib.Common},
		{Payload: "d", Delta: difflib.Common},
	}
	assert.Equal(t, map[int]int{0: 1, 1: 0, 2: 1, 3: 2}, calculateDistances(diffs))
}
