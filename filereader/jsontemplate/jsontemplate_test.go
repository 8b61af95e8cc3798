package jsontemplate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Run("Minify", func(t *testing.T) {
		out, err := Format([]byte("{\n  \"Resources\": {}\n}"), false)
		require.NoError(t, err)
		assert.Equal(t, `{"Resources":{}}`, string(out))
	})

	t.Run("PrettyPrint", func(t *testing.T) {
		out, err := Format([]byte(`{"Resources":{}}`), true)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"Resources\": {}\n}", string(out))
	})

	t.Run("SyntaxError", func(t *testing.T) {
		_, err := Format([]byte("{\n\"Resources\": {,}\n}"), false)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "json syntax error"), "unexpected error: %v", err)
	})
}
