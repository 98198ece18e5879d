package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigHelpers(t *testing.T) {
	data := map[string]interface{}{
		"theme": map[string]interface{}{
			"border_type": "plain",
		},
	}
	value, ok := getConfigValue(data, "theme.border_type")
	require.True(t, ok)
	require.Equal(t, "plain", value)

	require.NoError(t, setConfigValue(data, "theme.border_type", "rounded"))
	value, ok = getConfigValue(data, "theme.border_type")
	require.True(t, ok)
	require.Equal(t, "rounded", value)

	require.NoError(t, setConfigValue(data, "cache.ttl", "5m"))
	value, ok = getConfigValue(data, "cache.ttl")
	require.True(t, ok)
	require.Equal(t, "5m", value)

	_, ok = getConfigValue(data, "theme.border_type.nested")
	require.False(t, ok)
}

func TestParseValue(t *testing.T) {
	require.Equal(t, true, parseValue("true"))
	require.Equal(t, int64(3), parseValue("3"))
	require.Equal(t, 1.5, parseValue("1.5"))
	require.Equal(t, "tcell", parseValue("tcell"))
	require.Equal(t, "[a, b]", prettyValue([]interface{}{"a", "b"}))
}
