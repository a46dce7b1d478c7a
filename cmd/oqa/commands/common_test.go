package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqabench/oqa/config"
)

func TestResolveDatasetPath(t *testing.T) {
	cfg := &config.Config{}

	path, err := resolveDatasetPath([]string{"animals.json"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "animals.json", path)

	cfg.Dataset.Path = "configured.json"
	path, err = resolveDatasetPath(nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, "configured.json", path)

	// Positional argument wins over config.
	path, err = resolveDatasetPath([]string{"explicit.json"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "explicit.json", path)

	_, err = resolveDatasetPath(nil, &config.Config{})
	assert.Error(t, err)
}

func TestFirstN(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"a", "b"}, firstN(ids, 2))
	assert.Equal(t, ids, firstN(ids, 4))
	assert.Equal(t, ids, firstN(ids, 10), "oversized n keeps all ids")
	assert.Equal(t, ids, firstN(ids, 0), "non-positive n keeps all ids")
}
