package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3000, config.Port)
	assert.Equal(t, "./dist", config.StaticDir)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STATIC_DIR", "/srv/site")

	config, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8081, config.Port)
	assert.Equal(t, "/srv/site", config.StaticDir)
}
