package cognition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/tempocog/pkg/schema"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.7, cfg.ConsolidationThreshold)
	assert.Equal(t, 3, cfg.SchemaSupportThreshold)
	assert.Equal(t, 100, cfg.MaxSchemas)
	assert.Equal(t, schema.BackendJSON, cfg.StoreBackend)
	assert.Equal(t, "schemas.json", cfg.StorePath)
	assert.Equal(t, 50, cfg.SaveFrequency)
	assert.Equal(t, 5, cfg.DreamFrequency)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.ConsolidationThreshold = 0 }},
		{"zero max schemas", func(c *Config) { c.MaxSchemas = 0 }},
		{"bad backend", func(c *Config) { c.StoreBackend = "bolt" }},
		{"negative save frequency", func(c *Config) { c.SaveFrequency = -1 }},
		{"zero dream frequency", func(c *Config) { c.DreamFrequency = 0 }},
		{"zero max frames", func(c *Config) { c.MaxFrames = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cog.yaml")
	content := `
consolidation_threshold: 0.5
store_backend: sqlite
store_path: /tmp/cog.db
dream_frequency: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.ConsolidationThreshold)
	assert.Equal(t, schema.BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/cog.db", cfg.StorePath)
	assert.Equal(t, 7, cfg.DreamFrequency)
	assert.Equal(t, 100, cfg.MaxSchemas, "unset fields keep their defaults")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_backend: bolt\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigMapRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.42
	cfg.StoreBackend = schema.BackendSQLite

	back, err := FromMap(cfg.ToMap())
	require.NoError(t, err)
	assert.Equal(t, cfg.ConsolidationThreshold, back.ConsolidationThreshold)
	assert.Equal(t, cfg.StoreBackend, back.StoreBackend)
	assert.Equal(t, cfg.MaxSchemas, back.MaxSchemas)

	// Unknown keys are ignored.
	back, err = FromMap(map[string]any{"max_schemas": 7, "bogus": true})
	require.NoError(t, err)
	assert.Equal(t, 7, back.MaxSchemas)
}