package cognition

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/liliang-cn/tempocog/pkg/schema"
)

// Config bundles the engine's tuning parameters. Construct with
// DefaultConfig and override fields, or load from a YAML/JSON file.
//
// Deterministic and Seed are retained for config-file compatibility with
// earlier revisions: phase jitter is derived from a stable string hash, so
// runs are reproducible with or without them and no RNG is seeded.
type Config struct {
	// ConsolidationThreshold is the |interference| magnitude required for a
	// symbol pair to be recorded as a resonance event.
	ConsolidationThreshold float64 `json:"consolidation_threshold" yaml:"consolidation_threshold"`

	// SchemaSupportThreshold is the observation count at which a schema is
	// considered stable. It gates visibility in CognitiveState summaries;
	// schemas are created on the first qualifying observation regardless.
	SchemaSupportThreshold int `json:"schema_support_threshold" yaml:"schema_support_threshold"`

	// MaxSchemas caps the schema table; lowest-count entries are evicted first.
	MaxSchemas int `json:"max_schemas" yaml:"max_schemas"`

	// Deterministic and Seed are inert compatibility fields (see type doc).
	Deterministic bool   `json:"deterministic" yaml:"deterministic"`
	Seed          *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// StoreBackend selects persistence: "json" or "sqlite".
	StoreBackend string `json:"store_backend" yaml:"store_backend"`

	// StorePath is the file path for the chosen backend.
	StorePath string `json:"store_path" yaml:"store_path"`

	// SaveFrequency persists the schema table every N consolidation passes.
	// Saves are best-effort and may lag the in-memory state.
	SaveFrequency int `json:"save_frequency" yaml:"save_frequency"`

	// DreamFrequency triggers a dream-replay pass every N frames.
	DreamFrequency int `json:"dream_frequency" yaml:"dream_frequency"`

	// MaxFrames bounds the frame history buffer (FIFO eviction).
	MaxFrames int `json:"max_frames" yaml:"max_frames"`

	// MaxEvents bounds the resonance-event ring buffer.
	MaxEvents int `json:"max_events" yaml:"max_events"`
}

// DefaultConfig returns the standard parameter set.
func DefaultConfig() *Config {
	return &Config{
		ConsolidationThreshold: 0.7,
		SchemaSupportThreshold: 3,
		MaxSchemas:             100,
		StoreBackend:           schema.BackendJSON,
		StorePath:              "schemas.json",
		SaveFrequency:          50,
		DreamFrequency:         5,
		MaxFrames:              1000,
		MaxEvents:              1000,
	}
}

// Validate checks the config for values the engine cannot operate with.
func (c *Config) Validate() error {
	if c.ConsolidationThreshold <= 0 {
		return fmt.Errorf("%w: consolidation_threshold must be > 0", ErrInvalidConfig)
	}
	if c.MaxSchemas <= 0 {
		return fmt.Errorf("%w: max_schemas must be > 0", ErrInvalidConfig)
	}
	if c.StoreBackend != schema.BackendJSON && c.StoreBackend != schema.BackendSQLite {
		return fmt.Errorf("%w: store_backend must be %q or %q",
			ErrInvalidConfig, schema.BackendJSON, schema.BackendSQLite)
	}
	if c.SaveFrequency < 0 {
		return fmt.Errorf("%w: save_frequency must be >= 0", ErrInvalidConfig)
	}
	if c.DreamFrequency <= 0 {
		return fmt.Errorf("%w: dream_frequency must be > 0", ErrInvalidConfig)
	}
	if c.MaxFrames <= 0 {
		return fmt.Errorf("%w: max_frames must be > 0", ErrInvalidConfig)
	}
	if c.MaxEvents <= 0 {
		return fmt.Errorf("%w: max_events must be > 0", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML (or JSON; JSON is a YAML subset) config file and
// fills unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError("config", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, wrapError("config", fmt.Errorf("parse %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap builds a config from a plain key-value map, ignoring unknown keys.
// Round-trips with ToMap.
func FromMap(data map[string]any) (*Config, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, wrapError("config", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, wrapError("config", err)
	}
	return cfg, nil
}

// ToMap returns a plain-data representation suitable for JSON or YAML.
func (c *Config) ToMap() map[string]any {
	raw, err := json.Marshal(c)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
