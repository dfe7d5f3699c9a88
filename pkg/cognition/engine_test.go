package cognition

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/tempocog/pkg/schema"
)

// newTestEngine builds an engine with a JSON store under a temp dir and a
// frozen clock so activation reads are stable.
func newTestEngine(t *testing.T, cfg *Config) (*Engine, *fakeClock) {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.StorePath = filepath.Join(t.TempDir(), "schemas.json")

	clock := &fakeClock{t: 1000}
	engine, err := New(cfg, WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine, clock
}

func TestEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoreBackend = "bolt"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.ConsolidationThreshold = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLiveExperienceSnapshot(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	snap := engine.LiveExperience(
		WithVisual("sunrise"),
		WithAuditory("warmth"),
		WithMood(0.6),
	)

	assert.Equal(t, 1, snap.FrameCount)
	assert.Positive(t, snap.ActiveWaves)
	assert.Contains(t, snap.ActivationField, "sunrise")
	assert.Contains(t, snap.ActivationField, "warmth")
	assert.Contains(t, snap.ActivationField, SymbolValenceMarker,
		"significant mood publishes the valence marker")
	assert.InDelta(t, 0.6, snap.ValenceIntegrated, 1e-12)
	assert.InDelta(t, 0.5, snap.ArousalIntegrated, 1e-12, "arousal defaults to 0.5")
	assert.Equal(t, engine.SessionID(), snap.SessionID)
}

func TestDogBarkSchemaScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.5
	cfg.SchemaSupportThreshold = 3
	cfg.SaveFrequency = 1000
	engine, _ := newTestEngine(t, cfg)

	for i := 0; i < 10; i++ {
		engine.LiveExperience(WithVisual("dog"), WithAuditory("bark"))
	}

	schemas := engine.Stream().Schemas()
	sc, ok := schemas[schema.NewPairKey("dog", "bark")]
	require.True(t, ok, "ten dog/bark frames must consolidate a (bark, dog) schema")
	assert.GreaterOrEqual(t, sc.Count, cfg.SchemaSupportThreshold)
}

func TestReplayCadence(t *testing.T) {
	engine, _ := newTestEngine(t, nil) // DreamFrequency 5

	for i := 1; i <= 14; i++ {
		engine.LiveExperience(WithVisual("tick"))
		wantCycles := i / 5
		assert.Equal(t, wantCycles, engine.ReplayCycles(),
			"replay fires exactly when frame count %% 5 == 0 (frame %d)", i)
	}
}

func TestDreamReplayBoostsTopSchemaWaves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.3
	cfg.DreamFrequency = 100 // keep automatic replay out of the way
	engine, _ := newTestEngine(t, cfg)

	for i := 0; i < 6; i++ {
		engine.LiveExperience(WithVisual("dog"), WithAuditory("bark"))
	}
	require.Positive(t, engine.Stream().SchemaCount())

	before := engine.Stream().Wave("bark").Amplitude
	boosted := engine.Stream().DreamReplay()
	after := engine.Stream().Wave("bark").Amplitude

	// A symbol may sit in several top schemas and be boosted once per schema.
	assert.Positive(t, boosted)
	assert.Greater(t, after, before)
	assert.LessOrEqual(t, after, 3.0)
}

func TestEmotionState(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	assert.Equal(t, EmotionState{}, engine.EmotionState(),
		"no frames yet means neutral zeros")

	for i := 0; i < 3; i++ {
		engine.LiveExperience(WithMood(0.6), WithArousal(0.2))
	}
	state := engine.EmotionState()
	assert.InDelta(t, 0.6, state.Valence, 1e-12)
	assert.InDelta(t, 0.2, state.Arousal, 1e-12)

	// The window is 20 frames; older affect rolls out.
	for i := 0; i < 25; i++ {
		engine.LiveExperience(WithMood(-1.0), WithArousal(0.9))
	}
	state = engine.EmotionState()
	assert.InDelta(t, -1.0, state.Valence, 1e-12)
	assert.InDelta(t, 0.9, state.Arousal, 1e-12)
}

func TestCognitiveStateSupportFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.3
	cfg.SchemaSupportThreshold = 3
	engine, _ := newTestEngine(t, cfg)

	for i := 0; i < 8; i++ {
		engine.LiveExperience(WithVisual("dog"), WithAuditory("bark"))
	}

	state := engine.CognitiveState()
	assert.Equal(t, 8, state.TotalExperiences)
	assert.Positive(t, state.ActiveSymbolCount)
	assert.Positive(t, state.ResonancePatterns)
	assert.NotEmpty(t, state.Schemas)
	for _, sc := range state.Schemas {
		assert.GreaterOrEqual(t, sc.Count, cfg.SchemaSupportThreshold,
			"summaries only show schemas past the support threshold")
	}
}

func TestEnginePersistsAcrossRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.5
	path := filepath.Join(t.TempDir(), "schemas.json")
	cfg.StorePath = path

	clock := &fakeClock{t: 1000}
	engine, err := New(cfg, WithClock(clock.now))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		engine.LiveExperience(WithVisual("dog"), WithAuditory("bark"))
	}
	require.NoError(t, engine.Close())

	// A fresh engine on the same path starts with the learned schemas.
	reopened, err := New(cfg, WithClock(clock.now))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Positive(t, reopened.Stream().SchemaCount())
}

func TestEngineSQLiteBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsolidationThreshold = 0.5
	cfg.StoreBackend = schema.BackendSQLite
	cfg.StorePath = filepath.Join(t.TempDir(), "schemas.db")

	clock := &fakeClock{t: 1000}
	engine, err := New(cfg, WithClock(clock.now))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		engine.LiveExperience(WithVisual("dog"), WithAuditory("bark"))
	}
	engine.Flush(context.Background())
	require.NoError(t, engine.Close())

	store, err := schema.NewSQLiteStore(cfg.StorePath)
	require.NoError(t, err)
	defer store.Close()
	mapping, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, mapping)
}

func TestOutOfRangeAffectAccepted(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	// The engine never validates: callers opting in use Moment.Validate.
	snap := engine.LiveExperience(WithVisual("dog"), WithMood(5), WithArousal(-2))
	assert.Equal(t, 1, snap.FrameCount)

	m := DefaultMoment()
	WithMood(5)(&m)
	assert.ErrorIs(t, m.Validate(), ErrOutOfRange)
	assert.NoError(t, DefaultMoment().Validate())
}
