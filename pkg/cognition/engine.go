package cognition

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/liliang-cn/tempocog/pkg/schema"
)

// integrationWindow is the number of recent frames the rolling mood and
// arousal averages are computed over.
const integrationWindow = 20

// Snapshot is the per-frame result of LiveExperience.
type Snapshot struct {
	SessionID         string             `json:"session_id"`
	FrameCount        int                `json:"frame_count"`
	ActiveWaves       int                `json:"active_waves"`
	ActivationField   map[string]float64 `json:"activation_field"`
	RecentResonance   []ResonanceEvent   `json:"recent_resonance"`
	ValenceIntegrated float64            `json:"valence_integrated"`
	ArousalIntegrated float64            `json:"arousal_integrated"`
}

// CognitiveState is the aggregate inspection view of the engine.
type CognitiveState struct {
	SessionID         string             `json:"session_id"`
	TotalExperiences  int                `json:"total_experiences"`
	ActiveSymbolCount int                `json:"active_symbol_count"`
	ReplayCycles      int                `json:"replay_cycles"`
	ActivationField   map[string]float64 `json:"activation_field"`
	ResonancePatterns int                `json:"resonance_patterns"`
	RecentResonance   []ResonanceEvent   `json:"recent_resonance"`
	Schemas           []SchemaSummary    `json:"schemas"`
}

// EmotionState is the rolling-average affect pair.
type EmotionState struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
}

// Engine is the public façade over an ExperienceStream. It adds periodic
// dream replay (schema-weighted amplitude reinforcement) and rolling emotion
// integration on top of the stream's per-frame pipeline.
//
// The engine never raises domain errors during normal operation: out-of-range
// affect values are used as-is, and persistence failures are logged and
// swallowed so the engine keeps working purely in memory.
type Engine struct {
	mu sync.Mutex

	cfg       *Config
	stream    *ExperienceStream
	store     schema.Store
	logger    Logger
	sessionID string

	replayCycles  int
	moodWindow    []float64
	arousalWindow []float64

	closed bool
}

// Option customises engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	logger Logger
	store  schema.Store
	nowFn  func() float64
}

// WithLogger sets the engine's logger. Defaults to NopLogger.
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// WithStore injects a schema store, overriding the config's backend/path.
func WithStore(store schema.Store) Option {
	return func(o *engineOptions) { o.store = store }
}

// WithClock replaces the engine's clock (Unix seconds). For tests.
func WithClock(nowFn func() float64) Option {
	return func(o *engineOptions) { o.nowFn = nowFn }
}

// New constructs an engine. A nil config means defaults. An invalid config is
// an error; a store that cannot be opened is not — the engine logs a warning
// and runs purely in memory.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NopLogger()
	}

	store := o.store
	if store == nil {
		var err error
		store, err = schema.OpenStore(cfg.StoreBackend, cfg.StorePath)
		if err != nil {
			o.logger.Warn("failed to open schema store, running in memory",
				"backend", cfg.StoreBackend, "path", cfg.StorePath, "err", err)
			store = nil
		}
	}

	e := &Engine{
		cfg:       cfg,
		store:     store,
		logger:    o.logger,
		sessionID: uuid.NewString(),
	}
	e.stream = NewExperienceStream(cfg, store, o.logger)
	if o.nowFn != nil {
		e.stream.nowFn = o.nowFn
	}

	e.logger.Info("engine started",
		"session", e.sessionID, "backend", cfg.StoreBackend, "schemas", e.stream.SchemaCount())
	return e, nil
}

// Stream exposes the underlying experience stream for advanced inspection.
func (e *Engine) Stream() *ExperienceStream {
	return e.stream
}

// SessionID returns the engine instance's identifier.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// LiveExperience ingests one moment and returns an activation snapshot.
// Options start from DefaultMoment (arousal 0.5, attention 0.5); every field
// is optional. Every DreamFrequency-th frame triggers a dream-replay pass.
func (e *Engine) LiveExperience(opts ...MomentOption) *Snapshot {
	moment := DefaultMoment()
	for _, opt := range opts {
		opt(&moment)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	frame := moment.frame(e.stream.nowFn())
	e.stream.AddExperience(frame)
	e.integrate(moment.Mood, moment.Arousal)

	if e.stream.FrameCount()%e.cfg.DreamFrequency == 0 {
		e.dreamReplay()
	}

	return &Snapshot{
		SessionID:         e.sessionID,
		FrameCount:        e.stream.FrameCount(),
		ActiveWaves:       e.stream.ActiveWaveCount(),
		ActivationField:   e.stream.ActivationField(),
		RecentResonance:   e.stream.ResonanceSummary(),
		ValenceIntegrated: stat.Mean(e.moodWindow, nil),
		ArousalIntegrated: stat.Mean(e.arousalWindow, nil),
	}
}

// integrate pushes the frame's affect into the fixed-size rolling windows.
func (e *Engine) integrate(mood, arousal float64) {
	e.moodWindow = append(e.moodWindow, mood)
	if len(e.moodWindow) > integrationWindow {
		e.moodWindow = e.moodWindow[len(e.moodWindow)-integrationWindow:]
	}
	e.arousalWindow = append(e.arousalWindow, arousal)
	if len(e.arousalWindow) > integrationWindow {
		e.arousalWindow = e.arousalWindow[len(e.arousalWindow)-integrationWindow:]
	}
}

// dreamReplay reinforces the active waves of the most-observed schemas: a
// fixed multiplicative boost, not a learning step. Callers hold e.mu.
func (e *Engine) dreamReplay() {
	boosted := e.stream.DreamReplay()
	e.replayCycles++
	e.logger.Info("dream replay cycle",
		"cycle", e.replayCycles, "boosted", boosted, "active", e.stream.ActiveWaveCount())
}

// CognitiveState aggregates stream state and the replay counter into one
// inspection view. Schemas are filtered by the support threshold: a pattern
// is "promoted" by becoming visible here, not by delayed creation.
func (e *Engine) CognitiveState() *CognitiveState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &CognitiveState{
		SessionID:         e.sessionID,
		TotalExperiences:  e.stream.FrameCount(),
		ActiveSymbolCount: e.stream.ActiveWaveCount(),
		ReplayCycles:      e.replayCycles,
		ActivationField:   e.stream.ActivationField(),
		ResonancePatterns: e.stream.TotalResonanceEvents(),
		RecentResonance:   e.stream.ResonanceSummary(),
		Schemas:           e.stream.SchemaSummary(e.cfg.SchemaSupportThreshold, 10),
	}
}

// EmotionState returns the rolling-average affect pair, or zeros before any
// frame has been processed.
func (e *Engine) EmotionState() EmotionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.moodWindow) == 0 {
		return EmotionState{}
	}
	return EmotionState{
		Valence: stat.Mean(e.moodWindow, nil),
		Arousal: stat.Mean(e.arousalWindow, nil),
	}
}

// ReplayCycles returns how many dream-replay passes have run.
func (e *Engine) ReplayCycles() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replayCycles
}

// Flush forces an immediate best-effort save of the schema table.
func (e *Engine) Flush(ctx context.Context) {
	e.stream.Flush(ctx)
}

// Close flushes the schema table and releases the store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	e.stream.Flush(context.Background())
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}
