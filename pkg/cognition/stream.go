package cognition

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/liliang-cn/tempocog/pkg/schema"
)

const (
	// pruneThreshold: waves whose |activation| decays below this are removed
	// from the active set after each interference scan.
	pruneThreshold = 0.01

	// consolidationWindow: each consolidation pass examines only this many of
	// the most recent resonance events, not all history.
	consolidationWindow = 20

	// resonanceSummaryLimit caps ResonanceSummary output.
	resonanceSummaryLimit = 10

	// Dream replay boosts the waves of the most-observed schemas by a fixed
	// multiplicative factor, up to a cap above the normal reinforcement limit.
	replayTopSchemas    = 5
	replayBoostFactor   = 1.1
	replayAmplitudeCap  = 3.0
	reinforceAmplitude  = 2.0
	reinforceMoodFactor = 0.02
)

// SchemaSummary is one row of a learned-pattern inspection.
type SchemaSummary struct {
	Symbols     [2]string `json:"symbols"`
	Count       int       `json:"count"`
	AvgStrength float64   `json:"avg_strength"`
	LastSeen    float64   `json:"last_seen"`
}

// ExperienceStream is the stateful core of the engine: it owns the active
// wave set and the schema table, and runs the per-frame pipeline of wave
// generation, pairwise interference, pruning, and consolidation.
//
// The interference scan is O(n^2) in the active-wave count; active sets stay
// small in practice because unreinforced waves decay and are pruned. The scan
// iterates symbols in sorted order so runs are reproducible.
type ExperienceStream struct {
	mu sync.Mutex

	frames      []*ExperienceFrame
	maxFrames   int
	activeWaves map[string]*TemporalWave

	events      []ResonanceEvent
	maxEvents   int
	totalEvents int

	schemas map[schema.PairKey]*schema.Schema
	store   schema.Store
	logger  Logger

	consolidationThreshold float64
	maxSchemas             int
	saveFrequency          int
	consolidations         int

	// nowFn is the stream's clock, replaceable in tests.
	nowFn func() float64
}

// wallClock returns the current Unix time in fractional seconds.
func wallClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// NewExperienceStream builds a stream from config. The store may be nil, in
// which case the stream runs purely in memory. Persisted schemas are loaded
// best-effort: a failed load logs a warning and starts empty.
func NewExperienceStream(cfg *Config, store schema.Store, logger Logger) *ExperienceStream {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = NopLogger()
	}

	s := &ExperienceStream{
		maxFrames:              cfg.MaxFrames,
		activeWaves:            make(map[string]*TemporalWave),
		maxEvents:              cfg.MaxEvents,
		schemas:                make(map[schema.PairKey]*schema.Schema),
		store:                  store,
		logger:                 logger,
		consolidationThreshold: cfg.ConsolidationThreshold,
		maxSchemas:             cfg.MaxSchemas,
		saveFrequency:          cfg.SaveFrequency,
		nowFn:                  wallClock,
	}

	if store != nil {
		loaded, err := store.Load(context.Background())
		if err != nil {
			s.logger.Warn("failed to load persisted schemas, starting empty", "err", err)
		} else {
			s.schemas = loaded
		}
	}
	return s
}

// AddExperience ingests one frame: it is appended to the bounded history,
// its symbols spawn or reinforce waves, all active waves are scanned pairwise
// for interference, decayed waves are pruned, and recent resonance events are
// consolidated into schemas. State is mutated in place; nothing is returned.
func (s *ExperienceStream) AddExperience(frame *ExperienceFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = append(s.frames, frame)
	if len(s.frames) > s.maxFrames {
		s.frames = s.frames[len(s.frames)-s.maxFrames:]
	}

	now := s.nowFn()
	s.generateWaves(frame, now)
	s.scanInterference(now)
	s.pruneWeakWaves(now)
	s.consolidatePatterns()
}

// generateWaves creates a wave per symbol in the frame, or reinforces the
// existing one: amplitude grows by half the freshly computed amplitude (capped),
// phase is nudged toward the current mood, and the decay clock restarts.
func (s *ExperienceStream) generateWaves(frame *ExperienceFrame, now float64) {
	for _, spec := range waveSpecs(frame) {
		if wave, ok := s.activeWaves[spec.symbol]; ok {
			wave.Amplitude = min(reinforceAmplitude, wave.Amplitude+spec.amplitude*0.5)
			wave.Phase = wrapPhase(wave.Phase + frame.Mood*reinforceMoodFactor)
			wave.BirthTime = now
			continue
		}
		s.activeWaves[spec.symbol] = &TemporalWave{
			Symbol:    spec.symbol,
			Frequency: spec.frequency,
			Amplitude: spec.amplitude,
			Phase:     spec.phase,
			BirthTime: now,
			DecayRate: spec.decayRate,
		}
	}
}

// scanInterference compares every active wave against every other and records
// pairs whose |interference| exceeds the consolidation threshold.
func (s *ExperienceStream) scanInterference(now float64) {
	symbols := make([]string, 0, len(s.activeWaves))
	for symbol := range s.activeWaves {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for i, first := range symbols {
		for _, second := range symbols[i+1:] {
			interference, resType := s.activeWaves[first].InterfereWith(s.activeWaves[second], now)
			if abs(interference) > s.consolidationThreshold {
				s.recordEvent(ResonanceEvent{
					Symbols:      [2]string{first, second},
					Interference: interference,
					Type:         resType,
					Timestamp:    now,
				})
			}
		}
	}
}

// recordEvent appends to the bounded event ring. The total counter keeps the
// all-time count observable after old events rotate out.
func (s *ExperienceStream) recordEvent(ev ResonanceEvent) {
	s.totalEvents++
	s.events = append(s.events, ev)
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// pruneWeakWaves drops waves whose activation has decayed to noise. This is
// the only removal path for the active set.
func (s *ExperienceStream) pruneWeakWaves(now float64) {
	for symbol, wave := range s.activeWaves {
		if abs(wave.Activation(now)) < pruneThreshold {
			delete(s.activeWaves, symbol)
		}
	}
}

// consolidatePatterns folds the most recent resonance events into the schema
// table. A schema is created on the first qualifying observation; the
// SchemaSupportThreshold config value acts as a visibility filter in
// summaries, not a creation gate. Every saveFrequency passes the table is
// mirrored to the store, best-effort.
func (s *ExperienceStream) consolidatePatterns() {
	start := 0
	if len(s.events) > consolidationWindow {
		start = len(s.events) - consolidationWindow
	}
	for _, ev := range s.events[start:] {
		key := schema.NewPairKey(ev.Symbols[0], ev.Symbols[1])
		sc, ok := s.schemas[key]
		if !ok {
			sc = schema.New(ev.Symbols[0], ev.Symbols[1])
			s.schemas[key] = sc
		}
		sc.RegisterObservation(ev.Interference, ev.Timestamp)
	}

	s.evictOverCap()

	s.consolidations++
	if s.store != nil && s.saveFrequency > 0 && s.consolidations%s.saveFrequency == 0 {
		s.saveLocked(context.Background())
	}
}

// evictOverCap removes lowest-count schemas until the table is back at the
// cap. Ties break on the canonical pair key so eviction is reproducible.
func (s *ExperienceStream) evictOverCap() {
	if len(s.schemas) <= s.maxSchemas {
		return
	}
	keys := make([]schema.PairKey, 0, len(s.schemas))
	for key := range s.schemas {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.schemas[keys[i]], s.schemas[keys[j]]
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	for _, key := range keys[:len(s.schemas)-s.maxSchemas] {
		delete(s.schemas, key)
	}
}

// saveLocked mirrors the schema table to the store. Failures are logged and
// swallowed: persistence is best-effort and the stream keeps operating purely
// in memory. Callers must hold s.mu.
func (s *ExperienceStream) saveLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.schemas); err != nil {
		s.logger.Warn("schema save failed", "schemas", len(s.schemas), "err", err)
		return
	}
	s.logger.Debug("schemas persisted", "schemas", len(s.schemas))
}

// Flush forces an immediate best-effort save of the schema table.
func (s *ExperienceStream) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(ctx)
}

// DreamReplay boosts the amplitude of any currently active wave whose symbol
// belongs to one of the most-observed schemas. It returns the number of waves
// boosted. This is the sole feedback path from consolidated long-term
// patterns back into the active short-term signal.
func (s *ExperienceStream) DreamReplay() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.topSchemasLocked(replayTopSchemas)
	boosted := 0
	for _, sc := range top {
		for _, symbol := range []string{sc.Symbols.A, sc.Symbols.B} {
			if wave, ok := s.activeWaves[symbol]; ok {
				wave.Amplitude = min(replayAmplitudeCap, wave.Amplitude*replayBoostFactor)
				boosted++
			}
		}
	}
	return boosted
}

// topSchemasLocked returns up to n schemas ordered by observation count
// descending, ties broken by average strength then key. Callers hold s.mu.
func (s *ExperienceStream) topSchemasLocked(n int) []*schema.Schema {
	all := make([]*schema.Schema, 0, len(s.schemas))
	for _, sc := range s.schemas {
		all = append(all, sc)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		if all[i].AvgStrength() != all[j].AvgStrength() {
			return all[i].AvgStrength() > all[j].AvgStrength()
		}
		if all[i].Symbols.A != all[j].Symbols.A {
			return all[i].Symbols.A < all[j].Symbols.A
		}
		return all[i].Symbols.B < all[j].Symbols.B
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// FrameCount returns the number of frames currently held in history.
func (s *ExperienceStream) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// ActiveWaveCount returns the size of the active wave set.
func (s *ExperienceStream) ActiveWaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeWaves)
}

// TotalResonanceEvents returns the all-time count of recorded events.
func (s *ExperienceStream) TotalResonanceEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalEvents
}

// ActivationField returns symbol -> instantaneous activation for every active
// wave, evaluated at call time. Pure read; no state is mutated.
func (s *ExperienceStream) ActivationField() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	field := make(map[string]float64, len(s.activeWaves))
	for symbol, wave := range s.activeWaves {
		field[symbol] = wave.Activation(now)
	}
	return field
}

// ResonanceSummary returns the most recent recorded resonance events, newest
// last, capped at 10.
func (s *ExperienceStream) ResonanceSummary() []ResonanceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if len(s.events) > resonanceSummaryLimit {
		start = len(s.events) - resonanceSummaryLimit
	}
	out := make([]ResonanceEvent, len(s.events)-start)
	copy(out, s.events[start:])
	return out
}

// SchemaSummary returns up to topK schemas with Count >= minCount, sorted by
// (count, average strength) descending: a view of what the stream has learned.
func (s *ExperienceStream) SchemaSummary(minCount, topK int) []SchemaSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	qualified := s.topSchemasLocked(len(s.schemas))
	out := make([]SchemaSummary, 0, topK)
	for _, sc := range qualified {
		if sc.Count < minCount {
			continue
		}
		out = append(out, SchemaSummary{
			Symbols:     [2]string{sc.Symbols.A, sc.Symbols.B},
			Count:       sc.Count,
			AvgStrength: sc.AvgStrength(),
			LastSeen:    sc.LastSeen,
		})
		if len(out) == topK {
			break
		}
	}
	return out
}

// SchemaCount returns the size of the schema table.
func (s *ExperienceStream) SchemaCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.schemas)
}

// Schemas returns a snapshot copy of the schema table.
func (s *ExperienceStream) Schemas() map[schema.PairKey]*schema.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[schema.PairKey]*schema.Schema, len(s.schemas))
	for key, sc := range s.schemas {
		clone := *sc
		out[key] = &clone
	}
	return out
}

// Wave returns the live wave for symbol, or nil. Intended for inspection.
func (s *ExperienceStream) Wave(symbol string) *TemporalWave {
	s.mu.Lock()
	defer s.mu.Unlock()

	wave, ok := s.activeWaves[symbol]
	if !ok {
		return nil
	}
	clone := *wave
	return &clone
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
