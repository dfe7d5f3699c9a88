package cognition

import "fmt"

// ExperienceFrame is one ingested multi-modal moment: symbolic content plus
// affect, attention, and goal metadata. Frames are immutable once appended to
// the stream's history buffer and are never validated at construction; range
// conventions are documented on the fields, not enforced.
type ExperienceFrame struct {
	// Timestamp is the Unix time (seconds) the frame was ingested.
	Timestamp float64 `json:"timestamp"`

	// The three symbol channels are semantically equivalent; they exist so
	// callers can tag the modality of their input.
	VisualSymbols      []string `json:"visual_symbols"`
	AuditorySymbols    []string `json:"auditory_symbols"`
	KinestheticSymbols []string `json:"kinesthetic_symbols"`

	// Mood is the emotional valence, conventionally in [-1, 1].
	Mood float64 `json:"mood"`

	// Arousal is the energy level, conventionally in [0, 1].
	Arousal float64 `json:"arousal"`

	// Attention is the focus intensity, conventionally in [0, 1].
	Attention float64 `json:"attention"`

	// ActiveGoals and ContextTags participate in wave generation exactly like
	// the symbol channels.
	ActiveGoals []string `json:"active_goals"`
	ContextTags []string `json:"context_tags"`

	// Surprise is the prediction error, conventionally in [0, 1].
	Surprise float64 `json:"surprise"`

	// Satisfaction is the goal-achievement signal, conventionally in [-1, 1].
	Satisfaction float64 `json:"satisfaction"`
}

// AllSymbols returns every symbolic item in the frame: the three channels,
// then goals, then context tags, in that order.
func (f *ExperienceFrame) AllSymbols() []string {
	out := make([]string, 0,
		len(f.VisualSymbols)+len(f.AuditorySymbols)+len(f.KinestheticSymbols)+
			len(f.ActiveGoals)+len(f.ContextTags))
	out = append(out, f.VisualSymbols...)
	out = append(out, f.AuditorySymbols...)
	out = append(out, f.KinestheticSymbols...)
	out = append(out, f.ActiveGoals...)
	out = append(out, f.ContextTags...)
	return out
}

// Moment is the caller-facing input for one LiveExperience call. The zero
// value is NOT the neutral default: use the MomentOption helpers, which start
// from DefaultMoment (arousal 0.5, attention 0.5, everything else zero/empty).
type Moment struct {
	Visual       []string `json:"visual,omitempty"`
	Auditory     []string `json:"auditory,omitempty"`
	Kinesthetic  []string `json:"kinesthetic,omitempty"`
	Mood         float64  `json:"mood"`
	Arousal      float64  `json:"arousal"`
	Attention    float64  `json:"attention"`
	Goals        []string `json:"goals,omitempty"`
	Context      []string `json:"context,omitempty"`
	Surprise     float64  `json:"surprise"`
	Satisfaction float64  `json:"satisfaction"`
}

// DefaultMoment returns the neutral moment: no symbols, mood 0, arousal 0.5,
// attention 0.5, surprise 0, satisfaction 0.
func DefaultMoment() Moment {
	return Moment{Arousal: 0.5, Attention: 0.5}
}

// Validate reports whether the moment's affect values sit inside their
// conventional ranges. The engine never calls this: out-of-range values are
// accepted and flow into the wave math unchanged. Callers wanting stricter
// guarantees can check before ingesting.
func (m Moment) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if v < lo || v > hi {
			return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, name, v, lo, hi)
		}
		return nil
	}
	if err := check("mood", m.Mood, -1, 1); err != nil {
		return err
	}
	if err := check("arousal", m.Arousal, 0, 1); err != nil {
		return err
	}
	if err := check("attention", m.Attention, 0, 1); err != nil {
		return err
	}
	if err := check("surprise", m.Surprise, 0, 1); err != nil {
		return err
	}
	return check("satisfaction", m.Satisfaction, -1, 1)
}

// MomentOption mutates a Moment under construction.
type MomentOption func(*Moment)

// WithVisual sets the visual symbol channel.
func WithVisual(symbols ...string) MomentOption {
	return func(m *Moment) { m.Visual = symbols }
}

// WithAuditory sets the auditory symbol channel.
func WithAuditory(symbols ...string) MomentOption {
	return func(m *Moment) { m.Auditory = symbols }
}

// WithKinesthetic sets the kinesthetic symbol channel.
func WithKinesthetic(symbols ...string) MomentOption {
	return func(m *Moment) { m.Kinesthetic = symbols }
}

// WithMood sets the emotional valence.
func WithMood(mood float64) MomentOption {
	return func(m *Moment) { m.Mood = mood }
}

// WithArousal sets the energy level.
func WithArousal(arousal float64) MomentOption {
	return func(m *Moment) { m.Arousal = arousal }
}

// WithAttention sets the focus intensity.
func WithAttention(attention float64) MomentOption {
	return func(m *Moment) { m.Attention = attention }
}

// WithGoals sets the active goals.
func WithGoals(goals ...string) MomentOption {
	return func(m *Moment) { m.Goals = goals }
}

// WithContext sets the situational context tags.
func WithContext(tags ...string) MomentOption {
	return func(m *Moment) { m.Context = tags }
}

// WithSurprise sets the prediction-error signal.
func WithSurprise(surprise float64) MomentOption {
	return func(m *Moment) { m.Surprise = surprise }
}

// WithSatisfaction sets the goal-achievement signal.
func WithSatisfaction(satisfaction float64) MomentOption {
	return func(m *Moment) { m.Satisfaction = satisfaction }
}

// WithMoment replaces the whole moment, for callers that build the struct
// directly (e.g. decoding JSON input).
func WithMoment(moment Moment) MomentOption {
	return func(m *Moment) { *m = moment }
}

// frame converts the moment into an immutable ExperienceFrame stamped at ts.
func (m Moment) frame(ts float64) *ExperienceFrame {
	return &ExperienceFrame{
		Timestamp:          ts,
		VisualSymbols:      m.Visual,
		AuditorySymbols:    m.Auditory,
		KinestheticSymbols: m.Kinesthetic,
		Mood:               m.Mood,
		Arousal:            m.Arousal,
		Attention:          m.Attention,
		ActiveGoals:        m.Goals,
		ContextTags:        m.Context,
		Surprise:           m.Surprise,
		Satisfaction:       m.Satisfaction,
	}
}
