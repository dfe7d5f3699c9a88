package cognition

import "math"

// TemporalWave is a decaying oscillatory trace bound to one symbol.
//
// The instantaneous activation at time t is
//
//	amplitude * sin(2*pi*frequency*(t-birth) + phase) * exp(-decay*(t-birth))
//
// recomputed on demand, never cached. The wave metaphor is illustrative:
// phase encodes emotional valence sign, not an audio-accurate physical model.
type TemporalWave struct {
	// Symbol is the string key this wave is bound to; one live wave per symbol.
	Symbol string

	// Frequency is the Hz-like oscillation rate.
	Frequency float64

	// Amplitude is the current strength. Reinforcement caps it at 2.0;
	// dream replay may push it as high as 3.0.
	Amplitude float64

	// Phase is the cycle offset in radians, wrapped to [0, 2*pi).
	Phase float64

	// BirthTime is the Unix time (seconds) the wave was created or last
	// reinforced; decay is measured from here.
	BirthTime float64

	// DecayRate is the per-second exponential decay constant.
	DecayRate float64
}

// Activation returns the signed instantaneous value of the wave at currentTime.
// Pure function of elapsed time since birth; no side effects.
func (w *TemporalWave) Activation(currentTime float64) float64 {
	age := currentTime - w.BirthTime
	decay := math.Exp(-w.DecayRate * age)
	value := math.Sin(2*math.Pi*w.Frequency*age + w.Phase)
	return w.Amplitude * value * decay
}

// InterfereWith combines this wave with other at currentTime and classifies
// the relationship. The classification is deterministic and stateless: same
// inputs always give the same (interference, type) pair.
func (w *TemporalWave) InterfereWith(other *TemporalWave, currentTime float64) (float64, ResonanceType) {
	a1 := w.Activation(currentTime)
	a2 := other.Activation(currentTime)

	phaseDiff := math.Mod(math.Abs(w.Phase-other.Phase), 2*math.Pi)

	switch {
	case phaseDiff < math.Pi/4 || phaseDiff > 7*math.Pi/4:
		return a1 + a2, Constructive
	case phaseDiff > 3*math.Pi/4 && phaseDiff < 5*math.Pi/4:
		return math.Abs(a1 - a2), Destructive
	case math.Abs(w.Frequency-other.Frequency) < 0.1:
		return a1 * a2, Harmonic
	default:
		return (a1 + a2) / 2, Dissonant
	}
}
