package cognition

import (
	"hash/fnv"
	"math"
)

// Pseudo-symbols synthesized per frame so downstream consumers can decode
// affect from the activation field without inspecting frames directly.
const (
	// SymbolValenceMarker oscillates in the theta band; present when the
	// frame carries any meaningful valence.
	SymbolValenceMarker = "valence_marker"

	// SymbolArousalMarker oscillates in the gamma band; present when the
	// frame carries any meaningful arousal.
	SymbolArousalMarker = "arousal_marker"

	// SymbolValenceMag and SymbolArousalMag are quasi-DC carriers whose
	// amplitude encodes the affect magnitude.
	SymbolValenceMag = "valence_mag"
	SymbolArousalMag = "arousal_mag"
)

const (
	thetaFrequency = 6.0   // valence marker band
	gammaFrequency = 40.0  // arousal marker band
	magFrequency   = 0.001 // quasi-DC magnitude carriers

	// affectGate is the minimum |mood| / arousal for the oscillating markers
	// to be emitted at all.
	affectGate = 0.05

	// moodNeutralBand: |mood| below this gets a hash-derived phase offset
	// instead of a valence anchor.
	moodNeutralBand = 0.1

	// phaseJitterMax keeps same-valence symbols from being perfectly
	// phase-locked, which would cause runaway constructive reinforcement
	// between unrelated co-positive concepts.
	phaseJitterMax = math.Pi / 16

	// neutralOffsetMax bounds the pseudo-random phase of near-neutral moods.
	neutralOffsetMax = math.Pi / 4
)

// waveSpec carries the computed parameters for one symbol of one frame.
type waveSpec struct {
	symbol    string
	frequency float64
	amplitude float64
	phase     float64
	decayRate float64
}

// symbolUnit maps a symbol string to a stable value in [0, 1). FNV-1a keeps
// the mapping identical across runs and processes: same symbol, same offset.
func symbolUnit(symbol string) float64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	const mask = 1<<53 - 1
	return float64(h.Sum64()&mask) / float64(1<<53)
}

// symbolJitter returns a symmetric offset in [-max, +max) derived from the
// symbol string.
func symbolJitter(symbol string, max float64) float64 {
	return (symbolUnit(symbol)*2 - 1) * max
}

// wrapPhase normalises an angle to [0, 2*pi).
func wrapPhase(phase float64) float64 {
	phase = math.Mod(phase, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	return phase
}

// calculateFrequency assigns the oscillation rate for an ordinary content
// symbol: arousal and attention both speed the wave up.
func calculateFrequency(frame *ExperienceFrame) float64 {
	return 1.0 * (1.0 + frame.Arousal) * (1.0 + frame.Attention)
}

// calculateAmplitude assigns the starting strength for an ordinary content
// symbol.
func calculateAmplitude(frame *ExperienceFrame) float64 {
	return 0.2 + 1.5*frame.Arousal
}

// calculatePhase anchors the wave's phase to the sign of the frame's mood:
// positive moods near 0, negative moods near pi, so matching-valence symbols
// interfere constructively and opposing-valence symbols destructively. A
// small symbol-specific jitter is layered on top; near-neutral moods get a
// wider hash-derived offset instead of an anchor.
func calculatePhase(symbol string, mood float64) float64 {
	switch {
	case mood >= moodNeutralBand:
		return wrapPhase(0 + symbolJitter(symbol, phaseJitterMax))
	case mood <= -moodNeutralBand:
		return wrapPhase(math.Pi + symbolJitter(symbol, phaseJitterMax))
	default:
		return wrapPhase(symbolJitter(symbol, neutralOffsetMax))
	}
}

// calculateDecayRate slows decay as arousal rises: emotionally charged
// content persists longer in the active set.
func calculateDecayRate(frame *ExperienceFrame) float64 {
	return 0.0025*(1.0-frame.Arousal) + 0.0005
}

// waveSpecs computes the full set of wave parameter bundles for a frame:
// every content symbol plus the synthesized affect pseudo-symbols.
func waveSpecs(frame *ExperienceFrame) []waveSpec {
	symbols := frame.AllSymbols()
	specs := make([]waveSpec, 0, len(symbols)+4)

	frequency := calculateFrequency(frame)
	amplitude := calculateAmplitude(frame)
	decayRate := calculateDecayRate(frame)

	for _, symbol := range symbols {
		specs = append(specs, waveSpec{
			symbol:    symbol,
			frequency: frequency,
			amplitude: amplitude,
			phase:     calculatePhase(symbol, frame.Mood),
			decayRate: decayRate,
		})
	}

	moodMag := math.Abs(frame.Mood)
	if moodMag >= affectGate {
		specs = append(specs, waveSpec{
			symbol:    SymbolValenceMarker,
			frequency: thetaFrequency,
			amplitude: moodMag,
			phase:     calculatePhase(SymbolValenceMarker, frame.Mood),
			decayRate: decayRate,
		})
	}
	if frame.Arousal >= affectGate {
		specs = append(specs, waveSpec{
			symbol:    SymbolArousalMarker,
			frequency: gammaFrequency,
			amplitude: frame.Arousal,
			phase:     calculatePhase(SymbolArousalMarker, frame.Mood),
			decayRate: decayRate,
		})
	}
	// The magnitude carriers sit at phase pi/2 so their quasi-DC activation
	// reads the amplitude directly instead of sin(~0).
	specs = append(specs,
		waveSpec{
			symbol:    SymbolValenceMag,
			frequency: magFrequency,
			amplitude: moodMag,
			phase:     math.Pi / 2,
			decayRate: decayRate,
		},
		waveSpec{
			symbol:    SymbolArousalMag,
			frequency: magFrequency,
			amplitude: frame.Arousal,
			phase:     math.Pi / 2,
			decayRate: decayRate,
		},
	)

	return specs
}
