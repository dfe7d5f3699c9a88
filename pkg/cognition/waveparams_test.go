package cognition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseDeterminism(t *testing.T) {
	for _, mood := range []float64{0.5, -0.5, 0.0} {
		first := calculatePhase("alpha", mood)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, calculatePhase("alpha", mood),
				"same symbol and mood bucket must always give the same phase")
		}
	}
}

// angularDistance measures the shortest arc between two angles.
func angularDistance(a, b float64) float64 {
	d := math.Abs(wrapPhase(a) - wrapPhase(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func TestPhaseAnchoredToMoodSign(t *testing.T) {
	symbols := []string{"sunrise", "storm", "river", "alpha", "beta"}

	for _, symbol := range symbols {
		positive := calculatePhase(symbol, 0.8)
		negative := calculatePhase(symbol, -0.8)
		neutral := calculatePhase(symbol, 0.02)

		assert.LessOrEqual(t, angularDistance(positive, 0), math.Pi/16,
			"%s: positive mood anchors near 0", symbol)
		assert.LessOrEqual(t, angularDistance(negative, math.Pi), math.Pi/16,
			"%s: negative mood anchors near pi", symbol)
		assert.LessOrEqual(t, angularDistance(neutral, 0), math.Pi/4,
			"%s: neutral mood stays within the hash offset band", symbol)
	}
}

func TestPhaseJitterSeparatesSymbols(t *testing.T) {
	// Two same-valence symbols must not be perfectly phase-locked.
	a := calculatePhase("dog", 0.8)
	b := calculatePhase("bark", 0.8)
	assert.NotEqual(t, a, b)
}

func TestWaveSpecsFormulas(t *testing.T) {
	frame := &ExperienceFrame{
		Timestamp:     100,
		VisualSymbols: []string{"dog"},
		Mood:          0.5,
		Arousal:       0.8,
		Attention:     0.6,
	}

	assert.InDelta(t, 1.0*1.8*1.6, calculateFrequency(frame), 1e-12)
	assert.InDelta(t, 0.2+1.5*0.8, calculateAmplitude(frame), 1e-12)
	assert.InDelta(t, 0.0025*0.2+0.0005, calculateDecayRate(frame), 1e-12)
}

func TestWaveSpecsMarkers(t *testing.T) {
	frame := &ExperienceFrame{
		VisualSymbols:   []string{"dog"},
		AuditorySymbols: []string{"bark"},
		Mood:            -0.8,
		Arousal:         0.7,
		Attention:       0.5,
	}

	byName := map[string]waveSpec{}
	for _, spec := range waveSpecs(frame) {
		byName[spec.symbol] = spec
	}

	require.Contains(t, byName, "dog")
	require.Contains(t, byName, "bark")

	valence, ok := byName[SymbolValenceMarker]
	require.True(t, ok, "significant mood emits the valence marker")
	assert.Equal(t, thetaFrequency, valence.frequency)
	assert.InDelta(t, 0.8, valence.amplitude, 1e-12)

	arousal, ok := byName[SymbolArousalMarker]
	require.True(t, ok, "significant arousal emits the arousal marker")
	assert.Equal(t, gammaFrequency, arousal.frequency)
	assert.InDelta(t, 0.7, arousal.amplitude, 1e-12)

	vmag := byName[SymbolValenceMag]
	amag := byName[SymbolArousalMag]
	assert.Equal(t, magFrequency, vmag.frequency)
	assert.Equal(t, magFrequency, amag.frequency)
	assert.InDelta(t, 0.8, vmag.amplitude, 1e-12)
	assert.InDelta(t, 0.7, amag.amplitude, 1e-12)
	assert.InDelta(t, math.Pi/2, vmag.phase, 1e-12,
		"magnitude carriers read their amplitude at quasi-DC")
}

func TestWaveSpecsMarkersGated(t *testing.T) {
	frame := &ExperienceFrame{VisualSymbols: []string{"dog"}, Mood: 0.01, Arousal: 0.01}

	byName := map[string]waveSpec{}
	for _, spec := range waveSpecs(frame) {
		byName[spec.symbol] = spec
	}

	assert.NotContains(t, byName, SymbolValenceMarker)
	assert.NotContains(t, byName, SymbolArousalMarker)
	assert.Contains(t, byName, SymbolValenceMag, "magnitude carriers are always emitted")
	assert.Contains(t, byName, SymbolArousalMag)
}

func TestAllSymbolsOrder(t *testing.T) {
	frame := &ExperienceFrame{
		VisualSymbols:      []string{"v1", "v2"},
		AuditorySymbols:    []string{"a1"},
		KinestheticSymbols: []string{"k1"},
		ActiveGoals:        []string{"g1"},
		ContextTags:        []string{"c1"},
	}
	assert.Equal(t, []string{"v1", "v2", "a1", "k1", "g1", "c1"}, frame.AllSymbols())
}
