package cognition

// ResonanceType classifies how two waves' phases and frequencies relate at the
// moment of interference.
type ResonanceType string

const (
	// Constructive means the waves reinforce (phases nearly aligned).
	Constructive ResonanceType = "constructive"

	// Destructive means the waves cancel (phases nearly opposed).
	Destructive ResonanceType = "destructive"

	// Harmonic means the waves share a frequency band and multiply.
	Harmonic ResonanceType = "harmonic"

	// Dissonant means the waves neither align nor cancel; tension averages out.
	Dissonant ResonanceType = "dissonant"
)

// ResonanceEvent records one significant pairwise interference observation.
// Events feed schema consolidation and are surfaced by ResonanceSummary.
type ResonanceEvent struct {
	// Symbols holds the two interfering symbols in the scan's canonical order.
	Symbols [2]string `json:"symbols"`

	// Interference is the signed scalar produced by the wave combination.
	Interference float64 `json:"interference"`

	// Type is the resonance classification at observation time.
	Type ResonanceType `json:"resonance_type"`

	// Timestamp is the Unix time (seconds) of the observation.
	Timestamp float64 `json:"timestamp"`
}
