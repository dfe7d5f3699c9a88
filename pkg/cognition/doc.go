// Package cognition implements a temporal resonant cognition engine: a small
// continuous-time signal model in which symbols carry decaying sinusoidal
// waves, co-active waves interfere, and recurring interference patterns
// consolidate into persisted schemas.
//
// # Model
//
//   - Every ingested moment (an ExperienceFrame) spawns or reinforces one
//     TemporalWave per symbol. Wave frequency, amplitude, and decay follow the
//     frame's arousal and attention; phase encodes the sign of its mood.
//   - All active waves are scanned pairwise each frame. Interference above the
//     consolidation threshold is recorded as a ResonanceEvent and classified
//     as constructive, destructive, harmonic, or dissonant.
//   - Recent events consolidate into schema records (see pkg/schema), which
//     are mirrored to a JSON file or SQLite database at a throttled cadence.
//   - Periodic "dream replay" boosts the active waves of the most-observed
//     schemas, closing the loop from long-term pattern to short-term signal.
//
// # Quick start
//
//	import "github.com/liliang-cn/tempocog/pkg/cognition"
//
//	engine, err := cognition.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	snap := engine.LiveExperience(
//	    cognition.WithVisual("dog"),
//	    cognition.WithAuditory("bark"),
//	    cognition.WithMood(0.6),
//	)
//	fmt.Println(snap.ActivationField)
//
//	state := engine.CognitiveState()
//	fmt.Println(state.Schemas)
//
// The engine is a single-writer structure: per-instance mutexes keep
// concurrent misuse from corrupting state, but the model itself (wave
// reinforcement, replay cadence) assumes one caller feeding one stream.
//
// The wave metaphor is illustrative, not a DSP simulation: constructive
// interference is a proxy for "co-occurring concepts with matching emotional
// sign".
package cognition
