// Package schema defines consolidated resonance patterns and their persistence.
//
// A Schema records that a pair of symbols has repeatedly produced significant
// wave interference. Schemas are the engine's long-term memory: the cognition
// package accumulates them from resonance events and periodically mirrors the
// in-memory table to a Store (JSON file or SQLite database).
package schema

import (
	"encoding/json"
	"fmt"
)

// PairKey is the canonical identity of a two-symbol pattern. The symbols are
// always stored in lexicographic order so that (a,b) and (b,a) resolve to the
// same key.
type PairKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPairKey builds a canonical key from two symbols in any order.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// String returns a human-readable "a<->b" form.
func (k PairKey) String() string {
	return fmt.Sprintf("%s<->%s", k.A, k.B)
}

// Schema is a consolidated recurring resonance pattern between two symbols.
type Schema struct {
	// Symbols is the canonical (sorted) symbol pair.
	Symbols PairKey `json:"-"`

	// Count is how many times this pattern has been observed.
	Count int `json:"count"`

	// CumulativeStrength is the sum of absolute interference values observed.
	CumulativeStrength float64 `json:"cumulative_strength"`

	// LastSeen is the Unix timestamp (seconds) of the most recent observation.
	LastSeen float64 `json:"last_seen"`
}

// New creates an empty schema for the canonical pair of a and b.
func New(a, b string) *Schema {
	return &Schema{Symbols: NewPairKey(a, b)}
}

// AvgStrength returns the mean interference strength, or 0 for an empty schema.
func (s *Schema) AvgStrength() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.CumulativeStrength / float64(s.Count)
}

// RegisterObservation folds a new interference observation into the schema.
// Strength is accumulated as an absolute value regardless of sign.
func (s *Schema) RegisterObservation(strength, ts float64) {
	s.Count++
	if strength < 0 {
		strength = -strength
	}
	s.CumulativeStrength += strength
	s.LastSeen = ts
}

// schemaJSON is the wire form shared by the JSON store and MarshalJSON.
// The pair travels as a two-element array for compatibility with the
// schemas.json layout described in the persisted-state contract.
type schemaJSON struct {
	Symbols            [2]string `json:"symbols"`
	Count              int       `json:"count"`
	CumulativeStrength float64   `json:"cumulative_strength"`
	LastSeen           float64   `json:"last_seen"`
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{
		Symbols:            [2]string{s.Symbols.A, s.Symbols.B},
		Count:              s.Count,
		CumulativeStrength: s.CumulativeStrength,
		LastSeen:           s.LastSeen,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Symbols = NewPairKey(raw.Symbols[0], raw.Symbols[1])
	s.Count = raw.Count
	s.CumulativeStrength = raw.CumulativeStrength
	s.LastSeen = raw.LastSeen
	return nil
}
