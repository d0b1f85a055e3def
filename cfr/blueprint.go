package cfr

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const blueprintFileVersion = 1

// Blueprint captures the averaged strategies produced by a training run so
// that the Decision Synthesizer can sample actions without re-running CFR
// at request time.
type Blueprint struct {
	Version     int                  `json:"version"`
	GeneratedAt time.Time            `json:"generated_at"`
	Iterations  int                  `json:"iterations"`
	Abstraction AbstractionConfig    `json:"abstraction"`
	Strategies  map[string][]float64 `json:"strategies"`
}

// Save writes the blueprint to disk as indented JSON.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errors.New("cfr: nil blueprint")
	}
	if path == "" {
		return errors.New("cfr: destination path is required")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// LoadBlueprint reads a blueprint from disk and validates its abstraction
// metadata so a caller never samples strategies trained under a different
// abstraction than the one it's about to query with.
func LoadBlueprint(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bp Blueprint
	if err := json.NewDecoder(f).Decode(&bp); err != nil {
		return nil, err
	}
	if err := bp.Abstraction.Validate(); err != nil {
		return nil, err
	}
	if bp.Version != blueprintFileVersion {
		return nil, errors.New("cfr: unsupported blueprint version")
	}
	return &bp, nil
}

// Strategy returns the stored average strategy for key, if present.
func (b *Blueprint) Strategy(key InfoSetKey) ([]float64, bool) {
	if b == nil {
		return nil, false
	}
	strat, ok := b.Strategies[key.String()]
	return strat, ok
}
