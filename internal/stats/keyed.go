package stats

import "sort"

// Keyed is a per-key accumulator, created lazily on first observation.
// Every analysis mode that groups samples by address builds on it.
type Keyed struct {
	byKey map[string]*Accumulator
}

// NewKeyed returns an empty keyed accumulator.
func NewKeyed() *Keyed {
	return &Keyed{byKey: make(map[string]*Accumulator)}
}

// Observe records one sample under key.
func (k *Keyed) Observe(key string, v float64) {
	acc, ok := k.byKey[key]
	if !ok {
		acc = &Accumulator{}
		k.byKey[key] = acc
	}
	acc.Add(v)
}

// Get returns the accumulator for key, or nil if the key was never observed.
func (k *Keyed) Get(key string) *Accumulator {
	return k.byKey[key]
}

// KeySummary pairs a key with its finalized summary.
type KeySummary struct {
	Key     string
	Summary Summary
}

// Finalize summarizes every key that reached minSamples; keys below the
// threshold are silently excluded. Results are sorted by descending mean,
// ties broken by key for a stable order.
func (k *Keyed) Finalize(minSamples int) []KeySummary {
	out := make([]KeySummary, 0, len(k.byKey))
	for key, acc := range k.byKey {
		if acc.Count() < minSamples {
			continue
		}
		out = append(out, KeySummary{Key: key, Summary: acc.Finalize()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Summary.Mean != out[j].Summary.Mean {
			return out[i].Summary.Mean > out[j].Summary.Mean
		}
		return out[i].Key < out[j].Key
	})
	return out
}
