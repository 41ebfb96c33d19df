// Package analysis computes the per-proposer and per-validator reports over
// a fetched block set. Aggregation is single-threaded: it only reads a
// complete fetch result.
package analysis

import "strings"

// NameFunc resolves a validator address to a display name, or "" when
// unknown. A nil NameFunc leaves names empty.
type NameFunc func(address string) string

func resolveName(names NameFunc, address string) string {
	if names == nil {
		return ""
	}
	return names(address)
}

// ProposerFilter builds an address predicate from the CLI-level filter
// parameters: an exact address match, or a case-insensitive resolved-name
// substring. Empty parameters accept everything.
func ProposerFilter(address, nameSubstring string, names NameFunc) func(string) bool {
	nameSubstring = strings.ToLower(nameSubstring)
	return func(candidate string) bool {
		if address != "" && !strings.EqualFold(address, candidate) {
			return false
		}
		if nameSubstring != "" {
			name := strings.ToLower(resolveName(names, candidate))
			if !strings.Contains(name, nameSubstring) {
				return false
			}
		}
		return true
	}
}
