// Package authority determines which source is authoritative for each
// canonical person field when sources disagree.
package authority

import (
	"path/filepath"

	"github.com/agentstation/unify/pkg/canon"
)

// Authority determines which source is authoritative for each field.
type Authority interface {
	// Find returns the authority configuration for a specific field
	Find(fieldPath string) *Field

	// PersonFields returns all person field authorities
	PersonFields() []Field

	// Order returns the source tags in descending priority order
	Order() []canon.SourceTag
}

// Field defines source priority for a specific field
type Field struct {
	Path     string          `json:"path" yaml:"path"`         // e.g., "city", "first_name"
	Source   canon.SourceTag `json:"source" yaml:"source"`     // Which source is authoritative
	Priority int             `json:"priority" yaml:"priority"` // Priority (higher = more authoritative)
}

// authorities provides the standard field authorities.
type authorities struct {
	personAuthorities []Field
}

// New creates an Authority with the standard configuration: the
// object-list source outranks the flat source on every scalar field.
func New() Authority {
	return &authorities{
		personAuthorities: defaultPersonAuthorities(),
	}
}

// Find returns the highest-priority authority for a field path.
func (da *authorities) Find(fieldPath string) *Field {
	return ByField(fieldPath, da.personAuthorities)
}

// PersonFields returns all person field authorities.
func (da *authorities) PersonFields() []Field {
	return da.personAuthorities
}

// Order returns source tags in descending priority, derived from the
// wildcard authorities so the two stay consistent.
func (da *authorities) Order() []canon.SourceTag {
	type rank struct {
		tag      canon.SourceTag
		priority int
	}
	var ranks []rank
	for _, auth := range da.personAuthorities {
		if auth.Path != "*" {
			continue
		}
		ranks = append(ranks, rank{auth.Source, auth.Priority})
	}
	for i := 0; i < len(ranks)-1; i++ {
		for j := i + 1; j < len(ranks); j++ {
			if ranks[j].priority > ranks[i].priority {
				ranks[i], ranks[j] = ranks[j], ranks[i]
			}
		}
	}
	order := make([]canon.SourceTag, len(ranks))
	for i, r := range ranks {
		order[i] = r.tag
	}
	return order
}

// ByField returns the highest priority authority for a given field path.
func ByField(fieldPath string, authorities []Field) *Field {
	var bestMatch *Field
	var bestPriority int
	var bestMatchLength int

	for i, auth := range authorities {
		if MatchesPattern(fieldPath, auth.Path) {
			// Prioritize by: 1) priority, 2) pattern specificity (length), 3) order
			patternLength := len(auth.Path)
			if auth.Priority > bestPriority ||
				(auth.Priority == bestPriority && patternLength > bestMatchLength) {
				bestMatch = &authorities[i]
				bestPriority = auth.Priority
				bestMatchLength = patternLength
			}
		}
	}

	return bestMatch
}

// MatchesPattern checks if a field path matches a pattern (supports * wildcards)
func MatchesPattern(fieldPath, pattern string) bool {
	if fieldPath == pattern {
		return true
	}

	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(fieldPath) >= len(prefix) && fieldPath[:len(prefix)] == prefix
	}

	matched, err := filepath.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}

// defaultPersonAuthorities returns the default field authorities for
// canonical people. The object-list source carries richer structure
// (separate name parts, nested location) and wins every conflict; the
// flat source fills whatever the object-list source left empty.
func defaultPersonAuthorities() []Field {
	return []Field{
		{Path: "*", Source: canon.SourceObjectList, Priority: 100},
		{Path: "*", Source: canon.SourceFlat, Priority: 90},

		// The flat source's combined "City, Country" field is the only
		// place a country value exists when the object-list source has a
		// bare city, so keep an explicit entry for documentation even
		// though it matches the wildcard priorities.
		{Path: "country", Source: canon.SourceObjectList, Priority: 100},
		{Path: "country", Source: canon.SourceFlat, Priority: 90},
	}
}
