package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/unify/pkg/authority"
	"github.com/agentstation/unify/pkg/canon"
)

// StrategyType represents the type of reconciliation strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the display name of the strategy type.
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeFieldAuthority uses field-specific authority scores to resolve conflicts.
	StrategyTypeFieldAuthority StrategyType = "field-authority"
	// StrategyTypeSourceOrder uses source ordering to resolve conflicts.
	StrategyTypeSourceOrder StrategyType = "source-order"
)

// Strategy defines how a scalar field conflict between sources is resolved.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// ResolveConflict picks the winning value for a field given the
	// candidate values per source. A non-empty value always beats an
	// empty one; the returned reason is for provenance logging.
	ResolveConflict(field string, values map[canon.SourceTag]string) (string, canon.SourceTag, string)
}

// AuthorityStrategy uses field authorities to resolve conflicts.
type AuthorityStrategy struct {
	authorities authority.Authority
}

// NewAuthorityStrategy creates a new authority-based strategy.
func NewAuthorityStrategy(authorities authority.Authority) Strategy {
	return &AuthorityStrategy{authorities: authorities}
}

// Type returns the strategy type.
func (s *AuthorityStrategy) Type() StrategyType {
	return StrategyTypeFieldAuthority
}

// Description returns a human-readable description.
func (s *AuthorityStrategy) Description() string {
	return "Resolves conflicts using field authority priorities"
}

// ResolveConflict uses authorities to resolve conflicts.
func (s *AuthorityStrategy) ResolveConflict(field string, values map[canon.SourceTag]string) (string, canon.SourceTag, string) {
	// Find all authorities that match this field, sorted by priority.
	var matching []authority.Field
	for _, auth := range s.authorities.PersonFields() {
		if authority.MatchesPattern(field, auth.Path) {
			matching = append(matching, auth)
		}
	}
	for i := 0; i < len(matching)-1; i++ {
		for j := i + 1; j < len(matching); j++ {
			if matching[j].Priority > matching[i].Priority {
				matching[i], matching[j] = matching[j], matching[i]
			}
		}
	}

	// Take the first authority whose source contributed a non-empty
	// value: an empty value never overwrites a non-empty one.
	for _, auth := range matching {
		if value := values[auth.Source]; value != "" {
			return value, auth.Source, fmt.Sprintf("selected by authority (priority: %d)", auth.Priority)
		}
	}

	// No matching authority had a value, fall back to any non-empty value.
	for _, tag := range []canon.SourceTag{canon.SourceObjectList, canon.SourceFlat} {
		if value := values[tag]; value != "" {
			return value, tag, "using first non-empty value (no authority match)"
		}
	}

	return "", "", "no value available"
}

// SourceOrderStrategy resolves conflicts using a fixed source precedence
// order. Sources earlier in the priority slice win over later ones.
type SourceOrderStrategy struct {
	order []canon.SourceTag // first element = highest priority
}

// NewSourceOrderStrategy creates a new source priority order strategy.
func NewSourceOrderStrategy(order []canon.SourceTag) Strategy {
	return &SourceOrderStrategy{order: order}
}

// Type returns the strategy type.
func (s *SourceOrderStrategy) Type() StrategyType {
	return StrategyTypeSourceOrder
}

// Description returns a human-readable description.
func (s *SourceOrderStrategy) Description() string {
	return fmt.Sprintf("Resolves conflicts using source priority order: %v", s.order)
}

// ResolveConflict uses source priority order to resolve conflicts.
func (s *SourceOrderStrategy) ResolveConflict(_ string, values map[canon.SourceTag]string) (string, canon.SourceTag, string) {
	for _, tag := range s.order {
		if value := values[tag]; value != "" {
			return value, tag, fmt.Sprintf("selected by source priority order (%s)", tag)
		}
	}

	for tag, value := range values {
		if value != "" {
			return value, tag, "no priority source available, using first non-empty"
		}
	}

	return "", "", "no value available"
}
