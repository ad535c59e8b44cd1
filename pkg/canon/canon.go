// Package canon defines the canonical entity types produced by
// reconciliation: the merged Person record and the dependent entities
// (transactions, transfers, promotions) that reference people.
package canon

import "strings"

// Person is the single, merged, authoritative record for a real
// individual after reconciliation across all sources.
type Person struct {
	// ID is the stable external identifier, zero-padded to 4 digits for
	// numeric ids, or a synthesized identifier when no source carried one.
	ID string

	FirstName string
	LastName  string

	// Email and Phone are unique across people when non-empty.
	// Uniqueness is enforced at write time by the canonical store.
	Email string
	Phone string

	City    string
	Country string

	// Devices is the union of devices reported by any source.
	Devices DeviceSet

	// Sources records which sources contributed to this person.
	Sources TagSet
}

// FullName returns the person's display name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
