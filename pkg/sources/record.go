// Package sources defines the intermediate record schema shared by all
// source normalizers, plus the raw record shapes the two known sources
// deliver. Raw records come from external readers; normalized Records
// are what the identity resolver and field reconciler operate on.
package sources

import "github.com/agentstation/unify/pkg/canon"

// Record is a normalized source record: one person sighting from one
// source, mapped onto the common field set. Records are ephemeral —
// consumed during identity resolution, never persisted.
//
// Missing optional fields are empty strings, never absent; a record with
// no identifying field at all is rejected by the normalizer as malformed
// and never reaches this type.
type Record struct {
	// Source tags which source shape this record came from.
	Source canon.SourceTag

	// Index is the record's position within its source input,
	// kept for error reporting.
	Index int

	// PersonID is the zero-padded external id, or "" when the source
	// did not carry one.
	PersonID string

	FirstName string
	LastName  string
	Email     string
	Phone     string
	City      string
	Country   string

	Devices canon.DeviceSet
}

// HasIdentity reports whether the record carries at least one candidate
// identity key (external id, email, or phone).
func (r Record) HasIdentity() bool {
	return r.PersonID != "" || r.Email != "" || r.Phone != ""
}

// Keys returns the record's non-empty candidate keys in matching
// priority order: id, then email, then phone. Each key is prefixed with
// its kind so keys of different kinds never collide.
func (r Record) Keys() []string {
	keys := make([]string, 0, 3)
	if r.PersonID != "" {
		keys = append(keys, "id:"+r.PersonID)
	}
	if r.Email != "" {
		keys = append(keys, "email:"+r.Email)
	}
	if r.Phone != "" {
		keys = append(keys, "phone:"+r.Phone)
	}
	return keys
}
