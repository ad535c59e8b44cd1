// Package reconcile merges one identity group into one canonical
// person. Scalar fields are coalesced in source-priority order (a
// non-empty value from a higher-authority source wins, an empty value
// never overwrites a non-empty one); set-valued fields (devices) are
// unioned across every record in the group; provenance is the union of
// contributing source tags. Reconciling the same group twice yields the
// same person.
package reconcile

import (
	"github.com/agentstation/unify/pkg/authority"
	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/identity"
	"github.com/agentstation/unify/pkg/sources"
)

// scalarField binds a field name to its accessors on the record and
// person types, so the merge loop stays table-driven.
type scalarField struct {
	name string
	get  func(sources.Record) string
	set  func(*canon.Person, string)
}

// scalarFields lists every coalesced person field in merge order.
var scalarFields = []scalarField{
	{"first_name",
		func(r sources.Record) string { return r.FirstName },
		func(p *canon.Person, v string) { p.FirstName = v }},
	{"last_name",
		func(r sources.Record) string { return r.LastName },
		func(p *canon.Person, v string) { p.LastName = v }},
	{"email",
		func(r sources.Record) string { return r.Email },
		func(p *canon.Person, v string) { p.Email = v }},
	{"phone",
		func(r sources.Record) string { return r.Phone },
		func(p *canon.Person, v string) { p.Phone = v }},
	{"city",
		func(r sources.Record) string { return r.City },
		func(p *canon.Person, v string) { p.City = v }},
	{"country",
		func(r sources.Record) string { return r.Country },
		func(p *canon.Person, v string) { p.Country = v }},
}

// Reconciler merges identity groups into canonical people.
type Reconciler struct {
	strategy Strategy
}

// Option is a function that configures a Reconciler.
type Option func(*Reconciler) error

// WithStrategy sets the conflict resolution strategy.
func WithStrategy(strategy Strategy) Option {
	return func(r *Reconciler) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		r.strategy = strategy
		return nil
	}
}

// WithAuthorities sets the field authorities, replacing the strategy
// with an authority-based one.
func WithAuthorities(authorities authority.Authority) Option {
	return func(r *Reconciler) error {
		if authorities == nil {
			return &errors.ValidationError{
				Field:   "authorities",
				Message: "cannot be nil",
			}
		}
		r.strategy = NewAuthorityStrategy(authorities)
		return nil
	}
}

// New creates a Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	r := &Reconciler{
		strategy: NewAuthorityStrategy(authority.New()),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Person merges one identity group into one canonical person.
func (r *Reconciler) Person(group identity.Group) canon.Person {
	person := canon.Person{
		ID:      group.PersonID,
		Devices: canon.NewDeviceSet(),
		Sources: canon.NewTagSet(),
	}

	// Candidate value per source: the first non-empty value each source
	// contributed, in the group's priority order.
	for _, field := range scalarFields {
		values := make(map[canon.SourceTag]string, 2)
		for _, record := range group.Records {
			if _, seen := values[record.Source]; seen {
				continue
			}
			if value := field.get(record); value != "" {
				values[record.Source] = value
			}
		}
		if len(values) == 0 {
			continue
		}
		value, _, _ := r.strategy.ResolveConflict(field.name, values)
		field.set(&person, value)
	}

	for _, record := range group.Records {
		person.Devices.Union(record.Devices)
		person.Sources.Add(record.Source)
	}

	return person
}

// People merges every group of a resolution into canonical people,
// preserving the resolution's deterministic group order.
func (r *Reconciler) People(groups []identity.Group) []canon.Person {
	people := make([]canon.Person, 0, len(groups))
	for _, group := range groups {
		people = append(people, r.Person(group))
	}
	return people
}
