// Package identity groups normalized source records into canonical
// identity groups. Matching is multi-key (external id, then email, then
// phone) and transitive: if A matches B by email and B matches C by
// phone, all three form one group. Grouping is implemented as union-find
// over record indices, so resolution is near-linear and independent of
// input order.
package identity

import (
	"sort"

	"github.com/google/uuid"

	"github.com/agentstation/unify/pkg/authority"
	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/sources"
)

// personNamespace is the UUID namespace for synthesized person ids.
// Fixed so synthesis is deterministic across runs.
var personNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("unify.person"))

// Group is a set of source records determined to represent one person,
// together with the canonical person id assigned to the group.
type Group struct {
	// PersonID is the group's canonical external id: the id carried by
	// the group's highest-priority source, or a synthesized id when no
	// record carries one.
	PersonID string

	// Synthesized reports whether PersonID was generated rather than
	// taken from a source record.
	Synthesized bool

	// Records holds the group's members ordered by source priority
	// (highest first), then by source position.
	Records []sources.Record
}

// Rejection is a record the resolver refused to assign to any group.
type Rejection struct {
	Record sources.Record
	Err    error
}

// Resolution is the outcome of identity resolution over one batch.
type Resolution struct {
	Groups   []Group
	Rejected []Rejection
}

// Resolver partitions normalized records into identity groups.
type Resolver struct {
	order []canon.SourceTag
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOrder overrides the source priority order used for record
// ordering and canonical id election.
func WithOrder(order []canon.SourceTag) Option {
	return func(r *Resolver) {
		if len(order) > 0 {
			r.order = order
		}
	}
}

// NewResolver creates a Resolver with the standard source priority.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{order: authority.New().Order()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// priority returns the rank of a source tag; lower is higher priority.
func (r *Resolver) priority(tag canon.SourceTag) int {
	for i, t := range r.order {
		if t == tag {
			return i
		}
	}
	return len(r.order)
}

// Resolve partitions records into identity groups. Records whose keys
// would bridge two groups already carrying different non-empty person
// ids are rejected, never silently assigned to either group.
func (r *Resolver) Resolve(records []sources.Record) *Resolution {
	// Stable processing order: source priority first, then source
	// position. This makes rejection decisions deterministic even when
	// callers concatenate per-source slices in arbitrary order.
	ordered := make([]sources.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := r.priority(ordered[i].Source), r.priority(ordered[j].Source)
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Index < ordered[j].Index
	})

	uf := newUnionFind(len(ordered))
	groupID := make(map[int]string) // root -> non-empty canonical id
	byKey := make(map[string]int)   // candidate key -> member node

	resolution := &Resolution{}

	accepted := make([]bool, len(ordered))
	for i, record := range ordered {
		keys := record.Keys()

		// Roots of every existing group this record matches.
		rootSet := make(map[int]bool)
		for _, key := range keys {
			if node, ok := byKey[key]; ok {
				rootSet[uf.find(node)] = true
			}
		}

		// Distinct non-empty ids across the record and matched groups.
		ids := make([]string, 0, 2)
		addID := func(id string) {
			if id == "" {
				return
			}
			for _, seen := range ids {
				if seen == id {
					return
				}
			}
			ids = append(ids, id)
		}
		addID(record.PersonID)
		for root := range rootSet {
			addID(groupID[root])
		}

		if len(ids) > 1 {
			resolution.Rejected = append(resolution.Rejected, Rejection{
				Record: record,
				Err: errors.NewAmbiguousIdentityError(
					string(record.Source), record.Index, ids[0], ids[1]),
			})
			continue
		}

		accepted[i] = true
		for root := range rootSet {
			uf.union(i, root)
		}
		root := uf.find(i)
		if len(ids) == 1 {
			groupID[root] = ids[0]
		}
		for _, key := range keys {
			byKey[key] = i
		}
	}

	// Collect members per root, preserving the priority ordering.
	members := make(map[int][]sources.Record)
	for i, record := range ordered {
		if !accepted[i] {
			continue
		}
		root := uf.find(i)
		members[root] = append(members[root], record)
	}

	for root, recs := range members {
		group := Group{Records: recs}
		if id := groupID[root]; id != "" {
			group.PersonID = id
		} else {
			// No record in the group carries an id: synthesize one
			// deterministically from the lowest-priority record available.
			group.PersonID = synthesizeID(recs[len(recs)-1])
			group.Synthesized = true
		}
		resolution.Groups = append(resolution.Groups, group)
	}

	sort.Slice(resolution.Groups, func(i, j int) bool {
		return resolution.Groups[i].PersonID < resolution.Groups[j].PersonID
	})

	return resolution
}

// synthesizeID derives a stable person id from a record's best secondary
// key. UUIDv5 over a fixed namespace keeps synthesis deterministic
// across runs and collision-free against padded numeric ids.
func synthesizeID(record sources.Record) string {
	key := record.Email
	if key == "" {
		key = record.Phone
	}
	if key == "" {
		key = "name:" + record.FirstName + " " + record.LastName
	}
	return uuid.NewSHA1(personNamespace, []byte(key)).String()
}
