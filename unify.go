// Package unify reconciles person, transaction, transfer, and promotion
// records arriving from structurally inconsistent sources into one
// canonical relational dataset. Raw records are normalized into a
// common schema, grouped into identities across sources, reconciled
// field by field, and written to the canonical store together with the
// dependent entities that reference people only by phone or email.
package unify

import (
	"context"
	"sync"

	"github.com/agentstation/unify/internal/storage/sqlite"
	"github.com/agentstation/unify/pkg/authority"
	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
	"github.com/agentstation/unify/pkg/identity"
	"github.com/agentstation/unify/pkg/logging"
	"github.com/agentstation/unify/pkg/normalize"
	"github.com/agentstation/unify/pkg/reconcile"
	"github.com/agentstation/unify/pkg/sources"
)

// Input is one batch of raw source records. Any field may be empty;
// empty sources simply contribute nothing.
type Input struct {
	ObjectListPeople []sources.ObjectListPerson
	FlatPeople       []sources.FlatPerson
	Transactions     []sources.RawTransaction
	Transfers        []sources.RawTransfer
	Promotions       []sources.RawPromotion
}

// Unify runs ingestion batches against a canonical store.
type Unify interface {
	// Ingest runs one batch: normalize, resolve identities, reconcile,
	// write people and devices, then link and write dependents. All
	// writes happen in a single store transaction; a fatal error rolls
	// the whole batch back.
	Ingest(ctx context.Context, input Input) (*Result, error)

	// Store returns the canonical store the instance writes to.
	Store() *sqlite.Store

	// Close releases the store if this instance opened it.
	Close() error
}

// unify is the internal implementation of the Unify interface.
type unify struct {
	store      *sqlite.Store
	ownStore   bool
	resolver   *identity.Resolver
	reconciler *reconcile.Reconciler
	order      []canon.SourceTag
}

// New creates a new Unify instance with the given options. Exactly one
// of WithStore or WithDBPath must be provided.
func New(opts ...Option) (Unify, error) {
	c := &config{
		authorities: authority.New(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.order == nil {
		c.order = c.authorities.Order()
	}

	u := &unify{
		store:    c.store,
		resolver: identity.NewResolver(identity.WithOrder(c.order)),
		order:    c.order,
	}

	reconciler, err := reconcile.New(reconcile.WithAuthorities(c.authorities))
	if err != nil {
		return nil, err
	}
	u.reconciler = reconciler

	if u.store == nil {
		if c.dbPath == "" {
			return nil, errors.NewValidationError("store", nil, "a store or db path is required")
		}
		store, err := sqlite.Open(c.dbPath)
		if err != nil {
			return nil, err
		}
		u.store = store
		u.ownStore = true
	}

	return u, nil
}

// Store returns the canonical store the instance writes to.
func (u *unify) Store() *sqlite.Store {
	return u.store
}

// Close releases the store if this instance opened it.
func (u *unify) Close() error {
	if !u.ownStore {
		return nil
	}
	return u.store.Close()
}

// Ingest runs one batch.
func (u *unify) Ingest(ctx context.Context, input Input) (*Result, error) {
	log := logging.Ctx(ctx)
	result := NewResult()
	defer result.Finalize()

	records := u.normalizeAll(input, result)
	log.Info().
		Int("records", len(records)).
		Int("malformed", len(result.Malformed)).
		Msg("Normalized sources")

	resolution := u.resolver.Resolve(records)
	result.RejectedIdentities = resolution.Rejected
	result.Metadata.Stats.GroupsResolved = len(resolution.Groups)
	for _, group := range resolution.Groups {
		if group.Synthesized {
			result.Metadata.Stats.IDsSynthesized++
		}
	}
	log.Info().
		Int("groups", len(resolution.Groups)).
		Int("rejected", len(resolution.Rejected)).
		Msg("Resolved identities")

	// A record bridging two conflicting person ids is a structural
	// error: the whole batch aborts before anything is written, unlike
	// malformed records and dangling references, which are per-record.
	if len(resolution.Rejected) > 0 {
		err := resolution.Rejected[0].Err
		log.Error().Err(err).
			Int("rejected", len(resolution.Rejected)).
			Msg("Batch aborted")
		return result, err
	}

	people := u.reconciler.People(resolution.Groups)

	batch, err := u.store.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer func() { _ = batch.Rollback() }()

	for _, person := range people {
		created, err := batch.UpsertPerson(ctx, person)
		if err != nil {
			log.Error().Err(err).Str("person_id", person.ID).Msg("Batch aborted")
			return result, err
		}
		if created {
			result.PeopleCreated++
		} else {
			result.PeopleUpdated++
		}
	}

	if err := u.linkDependents(ctx, batch, input, result); err != nil {
		log.Error().Err(err).Msg("Batch aborted")
		return result, err
	}

	if err := batch.Commit(); err != nil {
		return result, err
	}

	log.Info().Str("summary", result.Summary()).Msg("Batch committed")
	return result, nil
}

// normalizeAll runs both source normalizers concurrently. The sources
// share no mutable state; results merge only afterwards, keeping the
// resolver single-threaded over the unioned record set.
func (u *unify) normalizeAll(input Input, result *Result) []sources.Record {
	var (
		wg         sync.WaitGroup
		objectList []sources.Record
		flat       []sources.Record
		objectErrs []error
		flatErrs   []error
	)

	if len(input.ObjectListPeople) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			objectList, objectErrs = normalize.NewObjectList(input.ObjectListPeople).Normalize()
		}()
	}
	if len(input.FlatPeople) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flat, flatErrs = normalize.NewFlat(input.FlatPeople).Normalize()
		}()
	}
	wg.Wait()

	if len(objectList) > 0 {
		result.Metadata.Sources = append(result.Metadata.Sources, canon.SourceObjectList)
	}
	if len(flat) > 0 {
		result.Metadata.Sources = append(result.Metadata.Sources, canon.SourceFlat)
	}
	result.Malformed = append(result.Malformed, objectErrs...)
	result.Malformed = append(result.Malformed, flatErrs...)

	records := append(objectList, flat...)
	result.Metadata.Stats.RecordsNormalized = len(records)
	return records
}
