package unify

import (
	"fmt"
	"time"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/identity"
)

// Result represents the outcome of one ingestion batch.
type Result struct {
	// People written this batch.
	PeopleCreated int
	PeopleUpdated int

	// Dependent entities written this batch.
	TransactionsWritten int
	ItemsWritten        int
	TransfersWritten    int
	PromotionsWritten   int

	// Per-record rejections. None of these abort the batch.
	Malformed          []error
	RejectedIdentities []identity.Rejection
	RejectedDependents []RejectedDependent

	// Metadata
	Metadata ResultMetadata
}

// RejectedDependent is a dependent record whose person reference
// resolved to no canonical person.
type RejectedDependent struct {
	Entity    string // "transaction", "transfer", "promotion"
	EntityID  string
	Reference string
	Err       error
}

// ResultMetadata contains metadata about the ingestion batch.
type ResultMetadata struct {
	// StartTime when the batch started
	StartTime time.Time

	// EndTime when the batch completed
	EndTime time.Time

	// Duration of the batch
	Duration time.Duration

	// Sources that contributed person records
	Sources []canon.SourceTag

	// Statistics about the batch
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the ingestion batch.
type ResultStatistics struct {
	RecordsNormalized int
	GroupsResolved    int
	IDsSynthesized    int
	TotalTimeMs       int64
}

// Rejections returns the total number of per-record rejections.
func (r *Result) Rejections() int {
	return len(r.Malformed) + len(r.RejectedIdentities) + len(r.RejectedDependents)
}

// Summary returns a human-readable summary of the batch.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"Ingested %d people (%d created, %d updated), %d transactions, %d transfers, %d promotions; %d records rejected.",
		r.PeopleCreated+r.PeopleUpdated,
		r.PeopleCreated,
		r.PeopleUpdated,
		r.TransactionsWritten,
		r.TransfersWritten,
		r.PromotionsWritten,
		r.Rejections(),
	)
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Sources:   []canon.SourceTag{},
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}
