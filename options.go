package unify

import (
	"github.com/agentstation/unify/internal/storage/sqlite"
	"github.com/agentstation/unify/pkg/authority"
	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
)

// Option is a function that configures a Unify instance.
type Option func(*config) error

// config holds construction-time settings.
type config struct {
	store       *sqlite.Store
	dbPath      string
	authorities authority.Authority
	order       []canon.SourceTag
}

// WithStore configures an already opened canonical store. The caller
// keeps ownership: Close does not close it.
func WithStore(store *sqlite.Store) Option {
	return func(c *config) error {
		if store == nil {
			return errors.NewValidationError("store", nil, "cannot be nil")
		}
		c.store = store
		return nil
	}
}

// WithDBPath configures the SQLite path to open the canonical store at.
func WithDBPath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewValidationError("path", path, "cannot be empty")
		}
		c.dbPath = path
		return nil
	}
}

// WithAuthorities overrides the field authorities used for conflict
// resolution.
func WithAuthorities(authorities authority.Authority) Option {
	return func(c *config) error {
		if authorities == nil {
			return errors.NewValidationError("authorities", nil, "cannot be nil")
		}
		c.authorities = authorities
		return nil
	}
}

// WithSourceOrder overrides the source priority order used for identity
// resolution and field reconciliation.
func WithSourceOrder(order []canon.SourceTag) Option {
	return func(c *config) error {
		if len(order) == 0 {
			return errors.NewValidationError("order", order, "cannot be empty")
		}
		c.order = order
		return nil
	}
}
