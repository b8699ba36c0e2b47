// Package session provides CLI commands that drive a user store for the lifetime of one
// invocation.
package session

import (
	"context"
	"fmt"

	"github.com/segmentio/ksuid"

	"github.com/smartcontractkit/chainlink-user-manager/datastore"
	"github.com/smartcontractkit/chainlink-user-manager/datastore/sqlstore"
	"github.com/smartcontractkit/chainlink-user-manager/internal/config"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// StoreOpenerFunc opens a fresh, empty user store for the named backend.
// The returned close function releases the store and must be called once the session ends.
type StoreOpenerFunc func(
	ctx context.Context,
	backend string,
	lggr logger.Logger,
) (datastore.UserStoreV2, func() error, error)

// ScriptLoaderFunc loads a script from a path.
type ScriptLoaderFunc func(path string) (*Script, error)

// SessionIDFunc returns a new unique session identifier.
type SessionIDFunc func() string

// defaultStoreOpener is the production implementation that opens the configured backend.
func defaultStoreOpener(
	ctx context.Context,
	backend string,
	lggr logger.Logger,
) (datastore.UserStoreV2, func() error, error) {
	switch backend {
	case config.BackendMemory:
		return datastore.NewMemoryUserStoreV2(nil), func() error { return nil }, nil
	case config.BackendSQL:
		store, err := sqlstore.New(ctx, lggr)
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, backend)
	}
}

// defaultSessionID returns a time ordered ksuid.
func defaultSessionID() string {
	return ksuid.New().String()
}

// Deps holds the injectable dependencies for session commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// StoreOpener opens the user store for a session.
	// Default: memory or sqlstore depending on the backend name
	StoreOpener StoreOpenerFunc

	// ScriptLoader loads the script executed by the run command.
	// Default: LoadScript
	ScriptLoader ScriptLoaderFunc

	// SessionID generates the identifier attached to logs and reports.
	// Default: ksuid
	SessionID SessionIDFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.StoreOpener == nil {
		d.StoreOpener = defaultStoreOpener
	}
	if d.ScriptLoader == nil {
		d.ScriptLoader = LoadScript
	}
	if d.SessionID == nil {
		d.SessionID = defaultSessionID
	}
}
