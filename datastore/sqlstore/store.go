// Package sqlstore provides a UserStoreV2 backed by an in-process ramsql database.
//
// The database lives in memory only and is discarded when the Store is closed or the process
// exits. Every call to New creates an entirely separate database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/smartcontractkit/chainlink-user-manager/datastore"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// DriverName is the database/sql driver used by the store.
const DriverName = "ramsql"

// ErrClosed is returned by operations on a Store after Close.
var ErrClosed = errors.New("sql user store is closed")

// Store is a datastore.UserStoreV2 over database/sql.
//
// IDs are allocated in Go rather than by the database, so an ID released by DeleteByID is
// never handed out again.
type Store struct {
	mu     sync.Mutex
	db     *dbController
	nextID int64
	closed bool
}

// Store implements datastore.UserStoreV2 interface.
var _ datastore.UserStoreV2 = &Store{}

// New opens a fresh, uniquely named in-memory database and creates the users schema.
func New(ctx context.Context, lggr logger.Logger) (*Store, error) {
	name := "users_" + ksuid.New().String()

	db, err := sql.Open(DriverName, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	ctrl := newDbController(db, lggr.Named("sqlstore"))
	if err = ctrl.Fixture(ctx, sCHEMA_USERS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create users schema: %w", err)
	}

	return &Store{db: ctrl, nextID: 1}, nil
}

// Add inserts a new user with the next ID.
// The ID is only consumed if the insert succeeds.
func (s *Store) Add(ctx context.Context, name, email string) (datastore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return datastore.User{}, ErrClosed
	}

	record := datastore.User{ID: s.nextID, Name: name, Email: email}
	if _, err := s.db.ExecContext(ctx, query_ADD_USER, record.ID, record.Name, record.Email); err != nil {
		return datastore.User{}, fmt.Errorf("failed to insert user %d: %w", record.ID, err)
	}
	s.nextID++

	return record, nil
}

// FindByID returns the user with the provided ID, or false if there is none.
func (s *Store) FindByID(ctx context.Context, id int64) (datastore.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return datastore.User{}, false, ErrClosed
	}

	return s.findByID(ctx, id)
}

// DeleteByID removes the user with the provided ID and reports whether one was removed.
func (s *Store) DeleteByID(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	_, found, err := s.findByID(ctx, id)
	if err != nil || !found {
		return false, err
	}

	if _, err = s.db.ExecContext(ctx, query_DELETE_USER, id); err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	return true, nil
}

// List returns all users ordered by ID, which is also the order they were added in.
func (s *Store) List(ctx context.Context) ([]datastore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query_ALL_USERS)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []datastore.User{}
	for rows.Next() {
		var u datastore.User
		if err = rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Close releases the database. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.db.Close()
}

func (s *Store) findByID(ctx context.Context, id int64) (datastore.User, bool, error) {
	rows, err := s.db.QueryContext(ctx, query_USER_BY_ID, id)
	if err != nil {
		return datastore.User{}, false, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return datastore.User{}, false, rows.Err()
	}

	var u datastore.User
	if err = rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return datastore.User{}, false, fmt.Errorf("failed to scan user %d: %w", id, err)
	}

	return u, true, nil
}
