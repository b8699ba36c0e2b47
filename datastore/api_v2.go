package datastore

import "context"

// UserStoreV2 is the context-aware counterpart of UserStore, implemented by backends whose
// operations can fail for reasons outside the data itself (a closed database, a cancelled
// context). A missing record is still reported through the boolean result and never as an error.
type UserStoreV2 interface {
	// Add allocates the next ID and stores a new User with the given name and email.
	Add(ctx context.Context, name, email string) (User, error)

	// FindByID returns the User with the given ID and true, or false if there is none.
	FindByID(ctx context.Context, id int64) (User, bool, error)

	// DeleteByID removes the User with the given ID and reports whether one was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// List returns a copy of all Users in insertion order.
	List(ctx context.Context) ([]User, error)
}

type memoryUserStoreV2 struct {
	store *MemoryUserStore
}

// memoryUserStoreV2 implements UserStoreV2 interface.
var _ UserStoreV2 = &memoryUserStoreV2{}

// NewMemoryUserStoreV2 exposes a MemoryUserStore through the UserStoreV2 interface.
// A nil store is replaced with a new, empty one.
func NewMemoryUserStoreV2(store *MemoryUserStore) UserStoreV2 {
	if store == nil {
		store = NewMemoryUserStore()
	}

	return &memoryUserStoreV2{store: store}
}

func (s *memoryUserStoreV2) Add(ctx context.Context, name, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	return s.store.Add(name, email), nil
}

func (s *memoryUserStoreV2) FindByID(ctx context.Context, id int64) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	record, found := s.store.FindByID(id)

	return record, found, nil
}

func (s *memoryUserStoreV2) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return s.store.DeleteByID(id), nil
}

func (s *memoryUserStoreV2) List(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.store.List(), nil
}
