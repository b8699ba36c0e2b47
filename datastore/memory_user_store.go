package datastore

import (
	"sync"
)

// MemoryUserStore is an in-memory implementation of the UserStore interface.
//
// The zero value is ready to use. IDs start at 1 and are never reused, even after the
// record holding them is deleted.
type MemoryUserStore struct {
	mu      sync.RWMutex
	Records []User `json:"records"`
	NextID  int64  `json:"nextId"`
}

// MemoryUserStore implements UserStore interface.
var _ UserStore = &MemoryUserStore{}

// NewMemoryUserStore creates a new, empty MemoryUserStore instance.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{Records: []User{}, NextID: 1}
}

// Add stamps a new User with the next ID, appends it to the store and returns a copy.
func (s *MemoryUserStore) Add(name, email string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.NextID < 1 {
		s.NextID = 1
	}

	record := User{
		ID:    s.NextID,
		Name:  name,
		Email: email,
	}
	s.Records = append(s.Records, record)
	s.NextID++

	return record.Clone()
}

// FindByID returns a copy of the User with the provided ID.
// If no such record exists, it returns an empty User and false.
func (s *MemoryUserStore) FindByID(id int64) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return User{}, false
	}

	return s.Records[idx].Clone(), true
}

// DeleteByID deletes the User with the provided ID, keeping the order of the remaining records.
// It returns false if no such record exists.
func (s *MemoryUserStore) DeleteByID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return false
	}
	s.Records = append(s.Records[:idx], s.Records[idx+1:]...)

	return true
}

// List returns a copy of all Users in the store, in the order they were added.
func (s *MemoryUserStore) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]User, 0, len(s.Records))
	for _, record := range s.Records {
		records = append(records, record.Clone())
	}

	return records
}

// indexOf returns the index of the record with the provided ID, or -1 if no such record exists.
func (s *MemoryUserStore) indexOf(id int64) int {
	for i, record := range s.Records {
		if record.Key() == id {
			return i
		}
	}

	return -1
}
