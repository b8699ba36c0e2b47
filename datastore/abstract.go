package datastore

// Cloneable provides a Clone() method which returns a copy of the type.
type Cloneable[R any] interface {
	// Clone() returns a copy of the type. Modifying the copy must not affect the original.
	Clone() R
}

// PrimaryKeyHolder is an interface for types that can provide a unique identifier key for themselves.
type PrimaryKeyHolder[K comparable] interface {
	// Key() returns the primary key for the implementing type.
	Key() K
}

// UniqueRecord represents a data entry that is both Cloneable and uniquely identifiable by its primary key.
type UniqueRecord[K comparable, R any] interface {
	Cloneable[R]
	PrimaryKeyHolder[K]
}

// User implements UniqueRecord.
var _ UniqueRecord[int64, User] = User{}

// Lister provides a List() method which is used to read the entire data set of a Store.
type Lister[R any] interface {
	// List() returns a slice of records representing the entire data set, in insertion order.
	// The returned slice will be a newly allocated slice (not a reference to an existing one),
	// and modifying it must not affect the underlying data.
	List() []R
}

// Finder provides a FindByID() method which is used to complete a read by key query from a Store.
type Finder[K comparable, R UniqueRecord[K, R]] interface {
	// FindByID() returns the record with the given key and true, or the zero record and false
	// if no such record exists. Absence is not an error.
	FindByID(K) (R, bool)
}

// UserStore is an interface that represents an ordered set of User records whose IDs are
// assigned by the store.
type UserStore interface {
	Lister[User]
	Finder[int64, User]

	// Add allocates the next ID, appends a new User with the given name and email and returns a
	// copy of it. Add never fails.
	Add(name, email string) User

	// DeleteByID removes the User with the given ID and reports whether one was removed. The
	// ID is never handed out again.
	DeleteByID(id int64) bool
}
