package datastore

// User is a single record held by a user store. The ID is assigned by the store when the
// record is added; Name and Email are opaque and stored exactly as given.
type User struct {
	ID    int64  `json:"id" yaml:"id" toml:"id"`
	Name  string `json:"name" yaml:"name" toml:"name"`
	Email string `json:"email" yaml:"email" toml:"email"`
}

// Clone returns a copy of the User.
func (u User) Clone() User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// Key returns the primary key of the User.
func (u User) Key() int64 {
	return u.ID
}
