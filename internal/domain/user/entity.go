package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID          int64     // ID is the unique identifier, assigned by the store on creation
	Username    string    // Username is unique across all users
	Email       string    // Email is unique across all users
	FirstName   string    // FirstName is optional
	LastName    string    // LastName is optional
	PhoneNumber string    // PhoneNumber is optional
	IsActive    bool      // IsActive defaults to true at creation
	CreatedAt   time.Time // CreatedAt is set once at creation
	UpdatedAt   time.Time // UpdatedAt is refreshed on every mutation
}
