package user

import "time"

// CreateUserRequest represents the payload for creating a new user.
type CreateUserRequest struct {
	Username    string `validate:"required,min=3,max=50"`
	Email       string `validate:"required,email"`
	FirstName   string `validate:"omitempty,max=100"`
	LastName    string `validate:"omitempty,max=100"`
	PhoneNumber string `validate:"omitempty,max=20"`
}

// UpdateUserRequest represents the payload for updating an existing user.
// Fields are pointers so that an absent field and a field explicitly set
// to its zero value stay distinguishable: nil means "leave unchanged".
type UpdateUserRequest struct {
	Username    *string `validate:"omitempty,min=3,max=50"`
	Email       *string `validate:"omitempty,email"`
	FirstName   *string `validate:"omitempty,max=100"`
	LastName    *string `validate:"omitempty,max=100"`
	PhoneNumber *string `validate:"omitempty,max=20"`
	IsActive    *bool
}

// UserResponse represents the payload returned for a single user.
type UserResponse struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PageRequest represents the payload for a paginated listing.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// PagedUsersResponse represents one page of users plus page metadata.
type PagedUsersResponse struct {
	Users      []UserResponse
	Pagination Pagination
}

// Pagination represents pagination information for page responses.
type Pagination struct {
	Total      int64
	Page       int
	Size       int
	TotalPages int64
}
