package user

import (
	domain "user-service/internal/domain/user"
)

// ToEntity builds a new user entity from a create request.
// ID and timestamps are left unset; the storage layer assigns them.
// New users always start active.
func ToEntity(in CreateUserRequest) *domain.User {
	return &domain.User{
		Username:    in.Username,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		IsActive:    true,
	}
}

// ToResponse converts a user entity to its response representation.
func ToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ApplyUpdate overwrites entity fields that are present in the update
// request. Nil fields are left untouched.
func ApplyUpdate(u *domain.User, in UpdateUserRequest) {
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
}
