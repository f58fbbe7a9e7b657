package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (*UserResponse, error)
	GetUserByUsername(ctx context.Context, username string) (*UserResponse, error)
	ListAllUsers(ctx context.Context) ([]UserResponse, error)
	ListActiveUsers(ctx context.Context) ([]UserResponse, error)
	SearchUsersByName(ctx context.Context, name string) ([]UserResponse, error)
	ListUsersPage(ctx context.Context, in PageRequest) (*PagedUsersResponse, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
	DeactivateUser(ctx context.Context, id int64) (*UserResponse, error)
	ActivateUser(ctx context.Context, id int64) (*UserResponse, error)
}
