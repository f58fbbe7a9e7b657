package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/security"

	"github.com/go-playground/validator/v10"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (plain database, cached) to be used interchangeably.
// Finders return (nil, nil) when no matching user exists.
type Repository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
	SearchByName(ctx context.Context, name string) ([]domain.User, error)
	ListPage(ctx context.Context, q domain.PageQuery) ([]domain.User, int64, error)
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

var _ Usecase = (*Service)(nil)

// formatValidationError converts validator.ValidationErrors into a typed
// validation error carrying one entry per invalid field plus a combined
// human-readable message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		var fields []apperrors.FieldError
		for _, e := range validationErrors {
			var detail string
			switch e.Tag() {
			case "required":
				detail = "is required"
			case "email":
				detail = "must be a valid email"
			case "min":
				detail = fmt.Sprintf("must be at least %s characters", e.Param())
			case "max":
				detail = fmt.Sprintf("must be at most %s characters", e.Param())
			default:
				detail = "is invalid"
			}
			messages = append(messages, fmt.Sprintf("%s %s", e.Field(), detail))
			fields = append(fields, apperrors.FieldError{
				Field:   fieldName(e.Field()),
				Message: detail,
			})
		}
		return apperrors.NewFieldValidationError(strings.Join(messages, ", "), fields)
	}
	return err
}

// fieldName maps a struct field name to its wire spelling (lowerCamel).
func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// CreateUser creates a new user after validating the request and checking
// username and email uniqueness. The username check runs first, so when
// both values conflict the username is the one reported.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Debug("creating user", zap.String("username", in.Username), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		s.log.Error("failed to check username uniqueness", zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}
	if taken {
		s.log.Warn("username already exists", zap.String("username", in.Username))
		return nil, apperrors.NewAlreadyExistsError("user", "username", in.Username)
	}

	taken, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check email uniqueness", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if taken {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewAlreadyExistsError("user", "email", in.Email)
	}

	saved, err := s.repo.Save(ctx, ToEntity(in))
	if err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.log.Info("user created", zap.Int64("id", saved.ID))
	resp := ToResponse(saved)
	return &resp, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*UserResponse, error) {
	s.log.Debug("fetching user", zap.Int64("id", id))

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewUserNotFoundError(id)
	}

	resp := ToResponse(u)
	return &resp, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*UserResponse, error) {
	s.log.Debug("fetching user by username", zap.String("username", username))

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.log.Error("failed to get user by username", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewUsernameNotFoundError(username)
	}

	resp := ToResponse(u)
	return &resp, nil
}

// ListAllUsers retrieves all users in storage-natural order.
func (s *Service) ListAllUsers(ctx context.Context) ([]UserResponse, error) {
	s.log.Debug("fetching all users")

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	return toResponses(users), nil
}

// ListActiveUsers retrieves only active users.
func (s *Service) ListActiveUsers(ctx context.Context) ([]UserResponse, error) {
	s.log.Debug("fetching active users")

	users, err := s.repo.ListActive(ctx)
	if err != nil {
		s.log.Error("failed to list active users", zap.Error(err))
		return nil, err
	}

	return toResponses(users), nil
}

// SearchUsersByName retrieves users whose first or last name contains the
// given substring. The query is screened before it reaches the store.
func (s *Service) SearchUsersByName(ctx context.Context, name string) ([]UserResponse, error) {
	s.log.Debug("searching users by name", zap.String("name", name))

	query, err := security.ValidateSearchQuery(name)
	if err != nil {
		s.log.Warn("invalid search query", zap.String("name", name), zap.Error(err))
		return nil, apperrors.NewValidationError("search", err.Error())
	}

	users, err := s.repo.SearchByName(ctx, query)
	if err != nil {
		s.log.Error("failed to search users", zap.String("name", query), zap.Error(err))
		return nil, err
	}

	return toResponses(users), nil
}

// ListUsersPage retrieves one page of users plus page metadata.
// Page defaults to 0, size to 10 (capped at 100), sort to id ascending.
func (s *Service) ListUsersPage(ctx context.Context, in PageRequest) (*PagedUsersResponse, error) {
	if in.Page < 0 {
		in.Page = 0
	}
	if in.Size <= 0 {
		in.Size = 10
	}
	if in.Size > 100 {
		in.Size = 100
	}
	if in.SortBy == "" {
		in.SortBy = "id"
	}
	if !strings.EqualFold(in.SortDir, domain.SortDesc) {
		in.SortDir = domain.SortAsc
	} else {
		in.SortDir = domain.SortDesc
	}

	s.log.Debug("fetching users page",
		zap.Int("page", in.Page),
		zap.Int("size", in.Size),
		zap.String("sort_by", in.SortBy),
		zap.String("sort_dir", in.SortDir),
	)

	users, total, err := s.repo.ListPage(ctx, domain.PageQuery{
		Page:    in.Page,
		Size:    in.Size,
		SortBy:  in.SortBy,
		SortDir: in.SortDir,
	})
	if err != nil {
		s.log.Error("failed to list users page", zap.Int("page", in.Page), zap.Int("size", in.Size), zap.Error(err))
		return nil, err
	}

	p := domain.NewPagination(total, in.Page, in.Size)
	return &PagedUsersResponse{
		Users: toResponses(users),
		Pagination: Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Size:       p.Size,
			TotalPages: p.TotalPages,
		},
	}, nil
}

// UpdateUser applies a partial update to an existing user. Username and
// email are re-checked for uniqueness only when the request changes them
// to a value different from the current one.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (*UserResponse, error) {
	s.log.Debug("updating user", zap.Int64("id", id))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user for update", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewUserNotFoundError(id)
	}

	if in.Username != nil && *in.Username != u.Username {
		taken, err := s.repo.ExistsByUsername(ctx, *in.Username)
		if err != nil {
			s.log.Error("failed to check username uniqueness", zap.String("username", *in.Username), zap.Error(err))
			return nil, err
		}
		if taken {
			s.log.Warn("username already exists", zap.String("username", *in.Username))
			return nil, apperrors.NewAlreadyExistsError("user", "username", *in.Username)
		}
	}

	if in.Email != nil && *in.Email != u.Email {
		taken, err := s.repo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			s.log.Error("failed to check email uniqueness", zap.String("email", *in.Email), zap.Error(err))
			return nil, err
		}
		if taken {
			s.log.Warn("email already exists", zap.String("email", *in.Email))
			return nil, apperrors.NewAlreadyExistsError("user", "email", *in.Email)
		}
	}

	ApplyUpdate(u, in)

	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("user updated", zap.Int64("id", saved.ID))
	resp := ToResponse(saved)
	return &resp, nil
}

// DeleteUser removes a user after an existence pre-check.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	s.log.Debug("deleting user", zap.Int64("id", id))

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user for delete", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if u == nil {
		return apperrors.NewUserNotFoundError(id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.log.Info("user deleted", zap.Int64("id", id))
	return nil
}

// DeactivateUser sets the active flag to false. The transition is
// unconditional on an existing user.
func (s *Service) DeactivateUser(ctx context.Context, id int64) (*UserResponse, error) {
	return s.setActive(ctx, id, false)
}

// ActivateUser sets the active flag to true. The transition is
// unconditional on an existing user.
func (s *Service) ActivateUser(ctx context.Context, id int64) (*UserResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (*UserResponse, error) {
	s.log.Debug("setting user active flag", zap.Int64("id", id), zap.Bool("active", active))

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewUserNotFoundError(id)
	}

	u.IsActive = active

	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		s.log.Error("failed to save user active flag", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("user active flag updated", zap.Int64("id", saved.ID), zap.Bool("active", active))
	resp := ToResponse(saved)
	return &resp, nil
}

func toResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToResponse(&users[i])
	}
	return out
}
