package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "user-service/internal/domain/user"
	apperrors "user-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) ListPage(ctx context.Context, q domain.PageQuery) ([]domain.User, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Test helper to build a service with a mock repo
func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, logger)
	return svc, mockRepo
}

func validCreateRequest() CreateUserRequest {
	return CreateUserRequest{
		Username:    "johndoe",
		Email:       "john@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
	}
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()

	mockRepo.On("ExistsByUsername", ctx, req.Username).Return(false, nil)
	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(false, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 0 && u.Username == req.Username && u.Email == req.Email && u.IsActive
	})).Return(&domain.User{
		ID:          1,
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.True(t, resp.IsActive)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_UsernameAlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()

	mockRepo.On("ExistsByUsername", ctx, req.Username).Return(true, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var exists *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)
	assert.Equal(t, "username", exists.Field)
	assert.Equal(t, req.Username, exists.Value)

	// Email was never checked, username conflict wins
	mockRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_EmailAlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()

	mockRepo.On("ExistsByUsername", ctx, req.Username).Return(false, nil)
	mockRepo.On("ExistsByEmail", ctx, req.Email).Return(true, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var exists *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)
	assert.Equal(t, "email", exists.Field)
	assert.Contains(t, err.Error(), "User with email 'john@example.com' already exists")

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_UsernameRequired(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Username = ""

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Username is required")
}

func TestCreateUser_ValidationError_UsernameTooShort(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Username = "jo"

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Username must be at least 3 characters")
}

func TestCreateUser_ValidationError_EmailInvalid(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Email = "invalid-email"

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestCreateUser_ValidationError_EnumeratesFields(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Username = "jo"
	req.Email = "invalid-email"

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Fields, 2)
	assert.Equal(t, "username", validation.Fields[0].Field)
	assert.Contains(t, validation.Fields[0].Message, "at least 3 characters")
	assert.Equal(t, "email", validation.Fields[1].Field)
	assert.Contains(t, validation.Fields[1].Message, "valid email")
}

// ==================== GET USER TESTS ====================

func TestGetUserByID_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	expected := &domain.User{ID: 1, Username: "johndoe", Email: "john@example.com", IsActive: true}
	mockRepo.On("GetByID", ctx, int64(1)).Return(expected, nil)

	resp, err := svc.GetUserByID(ctx, 1)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, expected.ID, resp.ID)
	assert.Equal(t, expected.Username, resp.Username)
	assert.Equal(t, expected.Email, resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	resp, err := svc.GetUserByID(ctx, 42)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "User not found with id: 42")
}

func TestGetUserByUsername_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	expected := &domain.User{ID: 1, Username: "johndoe", Email: "john@example.com"}
	mockRepo.On("GetByUsername", ctx, "johndoe").Return(expected, nil)

	resp, err := svc.GetUserByUsername(ctx, "johndoe")

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "johndoe", resp.Username)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	resp, err := svc.GetUserByUsername(ctx, "ghost")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "User with username 'ghost' not found")
}

// ==================== LIST / SEARCH TESTS ====================

func TestListAllUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{
		{ID: 1, Username: "johndoe"},
		{ID: 2, Username: "jansmith"},
	}
	mockRepo.On("ListAll", ctx).Return(users, nil)

	resp, err := svc.ListAllUsers(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(1), resp[0].ID)
	assert.Equal(t, int64(2), resp[1].ID)
}

func TestListActiveUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{{ID: 1, Username: "johndoe", IsActive: true}}
	mockRepo.On("ListActive", ctx).Return(users, nil)

	resp, err := svc.ListActiveUsers(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.True(t, resp[0].IsActive)
}

func TestSearchUsersByName_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{{ID: 1, FirstName: "John", LastName: "Doe"}}
	mockRepo.On("SearchByName", ctx, "john").Return(users, nil)

	resp, err := svc.SearchUsersByName(ctx, "john")

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
}

func TestSearchUsersByName_InvalidQuery(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.SearchUsersByName(ctx, "john; DROP TABLE users")

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)

	mockRepo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
}

// ==================== PAGINATION TESTS ====================

func TestListUsersPage_Defaults(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{{ID: 1}, {ID: 2}}
	mockRepo.On("ListPage", ctx, domain.PageQuery{
		Page:    0,
		Size:    10,
		SortBy:  "id",
		SortDir: domain.SortAsc,
	}).Return(users, int64(2), nil)

	resp, err := svc.ListUsersPage(ctx, PageRequest{})

	assert.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	assert.Equal(t, 0, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Size)
	assert.Equal(t, int64(1), resp.Pagination.TotalPages)

	mockRepo.AssertExpectations(t)
}

func TestListUsersPage_TotalPagesRoundsUp(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{{ID: 1}, {ID: 2}}
	mockRepo.On("ListPage", ctx, domain.PageQuery{
		Page:    0,
		Size:    2,
		SortBy:  "id",
		SortDir: domain.SortAsc,
	}).Return(users, int64(3), nil)

	resp, err := svc.ListUsersPage(ctx, PageRequest{Page: 0, Size: 2})

	assert.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, int64(2), resp.Pagination.TotalPages)
}

func TestListUsersPage_SizeCapped(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("ListPage", ctx, mock.MatchedBy(func(q domain.PageQuery) bool {
		return q.Size == 100
	})).Return([]domain.User{}, int64(0), nil)

	_, err := svc.ListUsersPage(ctx, PageRequest{Size: 5000})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	current := &domain.User{ID: 1, Username: "johndoe", Email: "john@example.com", IsActive: true}
	username := "johnny"
	email := "johnny@example.com"
	req := UpdateUserRequest{Username: &username, Email: &email}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("ExistsByUsername", ctx, "johnny").Return(false, nil)
	mockRepo.On("ExistsByEmail", ctx, "johnny@example.com").Return(false, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Username == "johnny" && u.Email == "johnny@example.com"
	})).Return(&domain.User{ID: 1, Username: "johnny", Email: "johnny@example.com", IsActive: true}, nil)

	resp, err := svc.UpdateUser(ctx, 1, req)

	assert.NoError(t, err)
	assert.Equal(t, "johnny", resp.Username)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	resp, err := svc.UpdateUser(ctx, 42, UpdateUserRequest{})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateUser_UnchangedUsernameSkipsCheck(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	current := &domain.User{ID: 1, Username: "johndoe", Email: "john@example.com"}
	username := "johndoe" // same value as stored
	first := "Johnny"
	req := UpdateUserRequest{Username: &username, FirstName: &first}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("Save", ctx, mock.Anything).Return(current, nil)

	_, err := svc.UpdateUser(ctx, 1, req)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
}

func TestUpdateUser_UsernameTakenByAnother(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	current := &domain.User{ID: 1, Username: "johndoe", Email: "john@example.com"}
	username := "jansmith"
	req := UpdateUserRequest{Username: &username}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("ExistsByUsername", ctx, "jansmith").Return(true, nil)

	resp, err := svc.UpdateUser(ctx, 1, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var exists *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)
	assert.Equal(t, "username", exists.Field)
}

func TestUpdateUser_PartialUpdateLeavesOtherFields(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	current := &domain.User{
		ID:        1,
		Username:  "johndoe",
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		IsActive:  true,
	}
	first := "Johnny"
	req := UpdateUserRequest{FirstName: &first}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.FirstName == "Johnny" && u.Username == "johndoe" && u.LastName == "Doe"
	})).Return(current, nil)

	_, err := svc.UpdateUser(ctx, 1, req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil)
	mockRepo.On("Delete", ctx, int64(1)).Return(nil)

	err := svc.DeleteUser(ctx, 1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	err := svc.DeleteUser(ctx, 42)

	assert.Error(t, err)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ==================== ACTIVATE / DEACTIVATE TESTS ====================

func TestDeactivateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	current := &domain.User{ID: 1, Username: "johndoe", IsActive: true}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && !u.IsActive
	})).Return(&domain.User{ID: 1, Username: "johndoe", IsActive: false}, nil)

	resp, err := svc.DeactivateUser(ctx, 1)

	assert.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestActivateUser_AlreadyActive(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	// Activation is unconditional, an already active user is saved again
	current := &domain.User{ID: 1, Username: "johndoe", IsActive: true}

	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.IsActive
	})).Return(current, nil)

	resp, err := svc.ActivateUser(ctx, 1)

	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestActivateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

	resp, err := svc.ActivateUser(ctx, 42)

	assert.Error(t, err)
	assert.Nil(t, resp)
}

// ==================== REPOSITORY FAILURE PROPAGATION ====================

func TestCreateUser_RepoFailurePropagates(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	storeErr := errors.New("connection refused")

	mockRepo.On("ExistsByUsername", ctx, req.Username).Return(false, storeErr)

	resp, err := svc.CreateUser(ctx, req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, storeErr)
}
