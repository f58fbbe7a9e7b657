package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-service/pkg/errors"

	"user-service/internal/usecase/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Field validation happens in the usecase so every invalid input produces
// the same error shape regardless of transport.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Pointer fields keep an absent key distinguishable from an explicit
// zero value: absent fields are left unchanged.
type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	IsActive    *bool   `json:"isActive"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PagedUsersResponse represents the HTTP response for a paginated listing
type PagedUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int64 `json:"totalPages"`
}

// ErrorResponse represents an error response. Validation failures
// additionally enumerate the invalid fields in Errors.
type ErrorResponse struct {
	Status    int                    `json:"status"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Errors    []apperrors.FieldError `json:"errors,omitempty"`
}

func newErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toHTTPUser(resp))
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUser(resp))
}

// GetUserByUsername handles GET /api/users/username/:username
func (h *UserHandler) GetUserByUsername(c *gin.Context) {
	username := c.Param("username")

	resp, err := h.uc.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUser(resp))
}

// ListUsers handles GET /api/users.
// A non-blank search term wins over the active filter; the active filter
// wins over the plain listing. Exactly one mode runs per request.
func (h *UserHandler) ListUsers(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	// ParseBool accepts true/TRUE/True/1; anything else means no filter
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	var (
		users []user.UserResponse
		err   error
	)
	switch {
	case search != "":
		users, err = h.uc.SearchUsersByName(c.Request.Context(), search)
	case activeOnly:
		users, err = h.uc.ListActiveUsers(c.Request.Context())
	default:
		users, err = h.uc.ListAllUsers(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUsers(users))
}

// ListUsersPage handles GET /api/users/pageable
func (h *UserHandler) ListUsersPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}

	resp, err := h.uc.ListUsersPage(c.Request.Context(), user.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  c.DefaultQuery("sortBy", "id"),
		SortDir: c.DefaultQuery("sortDir", "asc"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PagedUsersResponse{
		Users: toHTTPUsers(resp.Users),
		Pagination: Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Size:       resp.Pagination.Size,
			TotalPages: resp.Pagination.TotalPages,
		},
	})
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request body", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), id, user.UpdateUserRequest{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUser(resp))
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeactivateUser handles PATCH /api/users/:id/deactivate
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeactivateUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUser(resp))
}

// ActivateUser handles PATCH /api/users/:id/activate
func (h *UserHandler) ActivateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.ActivateUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHTTPUser(resp))
}

// parseID extracts the :id path parameter as a positive integer.
// On failure it writes the 400 response and returns ok=false.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("invalid user id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, "User ID must be a positive number"))
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses using the
// status carried by the typed error.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status := statuser.HTTPStatus()
		if status >= http.StatusInternalServerError {
			h.log.Error("request failed", zap.Error(err))
		} else {
			h.log.Warn("request rejected", zap.Error(err))
		}

		resp := newErrorResponse(status, err.Error())
		var validation *apperrors.ValidationError
		if errors.As(err, &validation) {
			resp.Errors = validation.Fields
		}
		c.JSON(status, resp)
		return
	}

	h.log.Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, newErrorResponse(
		http.StatusInternalServerError,
		"An unexpected error occurred: "+err.Error(),
	))
}

func toHTTPUser(u *user.UserResponse) UserResponse {
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

func toHTTPUsers(users []user.UserResponse) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toHTTPUser(&users[i])
	}
	return out
}
