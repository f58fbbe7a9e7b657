package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "user-service/internal/domain/user"
)

func TestToEntity(t *testing.T) {
	in := CreateUserRequest{
		Username:    "johndoe",
		Email:       "john.doe@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
	}

	u := ToEntity(in)

	assert.Equal(t, in.Username, u.Username)
	assert.Equal(t, in.Email, u.Email)
	assert.Equal(t, in.FirstName, u.FirstName)
	assert.Equal(t, in.LastName, u.LastName)
	assert.Equal(t, in.PhoneNumber, u.PhoneNumber)
	assert.True(t, u.IsActive)
	assert.Zero(t, u.ID)
	assert.True(t, u.CreatedAt.IsZero())
	assert.True(t, u.UpdatedAt.IsZero())
}

func TestToResponse(t *testing.T) {
	now := time.Now()
	u := &domain.User{
		ID:          7,
		Username:    "johndoe",
		Email:       "john.doe@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
		IsActive:    false,
		CreatedAt:   now.Add(-time.Hour),
		UpdatedAt:   now,
	}

	resp := ToResponse(u)

	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, u.Username, resp.Username)
	assert.Equal(t, u.Email, resp.Email)
	assert.Equal(t, u.FirstName, resp.FirstName)
	assert.Equal(t, u.LastName, resp.LastName)
	assert.Equal(t, u.PhoneNumber, resp.PhoneNumber)
	assert.Equal(t, u.IsActive, resp.IsActive)
	assert.Equal(t, u.CreatedAt, resp.CreatedAt)
	assert.Equal(t, u.UpdatedAt, resp.UpdatedAt)
}

func TestApplyUpdate_AllFields(t *testing.T) {
	u := &domain.User{
		ID:          1,
		Username:    "johndoe",
		Email:       "john@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
		IsActive:    true,
	}

	username := "johnny"
	email := "johnny@example.com"
	first := "Johnny"
	last := "D"
	phone := "+1999999999"
	inactive := false

	ApplyUpdate(u, UpdateUserRequest{
		Username:    &username,
		Email:       &email,
		FirstName:   &first,
		LastName:    &last,
		PhoneNumber: &phone,
		IsActive:    &inactive,
	})

	assert.Equal(t, "johnny", u.Username)
	assert.Equal(t, "johnny@example.com", u.Email)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, "D", u.LastName)
	assert.Equal(t, "+1999999999", u.PhoneNumber)
	assert.False(t, u.IsActive)
}

func TestApplyUpdate_AbsentFieldsUntouched(t *testing.T) {
	u := &domain.User{
		ID:          1,
		Username:    "johndoe",
		Email:       "john@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
		IsActive:    true,
	}

	first := "Johnny"
	ApplyUpdate(u, UpdateUserRequest{FirstName: &first})

	assert.Equal(t, "johndoe", u.Username)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Equal(t, "+1234567890", u.PhoneNumber)
	assert.True(t, u.IsActive)
}

func TestApplyUpdate_ExplicitEmptyString(t *testing.T) {
	u := &domain.User{ID: 1, Username: "johndoe", PhoneNumber: "+1234567890"}

	empty := ""
	ApplyUpdate(u, UpdateUserRequest{PhoneNumber: &empty})

	// A present-but-empty field is an overwrite, not an omission
	assert.Equal(t, "", u.PhoneNumber)
	assert.Equal(t, "johndoe", u.Username)
}
