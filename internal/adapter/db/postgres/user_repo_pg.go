package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
	"user-service/pkg/security"
)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// The unique indexes on username and email are the authoritative guard
// for the uniqueness invariants; application-level existence checks are
// only the friendly fast path.
type UserSchema struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Username    string    `gorm:"size:50;not null;uniqueIndex"`
	Email       string    `gorm:"size:255;not null;uniqueIndex"`
	FirstName   string    `gorm:"size:100"`
	LastName    string    `gorm:"size:100"`
	PhoneNumber string    `gorm:"size:20"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// sortColumns whitelists the fields usable for pagination ordering.
// API names and column names are both accepted.
var sortColumns = map[string]string{
	"id":          "id",
	"username":    "username",
	"email":       "email",
	"firstName":   "first_name",
	"first_name":  "first_name",
	"lastName":    "last_name",
	"last_name":   "last_name",
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
	"isActive":    "is_active",
	"is_active":   "is_active",
	"phoneNumber": "phone_number",
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
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

func toEntity(m *UserSchema) *user.User {
	return &user.User{
		ID:          m.ID,
		Username:    m.Username,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toEntities(models []UserSchema) []user.User {
	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toEntity(&models[i])
	}
	return users
}

// ExistsByUsername reports whether any user holds the given username.
func (r *UserRepoPG) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("username = ?", username).Count(&count).Error; err != nil {
		r.log.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByEmail reports whether any user holds the given email.
func (r *UserRepoPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("email = ?", email).Count(&count).Error; err != nil {
		r.log.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetByID retrieves a user by their unique ID. Returns (nil, nil) when absent.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toEntity(&model), nil
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when absent.
func (r *UserRepoPG) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by username", zap.String("username", username))
			return nil, nil
		}
		r.log.Error("failed to get user by username from db", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return toEntity(&model), nil
}

// ListAll retrieves every user in storage-natural order.
func (r *UserRepoPG) ListAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return toEntities(models), nil
}

// ListActive retrieves only users with the active flag set.
func (r *UserRepoPG) ListActive(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		r.log.Error("failed to list active users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	return toEntities(models), nil
}

// SearchByName retrieves users whose first or last name contains the given
// substring. LIKE wildcards in the input are escaped so they match literally.
func (r *UserRepoPG) SearchByName(ctx context.Context, name string) ([]user.User, error) {
	pattern := "%" + security.SanitizeSearchString(name) + "%"

	var models []UserSchema
	if err := r.db.WithContext(ctx).
		Where("first_name LIKE ? ESCAPE '\\' OR last_name LIKE ? ESCAPE '\\'", pattern, pattern).
		Find(&models).Error; err != nil {
		r.log.Error("failed to search users from db", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return toEntities(models), nil
}

// ListPage retrieves one page of users plus the total record count.
// The sort field must be whitelisted; unknown fields fall back to id.
func (r *UserRepoPG) ListPage(ctx context.Context, q user.PageQuery) ([]user.User, int64, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		r.log.Warn("unknown sort field, falling back to id", zap.String("sort_by", q.SortBy))
		column = "id"
	}

	direction := "ASC"
	if q.SortDir == user.SortDesc {
		direction = "DESC"
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	if err := r.db.WithContext(ctx).
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list users page from db", zap.Error(err), zap.Int("page", q.Page), zap.Int("size", q.Size))
		return nil, 0, fmt.Errorf("failed to list users page: %w", err)
	}

	return toEntities(models), total, nil
}

// Save persists a user: insert when the ID is unset, update in place
// otherwise. The persisted entity, including store-assigned ID and
// timestamps, is returned.
func (r *UserRepoPG) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := toSchema(u)

	if model.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			r.log.Error("failed to create user in db", zap.Error(err), zap.String("username", u.Username))
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		r.log.Info("user created in db", zap.Int64("id", model.ID))
	} else {
		if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
			r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		r.log.Info("user updated in db", zap.Int64("id", model.ID))
	}

	return toEntity(&model), nil
}

// Delete removes a user from the database by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}
