package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-service/internal/adapter/cache"
	domain "user-service/internal/domain/user"
	"user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Single-record reads go through the cache; listings, searches, and
// existence checks always hit the database.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		// Only one request hits the database
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Absent users are not cached; the next lookup re-checks the store
		if r.cache != nil && u != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return cloneUser(result.(*domain.User)), nil
}

// GetByUsername retrieves a user by username using Cache-Aside pattern
// over the cache's username index.
func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.GetByUsername(ctx, username)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("username", username), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	key := "user:username:" + username
	result, err, _ := r.group.Do(key, func() (any, error) {
		if r.cache != nil {
			cachedUser, err := r.cache.GetByUsername(ctx, username)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}

		if r.cache != nil && u != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("username", username), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return cloneUser(result.(*domain.User)), nil
}

// cloneUser returns an independent copy so a caller mutating its
// result cannot reach the value other waiters of the same flight got.
func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Save writes the user to DB and invalidates the cache entry.
func (r *CachedUserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	saved, err := r.dbRepo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	// Invalidate rather than refresh; the next read repopulates
	if r.cache != nil {
		if err := r.cache.Delete(ctx, saved.ID); err != nil {
			r.log.Warn("failed to invalidate cache after save", zap.Int64("id", saved.ID), zap.Error(err))
		}
	}

	return saved, nil
}

// Delete deletes the user from DB and invalidates the cache entry.
func (r *CachedUserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

// ExistsByUsername delegates to the DB repository.
func (r *CachedUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.dbRepo.ExistsByUsername(ctx, username)
}

// ExistsByEmail delegates to the DB repository.
func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.dbRepo.ExistsByEmail(ctx, email)
}

// ListAll delegates to the DB repository.
func (r *CachedUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.ListAll(ctx)
}

// ListActive delegates to the DB repository.
func (r *CachedUserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.ListActive(ctx)
}

// SearchByName delegates to the DB repository.
func (r *CachedUserRepository) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	return r.dbRepo.SearchByName(ctx, name)
}

// ListPage delegates to the DB repository.
func (r *CachedUserRepository) ListPage(ctx context.Context, q domain.PageQuery) ([]domain.User, int64, error) {
	return r.dbRepo.ListPage(ctx, q)
}
