package seed

import (
	"context"

	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	"user-service/internal/usecase/user"
)

// sampleUsers are the development fixtures loaded on first start.
var sampleUsers = []domain.User{
	{
		Username:    "johndoe",
		Email:       "john.doe@example.com",
		FirstName:   "John",
		LastName:    "Doe",
		PhoneNumber: "+1234567890",
		IsActive:    true,
	},
	{
		Username:    "jansmith",
		Email:       "jane.smith@example.com",
		FirstName:   "Jane",
		LastName:    "Smith",
		PhoneNumber: "+9876543210",
		IsActive:    true,
	},
	{
		Username:    "bobwilson",
		Email:       "bob.wilson@example.com",
		FirstName:   "Bob",
		LastName:    "Wilson",
		PhoneNumber: "+5555555555",
		IsActive:    false,
	},
}

// Run inserts the sample users when the store is empty. A store that
// already holds any user is left untouched, so restarts are safe.
func Run(ctx context.Context, repo user.Repository, log *zap.Logger) error {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Debug("seed skipped, store not empty", zap.Int("existing_users", len(existing)))
		return nil
	}

	for i := range sampleUsers {
		u := sampleUsers[i]
		saved, err := repo.Save(ctx, &u)
		if err != nil {
			return err
		}
		log.Info("seeded user", zap.Int64("id", saved.ID), zap.String("username", saved.Username))
	}

	log.Info("seed completed", zap.Int("count", len(sampleUsers)))
	return nil
}
