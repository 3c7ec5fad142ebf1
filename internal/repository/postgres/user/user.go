package user

import (
	"context"

	"employee/backend/internal/entity"
	"employee/backend/internal/pkg/repository/postgresql"
	"employee/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByEmail returns postgres.ErrNotFound when no user has the email.
func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if mapped := postgres.MapError(err); errors.Is(mapped, postgres.ErrNotFound) {
			return entity.User{}, mapped
		}
		return entity.User{}, errors.Wrap(err, "selecting user by email")
	}

	return detail, nil
}

// Insert stores u and sets its id. A taken email yields
// postgres.ErrDuplicateEmail.
func (r Repository) Insert(ctx context.Context, u *entity.User) error {
	_, err := r.NewInsert().Model(u).Returning("id").Exec(ctx)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return postgres.ErrDuplicateEmail
		}
		return errors.Wrap(err, "creating user")
	}

	return nil
}
