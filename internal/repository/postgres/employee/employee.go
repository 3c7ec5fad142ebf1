package employee

import (
	"context"

	"employee/backend/internal/entity"
	"employee/backend/internal/pkg/repository/postgresql"
	"employee/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

const table = "employees"

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.Employee, error) {
	list := make([]entity.Employee, 0)

	q := r.NewSelect().Model(&list).OrderExpr("id ASC")
	if filter.Department != nil {
		q.Where(`lower(department) LIKE ? ESCAPE '\'`, postgres.ContainsPattern(*filter.Department))
	}
	if filter.Position != nil {
		q.Where(`lower("position") LIKE ? ESCAPE '\'`, postgres.ContainsPattern(*filter.Position))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "selecting employees")
	}

	return list, nil
}

func (r Repository) GetByID(ctx context.Context, id int64) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if mapped := postgres.MapError(err); errors.Is(mapped, postgres.ErrNotFound) {
			return entity.Employee{}, mapped
		}
		return entity.Employee{}, errors.Wrap(err, "selecting employee detail")
	}

	return detail, nil
}

func (r Repository) GetByEmail(ctx context.Context, email string) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if mapped := postgres.MapError(err); errors.Is(mapped, postgres.ErrNotFound) {
			return entity.Employee{}, mapped
		}
		return entity.Employee{}, errors.Wrap(err, "selecting employee by email")
	}

	return detail, nil
}

// Insert stores e and sets its id. A taken email yields
// postgres.ErrDuplicateEmail.
func (r Repository) Insert(ctx context.Context, e *entity.Employee) error {
	_, err := r.NewInsert().Model(e).Returning("id").Exec(ctx)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return postgres.ErrDuplicateEmail
		}
		return errors.Wrap(err, "creating employee")
	}

	return nil
}

// UpdateColumns writes the set fields of patch onto the row and reports
// whether the row exists.
func (r Repository) UpdateColumns(ctx context.Context, id int64, patch Patch) (bool, error) {
	q := r.NewUpdate().Table(table).Where("id = ?", id)

	if patch.FirstName != nil {
		q.Set("first_name = ?", *patch.FirstName)
	}
	if patch.LastName != nil {
		q.Set("last_name = ?", *patch.LastName)
	}
	if patch.Email != nil {
		q.Set("email = ?", *patch.Email)
	}
	if patch.Position != nil {
		q.Set(`"position" = ?`, *patch.Position)
	}
	if patch.Salary != nil {
		q.Set("salary = ?", *patch.Salary)
	}
	if patch.DateOfJoining != nil {
		q.Set("date_of_joining = ?", *patch.DateOfJoining)
	}
	if patch.Department != nil {
		q.Set("department = ?", *patch.Department)
	}
	if patch.ProfileImagePath != nil {
		q.Set("profile_image_path = ?", *patch.ProfileImagePath)
	}
	q.Set("updated_at = ?", patch.UpdatedAt)

	res, err := q.Exec(ctx)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return false, postgres.ErrDuplicateEmail
		}
		return false, errors.Wrap(err, "updating employee")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "updating employee")
	}

	return n > 0, nil
}

func (r Repository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.DeleteRow(ctx, table, id)
}
