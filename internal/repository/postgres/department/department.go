package department

import (
	"context"

	"employee/backend/internal/pkg/repository/postgresql"
	"employee/backend/internal/repository/postgres"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetList groups employees by department. It returns one page of groups
// ordered by name and the total number of groups.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	where := func(q *bun.SelectQuery) *bun.SelectQuery {
		if filter.Search != nil && *filter.Search != "" {
			q.Where(`lower(department) LIKE ? ESCAPE '\'`, postgres.ContainsPattern(*filter.Search))
		}
		return q
	}

	var count int
	err := where(r.NewSelect().TableExpr("employees").ColumnExpr("count(DISTINCT department)")).Scan(ctx, &count)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting departments")
	}

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	list := make([]GetListResponse, 0)

	q := where(r.NewSelect().
		TableExpr("employees").
		ColumnExpr("department AS name").
		ColumnExpr("count(*) AS employee_count").
		GroupExpr("department").
		OrderExpr("department ASC"))

	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	if err = q.Scan(ctx, &list); err != nil {
		return nil, 0, errors.Wrap(err, "selecting departments")
	}

	return list, count, nil
}
