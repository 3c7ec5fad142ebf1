package department

import (
	"context"

	"employee/backend/internal/repository/postgres/department"
	"employee/backend/internal/repository/postgres/position"
)

type Department interface {
	GetList(ctx context.Context, filter department.Filter) ([]department.GetListResponse, int, error)
}

type Position interface {
	GetList(ctx context.Context, filter position.Filter) ([]position.GetListResponse, int, error)
}
