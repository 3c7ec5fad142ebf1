package employee

import (
	"context"

	"employee/backend/internal/entity"
	"employee/backend/internal/service/employee"
)

type Employee interface {
	List(ctx context.Context) ([]entity.Employee, error)
	Search(ctx context.Context, request employee.SearchRequest) ([]entity.Employee, error)
	GetByID(ctx context.Context, id int64) (entity.Employee, error)
	Create(ctx context.Context, request employee.CreateRequest) (entity.Employee, error)
	Update(ctx context.Context, id int64, request employee.UpdateRequest) error
	Delete(ctx context.Context, id int64) error

	Export(ctx context.Context) ([]byte, error)
	QRCode(ctx context.Context, id int64) ([]byte, error)
	BadgeSheet(ctx context.Context) ([]byte, error)
}
