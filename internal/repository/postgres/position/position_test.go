package position_test

import (
	"context"
	"testing"
	"time"

	"employee/backend/internal/entity"
	"employee/backend/internal/pkg/repository/postgresql/dbtest"
	"employee/backend/internal/repository/postgres/employee"
	"employee/backend/internal/repository/postgres/position"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetList(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	employees := employee.NewRepository(db)
	for _, e := range []entity.Employee{
		{FirstName: "A", LastName: "A", Email: "a@x.com", Position: "Developer", Department: "Eng"},
		{FirstName: "B", LastName: "B", Email: "b@x.com", Position: "Developer", Department: "Eng"},
		{FirstName: "C", LastName: "C", Email: "c@x.com", Position: "Designer", Department: "Eng"},
	} {
		e := e
		e.DateOfJoining = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		e.Touch(time.Now().UTC())
		require.NoError(t, employees.Insert(ctx, &e))
	}

	r := position.NewRepository(db)

	list, count, err := r.GetList(ctx, position.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []position.GetListResponse{
		{Name: "Designer", EmployeeCount: 1},
		{Name: "Developer", EmployeeCount: 2},
	}, list)

	search := "dev"
	list, count, err = r.GetList(ctx, position.Filter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Developer", list[0].Name)
}
