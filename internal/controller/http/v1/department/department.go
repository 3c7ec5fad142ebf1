package department

import (
	"net/http"
	"reflect"
	"strings"

	"employee/backend/foundation/web"
	"employee/backend/internal/repository/postgres/department"
	"employee/backend/internal/repository/postgres/position"

	"github.com/pkg/errors"
)

// Controller lists the departments and positions employees are filed under.
type Controller struct {
	department Department
	position   Position
}

func NewController(department Department, position Position) *Controller {
	return &Controller{department, position}
}

type page struct {
	limit, offset, page *int
	search              *string
}

func readPage(c *web.Context) (page, error) {
	var p page

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		p.limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		p.offset = offset
	}
	if pg, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		p.page = pg
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		p.search = search
	}

	if err := c.ValidQuery(); err != nil {
		return p, err
	}

	var invalid []string
	if p.limit != nil && *p.limit <= 0 {
		invalid = append(invalid, "limit must be positive")
	}
	if p.page != nil && *p.page <= 0 {
		invalid = append(invalid, "page must be positive")
	}
	if p.offset != nil && *p.offset < 0 {
		invalid = append(invalid, "offset must not be negative")
	}
	if len(invalid) > 0 {
		return p, web.NewRequestError(errors.New(strings.Join(invalid, ", ")), http.StatusBadRequest)
	}

	return p, nil
}

func (uc Controller) GetDepartments(c *web.Context) error {
	p, err := readPage(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.department.GetList(c.Ctx, department.Filter{
		Limit: p.limit, Offset: p.offset, Page: p.page, Search: p.search,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetPositions(c *web.Context) error {
	p, err := readPage(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.position.GetList(c.Ctx, position.Filter{
		Limit: p.limit, Offset: p.offset, Page: p.page, Search: p.search,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}
