package employee

import (
	"fmt"
	"net/http"
	"reflect"

	"employee/backend/foundation/web"
	"employee/backend/internal/service/employee"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypePNG  = "image/png"
)

type Controller struct {
	employee Employee
}

func NewController(employee Employee) *Controller {
	return &Controller{employee}
}

func (ec Controller) GetList(c *web.Context) error {
	list, err := ec.employee.List(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(list, http.StatusOK)
}

func (ec Controller) Search(c *web.Context) error {
	var request employee.SearchRequest

	if department, ok := c.GetQueryFunc(reflect.String, "department").(*string); ok {
		request.Department = department
	}
	if position, ok := c.GetQueryFunc(reflect.String, "position").(*string); ok {
		request.Position = position
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := ec.employee.Search(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(list, http.StatusOK)
}

func (ec Controller) GetDetailByID(c *web.Context) error {
	id := c.GetParam(reflect.Int64, "id").(int64)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := ec.employee.GetByID(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusOK)
}

// Create accepts json, urlencoded or multipart bodies. Required fields are
// checked by the service after trimming.
func (ec Controller) Create(c *web.Context) error {
	var request employee.CreateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	created, err := ec.employee.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	response := map[string]interface{}{
		"message":     "Employee created successfully",
		"employee_id": created.ID,
	}
	if created.ProfileImagePath != nil {
		response["profileImageUrl"] = *created.ProfileImagePath
	}

	return c.Respond(response, http.StatusCreated)
}

func (ec Controller) Update(c *web.Context) error {
	id := c.GetParam(reflect.Int64, "id").(int64)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request employee.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	if err := ec.employee.Update(c.Ctx, id, request); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"message": "Employee updated successfully",
	}, http.StatusOK)
}

func (ec Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int64, "id").(int64)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := ec.employee.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"message": "Employee deleted successfully",
	}, http.StatusOK)
}

func (ec Controller) Export(c *web.Context) error {
	data, err := ec.employee.Export(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Data(http.StatusOK, contentTypeXLSX, data)

	return nil
}

func (ec Controller) Badges(c *web.Context) error {
	data, err := ec.employee.BadgeSheet(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", `attachment; filename="badges.pdf"`)
	c.Data(http.StatusOK, contentTypePDF, data)

	return nil
}

func (ec Controller) QRCode(c *web.Context) error {
	id := c.GetParam(reflect.Int64, "id").(int64)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	data, err := ec.employee.QRCode(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="employee-%d.png"`, id))
	c.Data(http.StatusOK, contentTypePNG, data)

	return nil
}
