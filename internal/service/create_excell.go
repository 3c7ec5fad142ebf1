package service

import (
	"fmt"

	"employee/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportHeaders = []string{
	"ID", "First Name", "Last Name", "Email", "Position",
	"Department", "Salary", "Date Of Joining", "Profile Image",
}

// ExportEmployees renders the employees as an xlsx workbook, one row each
// below a header row.
func ExportEmployees(employees []entity.Employee) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err = f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, errors.Wrap(err, "writing header")
		}
	}

	for i, e := range employees {
		image := ""
		if e.ProfileImagePath != nil {
			image = *e.ProfileImagePath
		}

		row := []interface{}{
			e.ID, e.FirstName, e.LastName, e.Email, e.Position,
			e.Department, e.Salary, e.DateOfJoining.Format("2006-01-02"), image,
		}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, errors.Wrap(err, "writing employee row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "saving workbook")
	}

	return buf.Bytes(), nil
}
