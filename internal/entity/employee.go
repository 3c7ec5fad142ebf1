package entity

import (
	"time"

	"github.com/uptrace/bun"
)

type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	BasicEntity
	FirstName        string    `json:"first_name"                   bun:"first_name,notnull"`
	LastName         string    `json:"last_name"                    bun:"last_name,notnull"`
	Email            string    `json:"email"                        bun:"email,notnull,unique"`
	Position         string    `json:"position"                     bun:"position,notnull"`
	Salary           float64   `json:"salary"                       bun:"salary,notnull"`
	DateOfJoining    time.Time `json:"date_of_joining"              bun:"date_of_joining,notnull"`
	Department       string    `json:"department"                   bun:"department,notnull"`
	ProfileImagePath *string   `json:"profile_image_path,omitempty" bun:"profile_image_path"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
