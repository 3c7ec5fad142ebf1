package employee

import "time"

// Filter narrows GetList. Nil fields impose no constraint; set fields are
// matched as case-insensitive substrings and combined with AND.
type Filter struct {
	Department *string
	Position   *string
}

// Patch lists the columns UpdateColumns writes. Nil fields are left as they
// are in the stored row.
type Patch struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Position         *string
	Salary           *float64
	DateOfJoining    *time.Time
	Department       *string
	ProfileImagePath *string
	UpdatedAt        time.Time
}
