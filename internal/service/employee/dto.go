package employee

import "mime/multipart"

type CreateRequest struct {
	FirstName     *string               `json:"first_name"      form:"first_name"`
	LastName      *string               `json:"last_name"       form:"last_name"`
	Email         *string               `json:"email"           form:"email"`
	Position      *string               `json:"position"        form:"position"`
	Salary        *float64              `json:"salary"          form:"salary"`
	DateOfJoining *string               `json:"date_of_joining" form:"date_of_joining"`
	Department    *string               `json:"department"      form:"department"`
	ProfileImage  *multipart.FileHeader `json:"-"               form:"profileImage"`
}

// UpdateRequest carries a partial update; nil fields keep their stored value.
type UpdateRequest struct {
	FirstName     *string               `json:"first_name"      form:"first_name"`
	LastName      *string               `json:"last_name"       form:"last_name"`
	Email         *string               `json:"email"           form:"email"`
	Position      *string               `json:"position"        form:"position"`
	Salary        *float64              `json:"salary"          form:"salary"`
	DateOfJoining *string               `json:"date_of_joining" form:"date_of_joining"`
	Department    *string               `json:"department"      form:"department"`
	ProfileImage  *multipart.FileHeader `json:"-"               form:"profileImage"`
}

type SearchRequest struct {
	Department *string
	Position   *string
}
