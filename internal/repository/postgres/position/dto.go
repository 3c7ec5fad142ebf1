package position

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type GetListResponse struct {
	Name          string `json:"name"           bun:"name"`
	EmployeeCount int    `json:"employee_count" bun:"employee_count"`
}
