package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Username string `json:"username" bun:"username,notnull"`
	Email    string `json:"email"    bun:"email,notnull,unique"`
	Password string `json:"-"        bun:"password,notnull"`
}
