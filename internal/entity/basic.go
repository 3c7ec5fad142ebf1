package entity

import "time"

type BasicEntity struct {
	ID        int64     `json:"id"         bun:"id,pk,autoincrement"`
	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// Touch sets both timestamps for a new record.
func (b *BasicEntity) Touch(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}
