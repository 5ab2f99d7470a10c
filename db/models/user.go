package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User : User Model
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64        `bun:",pk,autoincrement" json:"id"`
	Login     string       `bun:",unique,notnull" json:"login"`
	Password  string       `bun:",notnull" json:"-"`
	Role      string       `bun:",notnull" json:"role"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `bun:",nullzero,unique" json:"email"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}
