package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Asset : Asset Model
//
// Symbol is the sole identity, stored lowercase. Decimals is a display
// scale only, balance arithmetic always happens in smallest units.
type Asset struct {
	bun.BaseModel `bun:"table:assets,alias:a"`

	ID          int64        `bun:",pk,autoincrement" json:"-"`
	Symbol      string       `bun:",unique,notnull" json:"symbol"`
	Name        string       `bun:",notnull" json:"name"`
	Description string       `json:"description"`
	Decimals    int          `bun:",notnull" json:"decimals"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}
