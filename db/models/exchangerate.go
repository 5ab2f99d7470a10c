package models

import (
	"time"

	"github.com/assethub/assethub.go/lib/money"
	"github.com/uptrace/bun"
)

// ExchangeRate : Exchange Rate Model
//
// Informational only. One row per ordered (home, foreign) pair, upserted
// by an admin and never consulted by the transfer path.
type ExchangeRate struct {
	bun.BaseModel `bun:"table:exchange_rates,alias:r"`

	ID            int64        `bun:",pk,autoincrement" json:"-"`
	HomeSymbol    string       `bun:"asset_home_symbol,notnull,unique:rate_pair" json:"asset_home_symbol"`
	ForeignSymbol string       `bun:"asset_foreign_symbol,notnull,unique:rate_pair" json:"asset_foreign_symbol"`
	Rate          money.Amount `bun:"type:numeric,notnull" json:"rate"`
	CreatedAt     time.Time    `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     bun.NullTime `json:"updated_at"`
}
