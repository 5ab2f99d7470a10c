package models

import (
	"time"

	"github.com/assethub/assethub.go/lib/money"
	"github.com/uptrace/bun"
)

// Balance : Balance Model
//
// One row per (account, asset symbol) pair, created lazily on the first
// credit. A missing row means a zero balance. Amount never goes below
// zero, the engine and a DB check constraint both enforce it.
type Balance struct {
	bun.BaseModel `bun:"table:balances,alias:b"`

	ID          int64        `bun:",pk,autoincrement" json:"-"`
	Account     string       `bun:",notnull,unique:balance_account_asset" json:"account"`
	AssetSymbol string       `bun:",notnull,unique:balance_account_asset" json:"asset_symbol"`
	Amount      money.Amount `bun:"type:numeric,notnull" json:"amount"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}
