package models

import (
	"time"

	"github.com/assethub/assethub.go/lib/money"
	"github.com/uptrace/bun"
)

// Transaction : Transaction Model
//
// Append only record of a committed transfer. Rows are never updated or
// deleted. "from" and "to" are reserved words in SQL so the columns get
// explicit names.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID          int64        `bun:",pk,autoincrement" json:"id"`
	From        string       `bun:"from_account,notnull" json:"from"`
	To          string       `bun:"to_account,notnull" json:"to"`
	AssetSymbol string       `bun:",notnull" json:"asset_symbol"`
	Amount      money.Amount `bun:"type:numeric,notnull" json:"amount"`
	CreatedAt   time.Time    `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
