package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- balances can never go negative, the engine checks this before
			-- writing and the database backstops it
				ALTER TABLE balances
				ADD CONSTRAINT check_balance_non_negative
				CHECK (amount >= 0);

			-- the transaction log is append only, amounts are always positive
				ALTER TABLE transactions
				ADD CONSTRAINT check_transaction_amount_positive
				CHECK (amount > 0);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
