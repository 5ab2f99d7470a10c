package ledger

import (
	"context"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/money"
)

// Store is the persistence contract the engine runs against. The
// production implementation lives in the db package (bun/PostgreSQL);
// tests use MemoryStore. Implementations report their own failures as
// errors wrapping ErrStorageFailure and translate "no row" conditions
// into the domain defaults documented per method.
type Store interface {
	// GetAsset returns ErrAssetNotFound for an unregistered symbol.
	GetAsset(ctx context.Context, symbol string) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset *models.Asset) error
	UpdateAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, symbol string) error

	// UpsertRate creates the (home, foreign) row or overwrites its rate.
	UpsertRate(ctx context.Context, rate *models.ExchangeRate) error
	ListRates(ctx context.Context) ([]models.ExchangeRate, error)

	// GetBalance returns zero for a missing row, never an error.
	GetBalance(ctx context.Context, account, symbol string) (money.Amount, error)
	// SumBalances totals every balance row held in the given asset.
	SumBalances(ctx context.Context, symbol string) (money.Amount, error)

	// RunInTx runs fn inside a single atomic transaction. If fn returns an
	// error nothing fn wrote becomes visible.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the transactional view handed to RunInTx callbacks. Reads observe
// writes staged earlier in the same transaction.
type Tx interface {
	GetBalance(ctx context.Context, account, symbol string) (money.Amount, error)
	UpsertBalance(ctx context.Context, account, symbol string, amount money.Amount) error
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
}
