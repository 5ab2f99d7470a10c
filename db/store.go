package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Store is the bun backed implementation of the ledger persistence
// contract. Balance reads inside a transaction take a row lock so the
// read-modify-write span is also serialized at the database level, not
// only by the engine's key mutexes.
type Store struct {
	DB *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{DB: db}
}

func wrapStorage(err error) error {
	return fmt.Errorf("%w: %v", ledger.ErrStorageFailure, err)
}

func (s *Store) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	var asset models.Asset
	err := s.DB.NewSelect().Model(&asset).Where("symbol = ?", symbol).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAssetNotFound
	}
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &asset, nil
}

func (s *Store) ListAssets(ctx context.Context) ([]models.Asset, error) {
	assets := []models.Asset{}
	if err := s.DB.NewSelect().Model(&assets).Order("symbol ASC").Scan(ctx); err != nil {
		return nil, wrapStorage(err)
	}
	return assets, nil
}

func (s *Store) CreateAsset(ctx context.Context, asset *models.Asset) error {
	if _, err := s.DB.NewInsert().Model(asset).Exec(ctx); err != nil {
		// two concurrent creates can both pass the engine's duplicate
		// check; the unique index decides the loser
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ledger.ErrDuplicateAsset
		}
		return wrapStorage(err)
	}
	return nil
}

func (s *Store) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	_, err := s.DB.NewUpdate().Model(asset).
		Column("name", "description", "decimals").
		Set("updated_at = now()").
		WherePK().
		Exec(ctx)
	if err != nil {
		return wrapStorage(err)
	}
	return nil
}

func (s *Store) DeleteAsset(ctx context.Context, symbol string) error {
	_, err := s.DB.NewDelete().Model((*models.Asset)(nil)).Where("symbol = ?", symbol).Exec(ctx)
	if err != nil {
		return wrapStorage(err)
	}
	return nil
}

func (s *Store) UpsertRate(ctx context.Context, rate *models.ExchangeRate) error {
	_, err := s.DB.NewInsert().Model(rate).
		On("CONFLICT (asset_home_symbol, asset_foreign_symbol) DO UPDATE").
		Set("rate = EXCLUDED.rate").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return wrapStorage(err)
	}
	return nil
}

func (s *Store) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	rates := []models.ExchangeRate{}
	err := s.DB.NewSelect().Model(&rates).Order("asset_home_symbol ASC", "asset_foreign_symbol ASC").Scan(ctx)
	if err != nil {
		return nil, wrapStorage(err)
	}
	return rates, nil
}

func (s *Store) GetBalance(ctx context.Context, account, symbol string) (money.Amount, error) {
	return getBalance(ctx, s.DB, account, symbol, false)
}

func (s *Store) SumBalances(ctx context.Context, symbol string) (money.Amount, error) {
	var total money.Amount
	err := s.DB.NewSelect().Model((*models.Balance)(nil)).
		ColumnExpr("coalesce(sum(amount), 0)").
		Where("asset_symbol = ?", symbol).
		Scan(ctx, &total)
	if err != nil {
		return money.Zero(), wrapStorage(err)
	}
	return total, nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	err := s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &storeTx{tx: tx})
	})
	if err == nil {
		return nil
	}
	// domain errors pass through untouched, driver errors get wrapped
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrStorageFailure),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrUnderflow):
		return err
	default:
		return wrapStorage(err)
	}
}

type storeTx struct {
	tx bun.Tx
}

func (t *storeTx) GetBalance(ctx context.Context, account, symbol string) (money.Amount, error) {
	return getBalance(ctx, t.tx, account, symbol, true)
}

func (t *storeTx) UpsertBalance(ctx context.Context, account, symbol string, amount money.Amount) error {
	balance := &models.Balance{
		Account:     account,
		AssetSymbol: symbol,
		Amount:      amount,
	}
	_, err := t.tx.NewInsert().Model(balance).
		On("CONFLICT (account, asset_symbol) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return wrapStorage(err)
	}
	return nil
}

func (t *storeTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	if _, err := t.tx.NewInsert().Model(txn).Exec(ctx); err != nil {
		return wrapStorage(err)
	}
	return nil
}

func getBalance(ctx context.Context, db bun.IDB, account, symbol string, forUpdate bool) (money.Amount, error) {
	var balance models.Balance
	query := db.NewSelect().Model(&balance).
		Where("account = ? AND asset_symbol = ?", account, symbol).
		Limit(1)
	if forUpdate {
		query = query.For("UPDATE")
	}
	err := query.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		// no row means a zero balance, not an error
		return money.Zero(), nil
	}
	if err != nil {
		return money.Zero(), wrapStorage(err)
	}
	return balance.Amount, nil
}
