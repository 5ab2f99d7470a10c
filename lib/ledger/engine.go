package ledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/money"
)

// Engine orchestrates every balance mutation. It owns the concurrency
// discipline: each (account, asset symbol) key has a mutex, and an
// operation locks its full key set in lexicographic order before entering
// the store transaction. Two transfers in opposite directions therefore
// cannot deadlock, and no operation can act on a stale balance.
type Engine struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		locks: map[string]*sync.Mutex{},
	}
}

// balanceKey joins account and symbol with a NUL byte, which neither part
// can contain, so ("a", "b/c") and ("a/b", "c") never alias one key.
func balanceKey(account, symbol string) string {
	return account + "\x00" + symbol
}

// lockKeys acquires the mutexes for the given balance keys in sorted
// order and returns the matching unlock function.
func (e *Engine) lockKeys(keys ...string) func() {
	sorted := make([]string, 0, len(keys))
	seen := map[string]bool{}
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			sorted = append(sorted, key)
		}
	}
	sort.Strings(sorted)

	locked := make([]*sync.Mutex, 0, len(sorted))
	for _, key := range sorted {
		e.mu.Lock()
		lock, ok := e.locks[key]
		if !ok {
			lock = &sync.Mutex{}
			e.locks[key] = lock
		}
		e.mu.Unlock()
		lock.Lock()
		locked = append(locked, lock)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Transfer atomically moves amount from one account to another. The
// debit, the credit and the transaction log entry commit together or not
// at all. A self transfer is permitted, it has no net effect but still
// produces a log entry.
func (e *Engine) Transfer(ctx context.Context, from, to, symbol string, amount money.Amount) (*models.Transaction, error) {
	from, to, symbol = normalize(from), normalize(to), normalize(symbol)
	if from == "" || to == "" {
		return nil, ErrInvalidInput
	}
	if !amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	asset, err := e.store.GetAsset(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unlock := e.lockKeys(balanceKey(from, symbol), balanceKey(to, symbol))
	defer unlock()

	txn := &models.Transaction{
		From:        from,
		To:          to,
		AssetSymbol: asset.Symbol,
		Amount:      amount,
	}
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		senderBalance, err := tx.GetBalance(ctx, from, symbol)
		if err != nil {
			return err
		}
		// a missing sender row reads as zero, so it fails the same way
		// as any other short balance
		if senderBalance.Cmp(amount) < 0 {
			return ErrInsufficientBalance
		}
		debited, err := senderBalance.Sub(amount)
		if err != nil {
			return err
		}
		if err := tx.UpsertBalance(ctx, from, symbol, debited); err != nil {
			return err
		}
		// read the receiver after the debit so a self transfer credits
		// the already debited value
		receiverBalance, err := tx.GetBalance(ctx, to, symbol)
		if err != nil {
			return err
		}
		if err := tx.UpsertBalance(ctx, to, symbol, receiverBalance.Add(amount)); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Adjust mints (credit) or burns (debit) balance for a single account.
// This is the only source and sink of value in the system and callers
// must have authorized the admin role beforehand. Adjustments do not
// produce transaction log entries.
func (e *Engine) Adjust(ctx context.Context, account, symbol string, delta money.Amount, direction string) error {
	account, symbol = normalize(account), normalize(symbol)
	if account == "" {
		return ErrInvalidInput
	}
	if direction != common.AdjustmentCredit && direction != common.AdjustmentDebit {
		return ErrInvalidInput
	}
	if _, err := e.store.GetAsset(ctx, symbol); err != nil {
		return err
	}

	unlock := e.lockKeys(balanceKey(account, symbol))
	defer unlock()

	return e.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		balance, err := tx.GetBalance(ctx, account, symbol)
		if err != nil {
			return err
		}
		if direction == common.AdjustmentCredit {
			return tx.UpsertBalance(ctx, account, symbol, balance.Add(delta))
		}
		if balance.Cmp(delta) < 0 {
			return ErrInsufficientBalance
		}
		debited, err := balance.Sub(delta)
		if err != nil {
			return err
		}
		return tx.UpsertBalance(ctx, account, symbol, debited)
	})
}

// Balance returns the held amount, zero when no row exists.
func (e *Engine) Balance(ctx context.Context, account, symbol string) (money.Amount, error) {
	return e.store.GetBalance(ctx, normalize(account), normalize(symbol))
}

// CreateAsset registers a new asset. Symbol and name are required,
// description is optional and decimals is a non negative display scale.
func (e *Engine) CreateAsset(ctx context.Context, symbol, name, description string, decimals int) (*models.Asset, error) {
	symbol = normalize(symbol)
	if symbol == "" || name == "" || decimals < 0 {
		return nil, ErrInvalidInput
	}
	if _, err := e.store.GetAsset(ctx, symbol); err == nil {
		return nil, ErrDuplicateAsset
	} else if !errors.Is(err, ErrAssetNotFound) {
		return nil, err
	}
	asset := &models.Asset{
		Symbol:      symbol,
		Name:        name,
		Description: description,
		Decimals:    decimals,
	}
	if err := e.store.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (e *Engine) UpdateAsset(ctx context.Context, symbol, name, description string, decimals int) (*models.Asset, error) {
	if name == "" || decimals < 0 {
		return nil, ErrInvalidInput
	}
	asset, err := e.store.GetAsset(ctx, normalize(symbol))
	if err != nil {
		return nil, err
	}
	asset.Name = name
	asset.Description = description
	asset.Decimals = decimals
	if err := e.store.UpdateAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// DeleteAsset removes the registry entry only. Balances referencing the
// symbol are left in place, a documented limitation carried over from the
// original system.
func (e *Engine) DeleteAsset(ctx context.Context, symbol string) error {
	symbol = normalize(symbol)
	if _, err := e.store.GetAsset(ctx, symbol); err != nil {
		return err
	}
	return e.store.DeleteAsset(ctx, symbol)
}

func (e *Engine) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	return e.store.GetAsset(ctx, normalize(symbol))
}

func (e *Engine) ListAssets(ctx context.Context) ([]models.Asset, error) {
	return e.store.ListAssets(ctx)
}

// AssetTotal is one row of the admin holdings report.
type AssetTotal struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Decimals    int          `json:"decimals"`
	Total       money.Amount `json:"total"`
}

// AssetTotals reports, for every registered asset, the sum of all
// balances held in it. Assets nobody holds report a total of 0.
func (e *Engine) AssetTotals(ctx context.Context) ([]AssetTotal, error) {
	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	totals := make([]AssetTotal, 0, len(assets))
	for _, asset := range assets {
		total, err := e.store.SumBalances(ctx, asset.Symbol)
		if err != nil {
			return nil, err
		}
		totals = append(totals, AssetTotal{
			Symbol:      asset.Symbol,
			Name:        asset.Name,
			Description: asset.Description,
			Decimals:    asset.Decimals,
			Total:       total,
		})
	}
	return totals, nil
}

// SetRate upserts the informational exchange rate for an ordered pair of
// registered assets. Rates are never applied to transfers.
func (e *Engine) SetRate(ctx context.Context, homeSymbol, foreignSymbol string, rate money.Amount) (*models.ExchangeRate, error) {
	home, err := e.store.GetAsset(ctx, normalize(homeSymbol))
	if err != nil {
		return nil, err
	}
	foreign, err := e.store.GetAsset(ctx, normalize(foreignSymbol))
	if err != nil {
		return nil, err
	}
	exchangeRate := &models.ExchangeRate{
		HomeSymbol:    home.Symbol,
		ForeignSymbol: foreign.Symbol,
		Rate:          rate,
	}
	if err := e.store.UpsertRate(ctx, exchangeRate); err != nil {
		return nil, err
	}
	return exchangeRate, nil
}

func (e *Engine) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	return e.store.ListRates(ctx)
}
