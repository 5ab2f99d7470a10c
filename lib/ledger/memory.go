package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/money"
)

// MemoryStore is the in-memory Store implementation. It backs the unit
// tests and gives the engine a transactional substrate without a running
// database: writes inside RunInTx are staged and applied in one step
// under the store lock, so a failing callback leaves no trace.
type MemoryStore struct {
	mu           sync.Mutex
	assets       map[string]models.Asset
	balances     map[string]money.Amount
	transactions []models.Transaction
	rates        map[string]models.ExchangeRate
	nextID       int64

	// FailOnUpsert, when set, is consulted before every staged balance
	// write. Returning an error simulates a storage failure mid mutation.
	FailOnUpsert func(account, symbol string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assets:   map[string]models.Asset{},
		balances: map[string]money.Amount{},
		rates:    map[string]models.ExchangeRate{},
	}
}

func rateKey(home, foreign string) string {
	return home + "/" + foreign
}

func (s *MemoryStore) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.assets[symbol]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return &asset, nil
}

func (s *MemoryStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assets := make([]models.Asset, 0, len(s.assets))
	for _, asset := range s.assets {
		assets = append(assets, asset)
	}
	return assets, nil
}

func (s *MemoryStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.Symbol]; ok {
		return ErrDuplicateAsset
	}
	s.nextID++
	asset.ID = s.nextID
	asset.CreatedAt = time.Now()
	s.assets[asset.Symbol] = *asset
	return nil
}

func (s *MemoryStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[asset.Symbol]; !ok {
		return ErrAssetNotFound
	}
	s.assets[asset.Symbol] = *asset
	return nil
}

func (s *MemoryStore) DeleteAsset(ctx context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[symbol]; !ok {
		return ErrAssetNotFound
	}
	delete(s.assets, symbol)
	return nil
}

func (s *MemoryStore) UpsertRate(ctx context.Context, rate *models.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rateKey(rate.HomeSymbol, rate.ForeignSymbol)
	if existing, ok := s.rates[key]; ok {
		existing.Rate = rate.Rate
		s.rates[key] = existing
		return nil
	}
	s.nextID++
	rate.ID = s.nextID
	rate.CreatedAt = time.Now()
	s.rates[key] = *rate
	return nil
}

func (s *MemoryStore) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := make([]models.ExchangeRate, 0, len(s.rates))
	for _, rate := range s.rates {
		rates = append(rates, rate)
	}
	return rates, nil
}

func (s *MemoryStore) GetBalance(ctx context.Context, account, symbol string) (money.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[balanceKey(account, symbol)], nil
}

func (s *MemoryStore) SumBalances(ctx context.Context, symbol string) (money.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := money.Zero()
	suffix := "\x00" + symbol
	for key, amount := range s.balances {
		if strings.HasSuffix(key, suffix) {
			total = total.Add(amount)
		}
	}
	return total, nil
}

// Transactions returns a copy of the log, newest last. Test helper, not
// part of the Store contract.
func (s *MemoryStore) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memoryTx{
		store:   s,
		staged:  map[string]money.Amount{},
		entries: nil,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, amount := range tx.staged {
		s.balances[key] = amount
	}
	for i := range tx.entries {
		s.nextID++
		tx.entries[i].ID = s.nextID
		tx.entries[i].CreatedAt = time.Now()
		s.transactions = append(s.transactions, tx.entries[i])
		*tx.refs[i] = tx.entries[i]
	}
	return nil
}

type memoryTx struct {
	store   *MemoryStore
	staged  map[string]money.Amount
	entries []models.Transaction
	refs    []*models.Transaction
}

func (tx *memoryTx) GetBalance(ctx context.Context, account, symbol string) (money.Amount, error) {
	key := balanceKey(account, symbol)
	if amount, ok := tx.staged[key]; ok {
		return amount, nil
	}
	return tx.store.GetBalance(ctx, account, symbol)
}

func (tx *memoryTx) UpsertBalance(ctx context.Context, account, symbol string, amount money.Amount) error {
	if tx.store.FailOnUpsert != nil {
		if err := tx.store.FailOnUpsert(account, symbol); err != nil {
			return err
		}
	}
	tx.staged[balanceKey(account, symbol)] = amount
	return nil
}

func (tx *memoryTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	tx.entries = append(tx.entries, *txn)
	tx.refs = append(tx.refs, txn)
	return nil
}
