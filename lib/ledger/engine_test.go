package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/stretchr/testify/assert"
)

func setupEngine(t *testing.T) (*Engine, *MemoryStore) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	_, err := engine.CreateAsset(context.Background(), "usd", "US Dollar", "fiat", 2)
	assert.NoError(t, err)
	return engine, store
}

func fund(t *testing.T, engine *Engine, account, symbol, amount string) {
	err := engine.Adjust(context.Background(), account, symbol, money.MustParse(amount), common.AdjustmentCredit)
	assert.NoError(t, err)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	fund(t, engine, "alice", "usd", "1000")

	txn, err := engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("400"))
	assert.NoError(t, err)
	assert.Equal(t, "alice", txn.From)
	assert.Equal(t, "bob", txn.To)
	assert.Equal(t, "usd", txn.AssetSymbol)
	assert.Equal(t, "400", txn.Amount.String())
	assert.NotZero(t, txn.ID)

	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "600", aliceBalance.String())
	assert.Equal(t, "400", bobBalance.String())

	logged := store.Transactions()
	assert.Len(t, logged, 1)
	assert.Equal(t, "alice", logged[0].From)
	assert.Equal(t, "bob", logged[0].To)
	assert.Equal(t, "400", logged[0].Amount.String())
}

func TestTransferConservation(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	fund(t, engine, "alice", "usd", "1000")
	fund(t, engine, "bob", "usd", "250")

	before := money.Zero()
	for _, account := range []string{"alice", "bob"} {
		b, _ := engine.Balance(ctx, account, "usd")
		before = before.Add(b)
	}

	_, err := engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("333"))
	assert.NoError(t, err)

	after := money.Zero()
	for _, account := range []string{"alice", "bob"} {
		b, _ := engine.Balance(ctx, account, "usd")
		after = after.Add(b)
	}
	assert.True(t, before.Equal(after), "transfer must conserve total value")
}

func TestTransferNormalizesCase(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	fund(t, engine, "alice", "usd", "100")

	_, err := engine.Transfer(ctx, "Alice", "BOB", "USD", money.MustParse("40"))
	assert.NoError(t, err)

	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "40", bobBalance.String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	fund(t, engine, "alice", "usd", "100")

	_, err := engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("101"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// an account with no balance row fails identically
	_, err = engine.Transfer(ctx, "carol", "bob", "usd", money.MustParse("1"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	assert.Equal(t, "100", aliceBalance.String())
	assert.Empty(t, store.Transactions())
}

func TestTransferValidation(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	fund(t, engine, "alice", "usd", "100")

	_, err := engine.Transfer(ctx, "alice", "bob", "usd", money.Zero())
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = engine.Transfer(ctx, "alice", "bob", "btc", money.MustParse("10"))
	assert.ErrorIs(t, err, ErrAssetNotFound)

	_, err = engine.Transfer(ctx, "alice", "", "usd", money.MustParse("10"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSelfTransfer(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	fund(t, engine, "alice", "usd", "100")

	_, err := engine.Transfer(ctx, "alice", "alice", "usd", money.MustParse("60"))
	assert.NoError(t, err)

	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	assert.Equal(t, "100", aliceBalance.String())
	assert.Len(t, store.Transactions(), 1)
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)

	// credit creates the balance row
	err := engine.Adjust(ctx, "bob", "usd", money.MustParse("400"), common.AdjustmentCredit)
	assert.NoError(t, err)

	err = engine.Adjust(ctx, "bob", "usd", money.MustParse("50"), common.AdjustmentDebit)
	assert.NoError(t, err)
	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "350", bobBalance.String())

	err = engine.Adjust(ctx, "bob", "usd", money.MustParse("1000"), common.AdjustmentDebit)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	bobBalance, _ = engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "350", bobBalance.String())
}

func TestAdjustValidation(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)

	err := engine.Adjust(ctx, "bob", "btc", money.MustParse("10"), common.AdjustmentCredit)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	err = engine.Adjust(ctx, "bob", "usd", money.MustParse("10"), "sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// adjustments never hit the transaction log
	err = engine.Adjust(ctx, "bob", "usd", money.MustParse("10"), common.AdjustmentCredit)
	assert.NoError(t, err)
	assert.Empty(t, store.Transactions())
}

func TestBalanceDefaultsToZero(t *testing.T) {
	engine, _ := setupEngine(t)
	balance, err := engine.Balance(context.Background(), "nobody", "usd")
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestAssetRegistry(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)

	_, err := engine.CreateAsset(ctx, "USD", "US Dollar again", "", 2)
	assert.ErrorIs(t, err, ErrDuplicateAsset)

	_, err = engine.CreateAsset(ctx, "", "nameless", "", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	asset, err := engine.UpdateAsset(ctx, "usd", "United States Dollar", "updated", 6)
	assert.NoError(t, err)
	assert.Equal(t, 6, asset.Decimals)

	_, err = engine.UpdateAsset(ctx, "btc", "Bitcoin", "", 8)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	err = engine.DeleteAsset(ctx, "btc")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestConcurrentCreateAsset(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)

	// both creates can pass the pre-check; the store's uniqueness
	// guarantee must turn the loser into ErrDuplicateAsset, not a
	// generic storage failure
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.CreateAsset(ctx, "eur", "Euro", "", 2)
		}(i)
	}
	wg.Wait()

	succeeded, duplicate := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, ErrDuplicateAsset)
			duplicate++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicate)
}

func TestDeleteAssetKeepsBalances(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	fund(t, engine, "alice", "usd", "100")

	assert.NoError(t, engine.DeleteAsset(ctx, "usd"))

	// orphaned balance stays readable
	balance, err := engine.Balance(ctx, "alice", "usd")
	assert.NoError(t, err)
	assert.Equal(t, "100", balance.String())

	// but the asset metadata is gone
	_, err = engine.GetAsset(ctx, "usd")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestSlashInSymbolDoesNotAliasBalances(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	_, err := engine.CreateAsset(ctx, "b/c", "Slashed", "", 0)
	assert.NoError(t, err)
	_, err = engine.CreateAsset(ctx, "c", "Plain", "", 0)
	assert.NoError(t, err)

	// ("a", "b/c") and ("a/b", "c") must stay distinct keys
	fund(t, engine, "a", "b/c", "10")

	other, err := engine.Balance(ctx, "a/b", "c")
	assert.NoError(t, err)
	assert.True(t, other.IsZero())

	slashed, err := store.SumBalances(ctx, "b/c")
	assert.NoError(t, err)
	assert.Equal(t, "10", slashed.String())
	plain, err := store.SumBalances(ctx, "c")
	assert.NoError(t, err)
	assert.True(t, plain.IsZero())
}

func TestAssetTotals(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	_, err := engine.CreateAsset(ctx, "eur", "Euro", "", 2)
	assert.NoError(t, err)

	fund(t, engine, "alice", "usd", "1000")
	fund(t, engine, "bob", "usd", "500")

	totals, err := engine.AssetTotals(ctx)
	assert.NoError(t, err)
	assert.Len(t, totals, 2)

	bySymbol := map[string]AssetTotal{}
	for _, total := range totals {
		bySymbol[total.Symbol] = total
	}
	assert.Equal(t, "1500", bySymbol["usd"].Total.String())
	assert.Equal(t, "0", bySymbol["eur"].Total.String())
}

func TestSetRateUpsert(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	_, err := engine.CreateAsset(ctx, "eur", "Euro", "", 2)
	assert.NoError(t, err)

	_, err = engine.SetRate(ctx, "usd", "eur", money.MustParse("920000"))
	assert.NoError(t, err)
	_, err = engine.SetRate(ctx, "usd", "eur", money.MustParse("930000"))
	assert.NoError(t, err)

	rates, err := engine.ListRates(ctx)
	assert.NoError(t, err)
	assert.Len(t, rates, 1)
	assert.Equal(t, "usd", rates[0].HomeSymbol)
	assert.Equal(t, "eur", rates[0].ForeignSymbol)
	assert.Equal(t, "930000", rates[0].Rate.String())

	_, err = engine.SetRate(ctx, "usd", "gbp", money.MustParse("790000"))
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestAtomicityUnderStorageFailure(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	fund(t, engine, "alice", "usd", "1000")

	// fail the credit after the debit has been staged
	store.FailOnUpsert = func(account, symbol string) error {
		if account == "bob" {
			return fmt.Errorf("%w: connection reset", ErrStorageFailure)
		}
		return nil
	}

	_, err := engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("400"))
	assert.ErrorIs(t, err, ErrStorageFailure)
	store.FailOnUpsert = nil

	// neither side moved and nothing was logged
	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "1000", aliceBalance.String())
	assert.Equal(t, "0", bobBalance.String())
	assert.Empty(t, store.Transactions())
}

func TestConcurrentTransferRace(t *testing.T) {
	ctx := context.Background()
	engine, store := setupEngine(t)
	fund(t, engine, "alice", "usd", "1000")

	// each transfer fits on its own but together they exceed the balance
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("600"))
		}(i)
	}
	wg.Wait()

	succeeded, failed := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientBalance)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "400", aliceBalance.String())
	assert.Equal(t, "600", bobBalance.String())
	assert.Len(t, store.Transactions(), 1)
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	ctx := context.Background()
	engine, _ := setupEngine(t)
	fund(t, engine, "alice", "usd", "1000")
	fund(t, engine, "bob", "usd", "1000")

	// opposite directions, same key pair: must not deadlock
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := engine.Transfer(ctx, "alice", "bob", "usd", money.MustParse("10"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := engine.Transfer(ctx, "bob", "alice", "usd", money.MustParse("10"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	aliceBalance, _ := engine.Balance(ctx, "alice", "usd")
	bobBalance, _ := engine.Balance(ctx, "bob", "usd")
	assert.Equal(t, "1000", aliceBalance.String())
	assert.Equal(t, "1000", bobBalance.String())
}
