package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/blob/memory"
	"wallet/internal/core"
)

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestStore(t)
	require.NoError(t, s.Deposit(ctx, "120.5"))
	for i := 0; i < 10; i++ {
		_, err := s.Add(ctx, income(faker.Word(), "10.25", "Salary", "2024-02-01"))
		require.NoError(t, err)
		_, err = s.Add(ctx, randomExpense("3.1"))
		require.NoError(t, err)
	}
	want := s.Snapshot()

	reloaded := New(blobs)
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, want, reloaded.Snapshot())
	assert.Equal(t, s.Available(), reloaded.Available())
}

func TestLoad_ExplicitPersist(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	s := New(blobs, WithDefaultOpeningBalance(core.Money{Cents: 12345}))

	require.NoError(t, s.Persist(ctx))

	assert.Equal(t, map[string]string{ExpensesKey: "[]", BalanceKey: "123.45"}, blobs.Snapshot())
}

func TestLoad_EmptyStoreUsesDefaults(t *testing.T) {
	blobs := memory.New()
	s := New(blobs, WithDefaultOpeningBalance(core.Money{Cents: 100}))

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, int64(100), snap.OpeningBalance.Cents)
	assert.Equal(t, 0, blobs.Writes(), "loading never writes")
}

func TestLoad_CorruptValuesUseDefaults(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"garbage transactions", map[string]string{ExpensesKey: "{{{", BalanceKey: "lots"}},
		{"object instead of array", map[string]string{ExpensesKey: `{"id":"a"}`}},
		{"null", map[string]string{ExpensesKey: "null", BalanceKey: ""}},
		{"negative balance", map[string]string{ExpensesKey: "[]", BalanceKey: "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(memory.NewWith(tt.values))

			require.NoError(t, s.Load(context.Background()))

			snap := s.Snapshot()
			assert.Empty(t, snap.Transactions)
			assert.Equal(t, DefaultOpeningBalance, snap.OpeningBalance)
		})
	}
}

func TestLoad_LegacyRecords(t *testing.T) {
	blobs := memory.NewWith(map[string]string{
		ExpensesKey: `[
			{"title":"Milk","price":"40","category":"Food","date":"2024-05-01","id":1714567890123},
			{"id":"k3j9x2a","title":"Salary","amount":1000.5,"category":"Salary","date":"2024-05-02","type":"income"},
			{"id":"bad","title":"No amount","amount":"","category":"Food","date":"2024-05-03"},
			{"id":"k3j9x2a","title":"Duplicate","amount":1,"category":"Food","date":"2024-05-04","type":"expense"},
			{"title":"No id","amount":1,"category":"Food","date":"2024-05-05","type":"expense"}
		]`,
		BalanceKey: "4960",
	})
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 2)

	milk := snap.Transactions[0]
	assert.Equal(t, "1714567890123", milk.ID)
	assert.Equal(t, core.Expense, milk.Type)
	assert.Equal(t, int64(4000), milk.Amount.Cents)

	salary := snap.Transactions[1]
	assert.Equal(t, "k3j9x2a", salary.ID)
	assert.Equal(t, core.Income, salary.Type)
	assert.Equal(t, int64(100050), salary.Amount.Cents)

	// 4960 left after spending 40 and receiving 1000.50
	assert.Equal(t, int64(399950), snap.OpeningBalance.Cents)
	assert.Equal(t, int64(496000), s.Available().Cents)
}

func TestLoad_LegacyWalletBalanceIsWhatIsLeft(t *testing.T) {
	blobs := memory.NewWith(map[string]string{
		ExpensesKey: `[
			{"id":1,"title":"Milk","price":"40","category":"Food","date":"2024-05-01"},
			{"id":2,"title":"Rent","price":"1000","category":"Housing","date":"2024-05-02"}
		]`,
		BalanceKey: "3960",
	})
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, int64(500000), s.Snapshot().OpeningBalance.Cents)
	assert.Equal(t, int64(396000), s.Available().Cents)
}

func TestLoad_NegativeAvailableRoundTrips(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestStore(t)
	pay, err := s.Add(ctx, income("Pay", "1000", "Salary", "2024-01-01"))
	require.NoError(t, err)
	_, err = s.Add(ctx, expense("Car", "5500", "Transportation", "2024-01-02"))
	require.NoError(t, err)
	removed, err := s.Remove(ctx, pay.ID)
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, "-500", blobs.Snapshot()[BalanceKey])

	reloaded := New(blobs)
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestLoad_KeepsLongTitles(t *testing.T) {
	title := strings.Repeat("a", 201) + strings.Repeat("é", 150)
	blobs := memory.NewWith(map[string]string{
		ExpensesKey: `[{"id":"long","title":"` + title + `","amount":5,"category":"Food","date":"2024-01-01","type":"expense"}]`,
	})
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, title, snap.Transactions[0].Title)
}

func TestLoad_ExponentAmounts(t *testing.T) {
	blobs := memory.NewWith(map[string]string{
		ExpensesKey: `[
			{"id":"a","title":"TV","amount":1e3,"category":"Shopping","date":"2024-01-01","type":"expense"},
			{"id":"b","title":"Gum","amount":2.5E-1,"category":"Food","date":"2024-01-02","type":"expense"}
		]`,
		BalanceKey: "1.5e3",
	})
	s := New(blobs)

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, int64(100000), snap.Transactions[0].Amount.Cents)
	assert.Equal(t, int64(25), snap.Transactions[1].Amount.Cents)
	assert.Equal(t, int64(150000), s.Available().Cents)
}


func TestLoad_StoreErrorIsReturned(t *testing.T) {
	blobs := memory.New()
	boom := errors.New("disk unavailable")
	blobs.FailWith(boom)
	s := New(blobs)

	err := s.Load(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestLoad_ReplacesState(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestStore(t)
	_, err := s.Add(ctx, expense("kept", "1", "Food", "2024-01-01"))
	require.NoError(t, err)
	saved := blobs.Snapshot()

	_, err = s.Add(ctx, expense("dropped", "1", "Food", "2024-01-01"))
	require.NoError(t, err)

	other := New(memory.NewWith(saved))
	require.NoError(t, other.Load(ctx))

	snap := other.Snapshot()
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "kept", snap.Transactions[0].Title)
}
