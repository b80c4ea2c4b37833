package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"wallet/internal/core"
	"wallet/internal/log"
)

// Keys under which the ledger is stored.
const (
	ExpensesKey = "expenses"
	BalanceKey  = "walletBalance"
)

var errNegativeOpening = errors.New("stored balance implies a negative opening balance")

type record struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Type     string      `json:"type"`
}

// Load replaces the in-memory state with what the blob store holds. Missing
// or unreadable values fall back to an empty ledger and the default opening
// balance; only blob store failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawTxs, ok, err := s.blobs.Get(ctx, ExpensesKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", ExpensesKey, err)
	}
	txs := newCollection()
	if ok {
		txs = s.decodeTransactions(ctx, rawTxs)
	}

	rawBalance, ok, err := s.blobs.Get(ctx, BalanceKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", BalanceKey, err)
	}
	opening := s.defaultOpening
	if ok {
		if o, err := openingFromStored(rawBalance, txs); err == nil {
			opening = o
		} else {
			s.logger.WarnContext(ctx, "Ignoring unreadable wallet balance",
				log.FieldKey, BalanceKey,
				log.FieldErrorType, log.ErrorTypeCorruptData,
				log.FieldError, err)
		}
	}

	s.txs = txs
	s.opening = opening

	s.logger.InfoContext(ctx, "Ledger loaded", log.NewFields().
		WithOperation(log.OpLoad).
		WithBalance(s.opening.Cents, s.availableLocked().Cents).
		ToSlice()...)
	return nil
}

// Persist writes the current state to the blob store. The balance key holds
// the available balance, the figure older front ends kept there.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := encodeTransactions(s.txs.slice())
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.blobs.Set(ctx, ExpensesKey, data); err != nil {
		return fmt.Errorf("persist %s: %w", ExpensesKey, err)
	}
	if err := s.blobs.Set(ctx, BalanceKey, s.availableLocked().String()); err != nil {
		return fmt.Errorf("persist %s: %w", BalanceKey, err)
	}
	return nil
}

func encodeTransactions(txs []core.Transaction) (string, error) {
	records := make([]record, len(txs))
	for i, tx := range txs {
		records[i] = record{
			ID:       tx.ID,
			Title:    tx.Title,
			Amount:   json.Number(tx.Amount.String()),
			Category: tx.Category,
			Date:     tx.Date.String(),
			Type:     tx.Type.String(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTransactions reads the stored array. Records are decoded loosely so
// data written by older front ends (numeric ids, string amounts, "price"
// instead of "amount", no type) still loads; records that fail validation
// are skipped.
func (s *Store) decodeTransactions(ctx context.Context, raw string) *collection {
	txs := newCollection()

	var items []map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		s.logger.WarnContext(ctx, "Ignoring unreadable transactions",
			log.FieldKey, ExpensesKey,
			log.FieldErrorType, log.ErrorTypeCorruptData,
			log.FieldError, err)
		return txs
	}

	for i, item := range items {
		fields := make(map[string]string, len(item))
		for k, v := range item {
			fields[k] = fieldString(v)
		}

		tx, err := core.DraftFromFields(fields).Transaction(fields["id"])
		if err == nil && !txs.append(tx) {
			err = errDuplicateID
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping stored transaction",
				"index", i,
				log.FieldTransactionID, fields["id"],
				log.FieldErrorType, log.ErrorTypeCorruptData,
				log.FieldError, err)
		}
	}
	return txs
}

// openingFromStored turns a stored available balance back into the opening
// balance by undoing the loaded transactions.
func openingFromStored(raw string, txs *collection) (core.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return core.Money{}, err
	}
	cents, err := core.ParseBalanceToCents(d.Abs().String())
	if err != nil {
		return core.Money{}, err
	}
	if d.IsNegative() {
		cents = -cents
	}

	income, expense := txs.totals()
	opening := core.Money{Cents: cents}.Add(expense).Sub(income)
	if opening.Cents < 0 {
		return core.Money{}, errNegativeOpening
	}
	return opening, nil
}

func fieldString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		// exponent forms like 1e3 become plain decimals
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d.String()
		}
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
