// Package ledger owns the wallet's transactions and opening balance.
//
// Every mutation is validated, checked against the available balance,
// applied and persisted as one step: if any part fails the in-memory state
// is left exactly as it was. Readers get copies through Snapshot.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"wallet/internal/blob"
	"wallet/internal/core"
	"wallet/internal/log"
)

// DefaultOpeningBalance is the wallet baseline used until one is stored.
var DefaultOpeningBalance = core.Money{Cents: 500000}

var errDuplicateID = errors.New("id already in use")

// Snapshot is a read-only copy of the ledger.
type Snapshot struct {
	Transactions   []core.Transaction
	OpeningBalance core.Money
}

// Store is the in-memory ledger backed by a blob store. It is safe for
// concurrent use.
type Store struct {
	mu             sync.Mutex
	blobs          blob.Store
	logger         *log.Logger
	newID          func() string
	defaultOpening core.Money

	txs     *collection
	opening core.Money
}

// Option configures a Store
type Option func(s *Store)

// WithLogger sets the logger used for mutation and load events
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// WithIDGenerator replaces the random UUID generator
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithDefaultOpeningBalance sets the balance used when none is stored
func WithDefaultOpeningBalance(m core.Money) Option {
	return func(s *Store) {
		s.defaultOpening = m
	}
}

// New returns an empty ledger persisting through blobs. Call Load to
// restore previously saved state.
func New(blobs blob.Store, opts ...Option) *Store {
	s := &Store{
		blobs:          blobs,
		logger:         log.Discard(),
		newID:          uuid.NewString,
		defaultOpening: DefaultOpeningBalance,
		txs:            newCollection(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.opening = s.defaultOpening
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Transactions:   s.txs.slice(),
		OpeningBalance: s.opening,
	}
}

// Get returns the transaction with the given id.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.get(id)
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.len()
}

// Available returns opening balance plus income minus expenses.
func (s *Store) Available() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked()
}

func (s *Store) availableLocked() core.Money {
	income, expense := s.txs.totals()
	return s.opening.Add(income).Sub(expense)
}

// Add records a new transaction. Expenses larger than the available
// balance are refused with an InsufficientFundsError.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := d.Transaction(s.newID())
	if err != nil {
		return core.Transaction{}, s.reject(ctx, log.OpCreate, asValidation(err))
	}

	if tx.IsExpense() {
		if available := s.availableLocked(); tx.Amount.Cents > available.Cents {
			return core.Transaction{}, s.reject(ctx, log.OpCreate,
				&InsufficientFundsError{Requested: tx.Amount, Available: available})
		}
	}

	if !s.txs.append(tx) {
		return core.Transaction{}, s.reject(ctx, log.OpCreate, &ValidationError{Field: "id", Err: errDuplicateID})
	}
	if err := s.persistLocked(ctx); err != nil {
		s.txs.remove(tx.ID)
		return core.Transaction{}, err
	}

	s.logMutation(ctx, "Transaction added", log.OpCreate, tx)
	return tx, nil
}

// Update merges patch into the transaction with the given id. The type of
// a transaction cannot change. For expenses only the increase over the old
// amount is checked against the available balance; for income only the
// decrease is.
func (s *Store) Update(ctx context.Context, id string, patch core.Patch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.txs.get(id)
	if !ok {
		return core.Transaction{}, s.reject(ctx, log.OpUpdate, &NotFoundError{ID: id})
	}

	updated, err := patch.Apply(old)
	if err != nil {
		return core.Transaction{}, s.reject(ctx, log.OpUpdate, asValidation(err))
	}

	delta := updated.Amount.Sub(old.Amount)
	if updated.IsIncome() {
		delta = old.Amount.Sub(updated.Amount)
	}
	if delta.Cents > 0 {
		if available := s.availableLocked(); delta.Cents > available.Cents {
			return core.Transaction{}, s.reject(ctx, log.OpUpdate,
				&InsufficientFundsError{Requested: delta, Available: available})
		}
	}

	if sameTransaction(old, updated) {
		return old, nil
	}

	s.txs.replace(updated)
	if err := s.persistLocked(ctx); err != nil {
		s.txs.replace(old)
		return core.Transaction{}, err
	}

	s.logMutation(ctx, "Transaction updated", log.OpUpdate, updated)
	return updated, nil
}

// Remove deletes the transaction with the given id. Removing an unknown id
// is a no-op that reports false and does not touch storage.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.txs.get(id)
	if !ok {
		return false, nil
	}

	restore, _ := s.txs.remove(id)
	if err := s.persistLocked(ctx); err != nil {
		restore()
		return false, err
	}

	s.logMutation(ctx, "Transaction removed", log.OpDelete, old)
	return true, nil
}

// SetOpeningBalance replaces the wallet baseline. A zero balance is
// allowed; one that leaves the available balance negative is not.
func (s *Store) SetOpeningBalance(ctx context.Context, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cents, err := core.ParseBalanceToCents(amount)
	if err != nil {
		return s.reject(ctx, log.OpSetBalance, &ValidationError{Field: "amount", Err: err})
	}
	next := core.Money{Cents: cents}

	if next.Cents < s.opening.Cents {
		reduction := s.opening.Sub(next)
		if available := s.availableLocked(); reduction.Cents > available.Cents {
			return s.reject(ctx, log.OpSetBalance,
				&InsufficientFundsError{Requested: reduction, Available: available})
		}
	}

	return s.swapOpeningLocked(ctx, log.OpSetBalance, next)
}

// Deposit raises the opening balance by a positive amount.
func (s *Store) Deposit(ctx context.Context, amount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return s.reject(ctx, log.OpDeposit, &ValidationError{Field: "amount", Err: err})
	}
	return s.swapOpeningLocked(ctx, log.OpDeposit, s.opening.Add(core.Money{Cents: cents}))
}

func (s *Store) swapOpeningLocked(ctx context.Context, op string, next core.Money) error {
	prev := s.opening
	s.opening = next
	if err := s.persistLocked(ctx); err != nil {
		s.opening = prev
		return err
	}

	s.logger.InfoContext(ctx, "Opening balance changed", log.NewFields().
		WithOperation(op).
		WithBalance(s.opening.Cents, s.availableLocked().Cents).
		ToSlice()...)
	return nil
}

func (s *Store) reject(ctx context.Context, op string, err error) error {
	errorType := log.ErrorTypeValidation
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		errorType = log.ErrorTypeInsufficientFunds
	case errors.Is(err, ErrNotFound):
		errorType = log.ErrorTypeNotFound
	}
	s.logger.WarnContext(ctx, "Ledger change rejected", log.NewFields().
		WithOperation(op).
		WithErrorType(errorType).
		WithError(err).
		ToSlice()...)
	return err
}

func (s *Store) logMutation(ctx context.Context, msg, op string, tx core.Transaction) {
	s.logger.InfoContext(ctx, msg, log.NewFields().
		WithOperation(op).
		WithTransaction(tx.ID, tx.Title, tx.Amount.Cents, tx.Category, tx.Type.String(), tx.Date.String()).
		WithBalance(s.opening.Cents, s.availableLocked().Cents).
		ToSlice()...)
}

func sameTransaction(a, b core.Transaction) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Amount == b.Amount &&
		a.Category == b.Category &&
		a.Date.Equal(b.Date.Time) &&
		a.Type == b.Type
}
