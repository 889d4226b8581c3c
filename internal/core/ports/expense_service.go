package ports

import (
	"context"
	"time"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
)

// AddExpenseInput carries all data needed to record a new expense.
// OccurredAt is optional; the service uses the current time when nil.
type AddExpenseInput struct {
	OwnerID    string
	Title      string
	Amount     float64
	Category   string
	OccurredAt *time.Time
}

// LedgerEventAction identifies the kind of ledger mutation an event reports.
type LedgerEventAction string

const (
	LedgerExpenseCreated LedgerEventAction = "created"
	LedgerExpenseDeleted LedgerEventAction = "deleted"
)

// LedgerEvent is emitted after a successful ledger mutation. Consumers use
// it to invalidate per-owner caches and record metrics.
type LedgerEvent struct {
	Action    LedgerEventAction
	OwnerID   string
	ExpenseID string
	Category  string
}

// ExpenseService defines use-case operations for the expense ledger.
// Callers must supply an authenticated owner id on every operation.
type ExpenseService interface {
	Add(ctx context.Context, input AddExpenseInput) (*domain.Expense, error)
	List(ctx context.Context, ownerID string) ([]*domain.Expense, error)
	Delete(ctx context.Context, ownerID, expenseID string) error
}
