package ports

import (
	"context"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
)

// ExpenseRepository defines persistence operations for expenses.
// Every query carries the owner id; the repository never returns or removes
// a record owned by a different account.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	// ListByOwner returns all expenses owned by ownerID, in storage order.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Expense, error)
	// DeleteOwned atomically locates and removes the expense matching both id
	// and ownerID in a single storage operation. Returns ErrExpenseNotFound
	// when no such record exists, including when the record is owned by
	// someone else.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}
