package domain

import (
	"errors"
	"time"
)

var ErrExpenseNotFound = errors.New("expense not found")

// Validation errors reported before any persistence attempt.
var ErrTitleRequired = errors.New("title is required")
var ErrCategoryRequired = errors.New("category is required")
var ErrAmountInvalid = errors.New("amount must be a positive number")

// Expense is a single ledger entry. OwnerID always equals the id of the
// account that created the record; every query is scoped by it.
type Expense struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	OwnerID    string    `json:"owner_id" bson:"owner_id"`
	Title      string    `json:"title" bson:"title"`
	Amount     float64   `json:"amount" bson:"amount"`
	Category   string    `json:"category" bson:"category"`
	OccurredAt time.Time `json:"date" bson:"date"`
}
