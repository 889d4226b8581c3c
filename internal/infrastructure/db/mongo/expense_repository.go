package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
)

const expensesCollection = "expenses"

type ExpenseRepository struct {
	coll *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{coll: db.Collection(expensesCollection)}
}

type mongoExpense struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID  string             `bson:"owner_id"`
	Title    string             `bson:"title"`
	Amount   float64            `bson:"amount"`
	Category string             `bson:"category"`
	Date     time.Time          `bson:"date"`
}

func (m mongoExpense) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:         m.ID.Hex(),
		OwnerID:    m.OwnerID,
		Title:      m.Title,
		Amount:     m.Amount,
		Category:   m.Category,
		OccurredAt: m.Date.UTC(),
	}
}

// Create inserts a new expense document and returns it with the assigned id.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoExpense{
		OwnerID:  e.OwnerID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.OccurredAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	created := *e
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// ListByOwner returns every expense whose owner_id matches ownerID, in
// storage-natural order.
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cur.Close(ctx)

	expenses := []*domain.Expense{}
	for cur.Next(ctx) {
		var me mongoExpense
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		expenses = append(expenses, me.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// DeleteOwned removes the expense matching both id and ownerID in a single
// FindOneAndDelete, so the ownership check and the removal cannot race. A
// record owned by someone else reports ErrExpenseNotFound, same as an absent
// one. A malformed id cannot match any document and is treated the same way.
func (r *ExpenseRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrExpenseNotFound
	}

	res := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid, "owner_id": ownerID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner_id lookup index.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	return err
}
