package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
	"github.com/Sukhirthan10/expense-tracker/internal/core/ports"
)

// LedgerNotifier receives events for successful ledger mutations. The queue
// dispatcher implements it; a no-op is acceptable in tests.
type LedgerNotifier interface {
	Notify(event ports.LedgerEvent)
}

// ListCache is a read-through cache for per-owner expense lists (Redis).
// Invalidate must take effect before the call returns so that a List issued
// after a mutation never observes the pre-mutation snapshot.
type ListCache interface {
	Get(ctx context.Context, ownerID string) ([]*domain.Expense, bool)
	Set(ctx context.Context, ownerID string, expenses []*domain.Expense)
	Invalidate(ctx context.Context, ownerID string)
}

type ExpenseService struct {
	repo     ports.ExpenseRepository
	cache    ListCache
	notifier LedgerNotifier
	logger   zerolog.Logger

	// gens tracks a per-owner generation, bumped on every mutation before
	// the cache is invalidated. List captures the generation before reading
	// the store and only populates the cache when it is unchanged, so a
	// snapshot taken before a concurrent mutation can never be written back
	// after that mutation's invalidation.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewExpenseService(repo ports.ExpenseRepository, cache ListCache, notifier LedgerNotifier, logger zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		gens:     make(map[string]uint64),
	}
}

func (s *ExpenseService) generation(ownerID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[ownerID]
}

func (s *ExpenseService) bumpGeneration(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[ownerID]++
}

// Add validates and persists a new expense owned by input.OwnerID.
// Validation happens before any persistence attempt; nothing is written when
// the input is rejected.
func (s *ExpenseService) Add(ctx context.Context, input ports.AddExpenseInput) (*domain.Expense, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if input.Amount <= 0 {
		return nil, domain.ErrAmountInvalid
	}

	occurredAt := time.Now().UTC()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	expense := &domain.Expense{
		OwnerID:    input.OwnerID,
		Title:      title,
		Amount:     input.Amount,
		Category:   category,
		OccurredAt: occurredAt,
	}

	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to create expense")
		return nil, err
	}

	s.bumpGeneration(created.OwnerID)
	s.cache.Invalidate(ctx, created.OwnerID)
	s.logger.Info().Str("expense_id", created.ID).Str("owner_id", created.OwnerID).Str("category", created.Category).Msg("expense created")
	s.notifier.Notify(ports.LedgerEvent{
		Action:    ports.LedgerExpenseCreated,
		OwnerID:   created.OwnerID,
		ExpenseID: created.ID,
		Category:  created.Category,
	})

	return created, nil
}

// List returns every expense owned by ownerID. A caller with no expenses
// gets an empty slice, not an error.
func (s *ExpenseService) List(ctx context.Context, ownerID string) ([]*domain.Expense, error) {
	gen := s.generation(ownerID)

	if cached, ok := s.cache.Get(ctx, ownerID); ok {
		return cached, nil
	}

	expenses, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list expenses")
		return nil, err
	}
	if expenses == nil {
		expenses = []*domain.Expense{}
	}

	// A mutation that committed while we were reading has already bumped the
	// generation and invalidated the key; writing our snapshot back would
	// resurrect pre-mutation state for the TTL. Serve it, don't cache it.
	if s.generation(ownerID) == gen {
		s.cache.Set(ctx, ownerID, expenses)
	}
	return expenses, nil
}

// Delete removes the expense only when it is owned by ownerID. The ownership
// check and the removal are a single storage operation; a foreign-owned
// record is indistinguishable from an absent one.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, expenseID string) error {
	if err := s.repo.DeleteOwned(ctx, expenseID, ownerID); err != nil {
		return err
	}

	s.bumpGeneration(ownerID)
	s.cache.Invalidate(ctx, ownerID)
	s.logger.Info().Str("expense_id", expenseID).Str("owner_id", ownerID).Msg("expense deleted")
	s.notifier.Notify(ports.LedgerEvent{
		Action:    ports.LedgerExpenseDeleted,
		OwnerID:   ownerID,
		ExpenseID: expenseID,
	})
	return nil
}
