package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
	"github.com/Sukhirthan10/expense-tracker/internal/core/ports"
)

type stubExpenseRepo struct {
	expenses map[string]*domain.Expense
	nextID   int
	failWith error
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{expenses: make(map[string]*domain.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *domain.Expense) (*domain.Expense, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.nextID++
	created := *e
	created.ID = fmt.Sprintf("exp-%d", r.nextID)
	r.expenses[created.ID] = &created
	clone := created
	return &clone, nil
}

func (r *stubExpenseRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Expense, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []*domain.Expense
	for _, e := range r.expenses {
		if e.OwnerID == ownerID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) DeleteOwned(_ context.Context, id, ownerID string) error {
	e, ok := r.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return domain.ErrExpenseNotFound
	}
	delete(r.expenses, id)
	return nil
}

type stubCache struct {
	entries     map[string][]*domain.Expense
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]*domain.Expense)}
}

func (c *stubCache) Get(_ context.Context, ownerID string) ([]*domain.Expense, bool) {
	e, ok := c.entries[ownerID]
	return e, ok
}

func (c *stubCache) Set(_ context.Context, ownerID string, expenses []*domain.Expense) {
	c.entries[ownerID] = expenses
}

func (c *stubCache) Invalidate(_ context.Context, ownerID string) {
	delete(c.entries, ownerID)
	c.invalidated = append(c.invalidated, ownerID)
}

type stubNotifier struct {
	events []ports.LedgerEvent
}

func (n *stubNotifier) Notify(event ports.LedgerEvent) {
	n.events = append(n.events, event)
}

func newExpenseService(repo *stubExpenseRepo, cache *stubCache, notifier *stubNotifier) *ExpenseService {
	return NewExpenseService(repo, cache, notifier, zerolog.Nop())
}

func TestExpenseService_Add_TrimsAndPersists(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := newExpenseService(repo, newStubCache(), &stubNotifier{})

	created, err := svc.Add(context.Background(), ports.AddExpenseInput{
		OwnerID:  "owner-1",
		Title:    "  Coffee  ",
		Amount:   3.5,
		Category: " Food ",
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.Title != "Coffee" || created.Category != "Food" {
		t.Fatalf("expected trimmed fields, got %q / %q", created.Title, created.Category)
	}
	if created.Amount != 3.5 {
		t.Fatalf("unexpected amount: %v", created.Amount)
	}
	if created.OwnerID != "owner-1" {
		t.Fatalf("unexpected owner: %q", created.OwnerID)
	}
	if created.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to default to now")
	}

	listed, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Coffee" || listed[0].Amount != 3.5 {
		t.Fatalf("unexpected list: %+v", listed)
	}
}

func TestExpenseService_Add_UsesSuppliedDate(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := newExpenseService(repo, newStubCache(), &stubNotifier{})

	when := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	created, err := svc.Add(context.Background(), ports.AddExpenseInput{
		OwnerID:    "owner-1",
		Title:      "Rent",
		Amount:     900,
		Category:   "Housing",
		OccurredAt: &when,
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if !created.OccurredAt.Equal(when) {
		t.Fatalf("expected supplied date verbatim, got %v", created.OccurredAt)
	}
}

func TestExpenseService_Add_Validation(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := newExpenseService(repo, newStubCache(), &stubNotifier{})

	cases := []struct {
		name  string
		input ports.AddExpenseInput
		want  error
	}{
		{"empty title", ports.AddExpenseInput{OwnerID: "o", Title: "", Amount: 1, Category: "Food"}, domain.ErrTitleRequired},
		{"blank title", ports.AddExpenseInput{OwnerID: "o", Title: "   ", Amount: 1, Category: "Food"}, domain.ErrTitleRequired},
		{"empty category", ports.AddExpenseInput{OwnerID: "o", Title: "Coffee", Amount: 1, Category: " "}, domain.ErrCategoryRequired},
		{"zero amount", ports.AddExpenseInput{OwnerID: "o", Title: "Coffee", Amount: 0, Category: "Food"}, domain.ErrAmountInvalid},
		{"negative amount", ports.AddExpenseInput{OwnerID: "o", Title: "Coffee", Amount: -2, Category: "Food"}, domain.ErrAmountInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Add(context.Background(), tc.input); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if len(repo.expenses) != 0 {
		t.Fatalf("expected nothing persisted, got %d records", len(repo.expenses))
	}
}

func TestExpenseService_List_EmptyIsNotError(t *testing.T) {
	svc := newExpenseService(newStubExpenseRepo(), newStubCache(), &stubNotifier{})

	listed, err := svc.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if listed == nil || len(listed) != 0 {
		t.Fatalf("expected empty slice, got %v", listed)
	}
}

func TestExpenseService_List_ServesFromCache(t *testing.T) {
	repo := newStubExpenseRepo()
	repo.failWith = fmt.Errorf("store must not be hit")
	cache := newStubCache()
	cache.entries["owner-1"] = []*domain.Expense{{ID: "exp-1", OwnerID: "owner-1", Title: "Coffee", Amount: 3.5, Category: "Food"}}
	svc := newExpenseService(repo, cache, &stubNotifier{})

	listed, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "exp-1" {
		t.Fatalf("expected cached entry, got %+v", listed)
	}
}

func TestExpenseService_MutationsInvalidateCacheAndNotify(t *testing.T) {
	repo := newStubExpenseRepo()
	cache := newStubCache()
	notifier := &stubNotifier{}
	svc := newExpenseService(repo, cache, notifier)

	created, err := svc.Add(context.Background(), ports.AddExpenseInput{OwnerID: "owner-1", Title: "Coffee", Amount: 3.5, Category: "Food"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(cache.invalidated) != 2 {
		t.Fatalf("expected 2 invalidations, got %d", len(cache.invalidated))
	}
	if len(notifier.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(notifier.events))
	}
	if notifier.events[0].Action != ports.LedgerExpenseCreated || notifier.events[1].Action != ports.LedgerExpenseDeleted {
		t.Fatalf("unexpected event order: %+v", notifier.events)
	}
}

// blockingExpenseRepo snapshots its first ListByOwner result and then parks
// until released, so a test can commit a mutation while that read is in
// flight.
type blockingExpenseRepo struct {
	*stubExpenseRepo
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingExpenseRepo() *blockingExpenseRepo {
	return &blockingExpenseRepo{
		stubExpenseRepo: newStubExpenseRepo(),
		started:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (r *blockingExpenseRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Expense, error) {
	out, err := r.stubExpenseRepo.ListByOwner(ctx, ownerID)
	r.once.Do(func() {
		close(r.started)
		<-r.release
	})
	return out, err
}

func TestExpenseService_List_StaleSnapshotNotCached(t *testing.T) {
	repo := newBlockingExpenseRepo()
	cache := newStubCache()
	svc := NewExpenseService(repo, cache, &stubNotifier{}, zerolog.Nop())

	// First List reads the store (empty) and parks before returning.
	listDone := make(chan struct{})
	go func() {
		defer close(listDone)
		if _, err := svc.List(context.Background(), "owner-1"); err != nil {
			t.Errorf("in-flight List failed: %v", err)
		}
	}()
	<-repo.started

	// A mutation commits and invalidates while that read is in flight.
	if _, err := svc.Add(context.Background(), ports.AddExpenseInput{OwnerID: "owner-1", Title: "Coffee", Amount: 3.5, Category: "Food"}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	close(repo.release)
	<-listDone

	// The parked List's empty snapshot must not have been written back; a
	// List issued after the Add has to see the new record.
	listed, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Coffee" {
		t.Fatalf("List after Add returned %+v, want the record added during the in-flight read", listed)
	}
}

func TestExpenseService_OwnershipScoping(t *testing.T) {
	repo := newStubExpenseRepo()
	svc := newExpenseService(repo, newStubCache(), &stubNotifier{})

	aExpense, err := svc.Add(context.Background(), ports.AddExpenseInput{OwnerID: "account-a", Title: "Lunch", Amount: 12, Category: "Food"})
	if err != nil {
		t.Fatalf("Add for A failed: %v", err)
	}
	if _, err := svc.Add(context.Background(), ports.AddExpenseInput{OwnerID: "account-b", Title: "Taxi", Amount: 20, Category: "Transport"}); err != nil {
		t.Fatalf("Add for B failed: %v", err)
	}

	aList, err := svc.List(context.Background(), "account-a")
	if err != nil {
		t.Fatalf("List for A failed: %v", err)
	}
	if len(aList) != 1 || aList[0].ID != aExpense.ID {
		t.Fatalf("expected only A's record, got %+v", aList)
	}

	// B cannot delete A's record; the record must survive.
	if err := svc.Delete(context.Background(), "account-b", aExpense.ID); err != domain.ErrExpenseNotFound {
		t.Fatalf("expected ErrExpenseNotFound for foreign delete, got %v", err)
	}
	if _, ok := repo.expenses[aExpense.ID]; !ok {
		t.Fatalf("A's record must not be deleted by B")
	}

	if err := svc.Delete(context.Background(), "account-a", aExpense.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	aList, err = svc.List(context.Background(), "account-a")
	if err != nil {
		t.Fatalf("List for A failed: %v", err)
	}
	if len(aList) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", aList)
	}
}
