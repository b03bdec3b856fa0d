package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/blob"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/persist"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// brokenStore accepts reads of an empty store and rejects every write.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (brokenStore) Set(context.Context, string, string) error { return errors.New("read-only") }

func newTestTracker(t *testing.T, store blob.Store) (*Tracker, *fixedClock) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)}
	tr, err := Open(context.Background(), persist.NewBridge(store, nil, 0), Options{
		IDs:      core.NewClock(clock.Now),
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tr, clock
}

func money(cents int64) core.Money { return core.MoneyFromCents(cents) }

func TestAddTransactionPersists(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	tr, _ := newTestTracker(t, store)

	tx := tr.AddTransaction(ctx, "Coffee", "Others", money(350), core.Expense)
	if tx.ID == 0 {
		t.Fatal("expected an id")
	}
	if got := tr.Transactions(); len(got) != 1 || got[0] != tx {
		t.Fatalf("unexpected transactions %+v", got)
	}

	raw, ok, _ := store.Get(ctx, persist.KeyTransactions)
	if !ok || !strings.Contains(raw, `"name":"Coffee"`) {
		t.Fatalf("transaction not persisted: %q", raw)
	}
}

func TestIDsAreUniqueWithinAMillisecond(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	a := tr.AddTransaction(ctx, "a", "Rent", money(1), core.Expense)
	b := tr.AddTransaction(ctx, "b", "Rent", money(1), core.Expense)
	if a.ID == b.ID {
		t.Fatalf("ids collide: %d", a.ID)
	}
}

func TestEditTransaction(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tx := tr.AddTransaction(ctx, "Lunch", "Groceries", money(1200), core.Expense)

	name := "Dinner"
	if !tr.EditTransaction(ctx, tx.ID, core.Patch{Name: &name}) {
		t.Fatal("expected a match")
	}
	got, _ := tr.Transaction(tx.ID)
	if got.Name != "Dinner" || got.Amount.Cents() != 1200 || got.Category != "Groceries" || got.Type != core.Expense {
		t.Fatalf("only the name should change: %+v", got)
	}

	if tr.EditTransaction(ctx, 42, core.Patch{Name: &name}) {
		t.Fatal("unknown id should not match")
	}
	if len(tr.Transactions()) != 1 {
		t.Fatal("unknown id edit must not change the ledger")
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tx := tr.AddTransaction(ctx, "Lunch", "Groceries", money(1200), core.Expense)

	if !tr.DeleteTransaction(ctx, tx.ID) {
		t.Fatal("expected first delete to match")
	}
	if tr.DeleteTransaction(ctx, tx.ID) {
		t.Fatal("second delete should be a no-op")
	}
	if len(tr.Transactions()) != 0 {
		t.Fatal("ledger should be empty")
	}
}

func TestBudgetUsage(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tr.SetBudget(ctx, core.Target{Category: "Rent", TimePeriod: core.Monthly, Amount: money(10000)})
	tr.AddTransaction(ctx, "first", "Rent", money(4000), core.Expense)
	tr.AddTransaction(ctx, "second", "Rent", money(4500), core.Expense)

	u, ok := tr.BudgetUsage("Rent")
	if !ok {
		t.Fatal("expected a Rent budget")
	}
	if u.Used.Cents() != 8500 || !u.Percentage.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("unexpected usage %+v", u)
	}
	if _, ok := tr.BudgetUsage("Groceries"); ok {
		t.Fatal("no Groceries budget was set")
	}
}

func TestBudgetUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	tr, _ := newTestTracker(t, store)

	tr.SetBudget(ctx, core.Target{Category: "Rent", TimePeriod: core.Monthly, Amount: money(100)})
	tr.SetBudget(ctx, core.Target{Category: "Rent", TimePeriod: core.Monthly, Amount: money(200)})
	tr.SetBudget(ctx, core.Target{Category: "Rent", TimePeriod: core.Weekly, Amount: money(50)})

	budgets := tr.Budgets()
	if len(budgets) != 2 || budgets[0].Amount.Cents() != 200 || budgets[0].Type != core.BudgetTarget {
		t.Fatalf("unexpected budgets %+v", budgets)
	}

	if n := tr.DeleteBudget(ctx, "Rent"); n != 2 {
		t.Fatalf("expected both Rent budgets removed, got %d", n)
	}
	raw, _, _ := store.Get(ctx, persist.KeyBudgets)
	if raw != "[]" {
		t.Fatalf("expected persisted empty list, got %q", raw)
	}
}

func TestGoalProgress(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tr.SetGoal(ctx, core.Target{Category: "Salary", TimePeriod: core.Monthly, Amount: money(100000)})
	tr.AddTransaction(ctx, "pay", "Salary", money(100000), core.Income)

	u, ok := tr.GoalProgress("Salary")
	if !ok || !u.Percentage.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected progress %+v", u)
	}
	if n := tr.DeleteGoal(ctx, "Salary"); n != 1 {
		t.Fatalf("expected one goal removed, got %d", n)
	}
	if len(tr.GoalProgresses()) != 0 {
		t.Fatal("goal list should be empty")
	}
}

func TestGoalProgressCountsEveryType(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tr.AddTransaction(ctx, "gift", "Others", money(10000), core.Income)
	tr.AddTransaction(ctx, "misc", "Others", money(5000), core.Expense)
	tr.SetGoal(ctx, core.Target{Category: "Others", TimePeriod: core.Monthly, Amount: money(20000)})
	tr.SetBudget(ctx, core.Target{Category: "Others", TimePeriod: core.Monthly, Amount: money(10000)})

	goal, ok := tr.GoalProgress("Others")
	if !ok || goal.Used.Cents() != 15000 || !goal.Percentage.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("goal should sum income and expense on its category: %+v", goal)
	}
	budget, _ := tr.BudgetUsage("Others")
	if budget.Used.Cents() != 5000 || !budget.Percentage.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("budget should sum expenses only: %+v", budget)
	}
}

func TestMonthTotalsOutOfRangeMonth(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())
	tr.AddTransaction(ctx, "pay", "Salary", money(300000), core.Income)

	for _, m := range []time.Month{0, 13} {
		if got := tr.MonthTotals(m); !got.Income.IsZero() || !got.Expense.IsZero() {
			t.Fatalf("month %d should match nothing, got %+v", m, got)
		}
	}
	if got := tr.MonthTotals(time.January); got.Income.Cents() != 300000 {
		t.Fatalf("unexpected January totals %+v", got)
	}
}

func TestAggregationsSeeMutations(t *testing.T) {
	ctx := context.Background()
	tr, clock := newTestTracker(t, blob.NewMemory())

	tr.AddTransaction(ctx, "pay", "Salary", money(300000), core.Income)
	if got := tr.MonthTotals(time.January); got.Income.Cents() != 300000 {
		t.Fatalf("unexpected totals %+v", got)
	}

	tr.AddTransaction(ctx, "rent", "Rent", money(120000), core.Expense)
	got := tr.MonthTotals(time.January)
	if got.Expense.Cents() != 120000 || got.Net.Cents() != 180000 {
		t.Fatalf("cached totals were not refreshed: %+v", got)
	}

	clock.Set(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))
	tr.AddTransaction(ctx, "march rent", "Rent", money(99900), core.Expense)
	if got := tr.MonthTotals(time.January); got.Expense.Cents() != 120000 {
		t.Fatalf("March transaction leaked into January: %+v", got)
	}

	cats := tr.CategoryTotals(time.January, core.Expense)
	if len(cats) != 4 || cats[0].Category != "Rent" || cats[0].Amount.Cents() != 120000 {
		t.Fatalf("unexpected category totals %+v", cats)
	}

	all := tr.CategoryTotalsByType(core.Expense)
	if all[0].Amount.Cents() != 219900 {
		t.Fatalf("unexpected all-time Rent total %+v", all[0])
	}
	if o := tr.OverallTotals(); o.Count != 3 || o.Net.Cents() != 300000-219900 {
		t.Fatalf("unexpected overall totals %+v", o)
	}
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	tr, _ := newTestTracker(t, store)

	if !tr.AddCategory(ctx, "Pets", core.Expense) {
		t.Fatal("expected Pets to be added")
	}
	if tr.AddCategory(ctx, "Pets", core.Expense) {
		t.Fatal("duplicate should be ignored")
	}
	if tr.AddCategory(ctx, "Gifts", core.TransactionType("other")) {
		t.Fatal("unknown type should be ignored")
	}
	set := tr.Categories()
	if len(set.Expense) != 5 || set.Expense[4] != "Pets" {
		t.Fatalf("unexpected categories %+v", set)
	}

	raw, _, _ := store.Get(ctx, persist.KeyCategories)
	if !strings.Contains(raw, `"Pets"`) {
		t.Fatalf("categories not persisted: %q", raw)
	}
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, brokenStore{})

	tr.AddTransaction(ctx, "Coffee", "Others", money(350), core.Expense)
	tr.SetBudget(ctx, core.Target{Category: "Others", TimePeriod: core.Monthly, Amount: money(1000)})
	if len(tr.Transactions()) != 1 || len(tr.Budgets()) != 1 {
		t.Fatal("mutations must apply even when the blob store rejects writes")
	}
}

func TestOpenRestoresState(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	first, _ := newTestTracker(t, store)
	tx := first.AddTransaction(ctx, "pay", "Salary", money(5000), core.Income)
	first.SetGoal(ctx, core.Target{Category: "Salary", TimePeriod: core.Weekly, Amount: money(10000)})

	second, _ := newTestTracker(t, store)
	if got, ok := second.Transaction(tx.ID); !ok || got.Amount.Cents() != 5000 {
		t.Fatalf("transaction not restored: %+v", got)
	}
	goals := second.Goals()
	if len(goals) != 1 || goals[0].TimePeriod != core.Weekly {
		t.Fatalf("goals not restored: %+v", goals)
	}

	next := second.AddTransaction(ctx, "again", "Salary", money(1), core.Income)
	if next.ID <= tx.ID {
		t.Fatalf("new id %d must follow restored id %d", next.ID, tx.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, blob.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.AddTransaction(ctx, "x", "Others", money(100), core.Expense)
			_ = tr.MonthTotals(time.January)
		}()
	}
	wg.Wait()

	if got := tr.OverallTotals(); got.Count != 20 || got.Expense.Cents() != 2000 {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestMutationLogs(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Output: &buf})
	tr, err := Open(ctx, persist.NewBridge(blob.NewMemory(), nil, 0), Options{Location: time.UTC, Logger: logger})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tx := tr.AddTransaction(ctx, "rent", "Rent", money(1000), core.Expense)
	tr.DeleteTransaction(ctx, tx.ID)
	tr.SetBudget(ctx, core.Target{Category: "Rent", TimePeriod: core.Monthly, Amount: money(5000)})
	tr.DeleteBudget(ctx, "Rent")
	tr.MonthTotals(time.March)

	out := buf.String()
	for _, want := range []string{
		"operation=create",
		"operation=delete",
		"component=targets",
		"operation=upsert",
		"component=cache",
		"month=3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in logs:\n%s", want, out)
		}
	}
}
