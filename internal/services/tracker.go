package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/persist"
)

// Options tune a Tracker. Zero values pick the defaults.
type Options struct {
	IDs       core.IDGenerator
	Location  *time.Location
	CacheSize int
	Logger    *log.Logger
}

// Tracker is the application session: it owns the stores, mirrors every
// change through the persistence bridge and memoizes aggregations until the
// next mutation. All methods are safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	ledger     *ledger.Ledger
	budgets    *ledger.Targets
	goals      *ledger.Targets
	categories *ledger.Categories

	bridge    *persist.Bridge
	loc       *time.Location
	logger    *log.Logger
	targetLog *log.Logger
	cacheLog  *log.Logger

	usages   cache.Cache[[]aggregate.Usage]
	months   cache.Cache[aggregate.MonthTotals]
	byCat    cache.Cache[[]aggregate.CategoryAmount]
	overall  cache.Cache[aggregate.Totals]
	purgeAll []func()
}

// Open loads the initial state through bridge and returns a ready Tracker.
func Open(ctx context.Context, bridge *persist.Bridge, opts Options) (*Tracker, error) {
	st, err := bridge.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return newTracker(bridge, st, opts), nil
}

func newTracker(bridge *persist.Bridge, st persist.State, opts Options) *Tracker {
	if opts.IDs == nil {
		opts.IDs = core.NewClock(nil)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = 64
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	t := &Tracker{
		ledger:     ledger.NewLedger(opts.IDs, st.Transactions),
		budgets:    ledger.NewTargets(st.Budgets),
		goals:      ledger.NewTargets(st.Goals),
		categories: ledger.NewCategories(st.Categories),
		bridge:     bridge,
		loc:        opts.Location,
		logger:     opts.Logger.WithComponent(log.ComponentLedger),
		targetLog:  opts.Logger.WithComponent(log.ComponentTargets),
		cacheLog:   opts.Logger.WithComponent(log.ComponentCache),
		usages:     cache.NewLRUCache[[]aggregate.Usage](opts.CacheSize),
		months:     cache.NewLRUCache[aggregate.MonthTotals](opts.CacheSize),
		byCat:      cache.NewLRUCache[[]aggregate.CategoryAmount](opts.CacheSize),
		overall:    cache.NewLRUCache[aggregate.Totals](opts.CacheSize),
	}
	t.purgeAll = []func(){t.usages.Purge, t.months.Purge, t.byCat.Purge, t.overall.Purge}
	return t
}

// Location is the zone month boundaries are computed in.
func (t *Tracker) Location() *time.Location { return t.loc }

// AddTransaction records a transaction and returns it with its id. Input is
// expected to have passed the form checks already.
func (t *Tracker) AddTransaction(ctx context.Context, name, category string, amount core.Money, typ core.TransactionType) core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx := t.ledger.Add(name, category, amount, typ)
	t.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.Name, tx.Category, tx.Amount.String(), string(tx.Type)).ToSlice()...)
	t.changedTransactions(ctx)
	return tx
}

// EditTransaction merges patch into the transaction with id. Unknown ids are
// a no-op; the result only reports whether a record matched.
func (t *Tracker) EditTransaction(ctx context.Context, id int64, patch core.Patch) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	matched := t.ledger.Edit(id, patch)
	t.logger.InfoContext(ctx, "Transaction edited",
		log.FieldOperation, log.OpUpdate, log.FieldID, id, log.FieldMatched, matched)
	t.changedTransactions(ctx)
	return matched
}

// DeleteTransaction removes the transaction with id. Deleting twice is a
// no-op.
func (t *Tracker) DeleteTransaction(ctx context.Context, id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	matched := t.ledger.Delete(id)
	t.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete, log.FieldID, id, log.FieldMatched, matched)
	t.changedTransactions(ctx)
	return matched
}

// Transaction looks a single transaction up by id.
func (t *Tracker) Transaction(id int64) (core.Transaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Get(id)
}

// Transactions returns every transaction in insertion order.
func (t *Tracker) Transactions() []core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.List()
}

// SetBudget upserts a budget keyed by category and time period.
func (t *Tracker) SetBudget(ctx context.Context, budget core.Target) {
	budget.Type = core.BudgetTarget
	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed := t.budgets.Find(budget.Category, budget.TimePeriod)
	t.budgets.Upsert(budget)
	t.logTarget(ctx, "Budget set", budget, existed)
	t.purge()
	t.persist(ctx, persist.KeyBudgets, func() error {
		return t.bridge.SaveBudgets(ctx, t.budgets.List())
	})
}

// DeleteBudget removes every budget for category and returns how many went.
func (t *Tracker) DeleteBudget(ctx context.Context, category string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.budgets.DeleteByCategory(category)
	t.targetLog.InfoContext(ctx, "Budget deleted",
		log.FieldOperation, log.OpDelete, log.FieldCategory, category, log.FieldCount, n)
	t.purge()
	t.persist(ctx, persist.KeyBudgets, func() error {
		return t.bridge.SaveBudgets(ctx, t.budgets.List())
	})
	return n
}

func (t *Tracker) Budgets() []core.Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.budgets.List()
}

// SetGoal upserts a goal keyed by category and time period.
func (t *Tracker) SetGoal(ctx context.Context, goal core.Target) {
	goal.Type = core.GoalTarget
	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed := t.goals.Find(goal.Category, goal.TimePeriod)
	t.goals.Upsert(goal)
	t.logTarget(ctx, "Goal set", goal, existed)
	t.purge()
	t.persist(ctx, persist.KeyGoals, func() error {
		return t.bridge.SaveGoals(ctx, t.goals.List())
	})
}

// DeleteGoal removes every goal for category and returns how many went.
func (t *Tracker) DeleteGoal(ctx context.Context, category string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.goals.DeleteByCategory(category)
	t.targetLog.InfoContext(ctx, "Goal deleted",
		log.FieldOperation, log.OpDelete, log.FieldCategory, category, log.FieldCount, n)
	t.purge()
	t.persist(ctx, persist.KeyGoals, func() error {
		return t.bridge.SaveGoals(ctx, t.goals.List())
	})
	return n
}

func (t *Tracker) Goals() []core.Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goals.List()
}

// AddCategory registers a custom category for typ. It reports false when the
// label was already present or typ is unknown.
func (t *Tracker) AddCategory(ctx context.Context, category string, typ core.TransactionType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	added := t.categories.AddCustom(category, typ)
	t.logger.InfoContext(ctx, "Category added", log.FieldCategory, category, log.FieldType, string(typ), log.FieldMatched, added)
	t.purge()
	t.persist(ctx, persist.KeyCategories, func() error {
		return t.bridge.SaveCategories(ctx, t.categories.Set())
	})
	return added
}

// HasCategory reports whether category is registered for typ.
func (t *Tracker) HasCategory(category string, typ core.TransactionType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.categories.Contains(category, typ)
}

// Counts returns the number of transactions, budgets and goals held.
func (t *Tracker) Counts() (transactions, budgets, goals int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Len(), t.budgets.Len(), t.goals.Len()
}

// Categories returns a copy of the registry contents.
func (t *Tracker) Categories() core.CategorySet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.categories.Set()
}

// BudgetUsages returns the usage of every budget, in store order.
func (t *Tracker) BudgetUsages() []aggregate.Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targetUsages("budgets", t.budgets, aggregate.BudgetUsage)
}

// GoalProgresses returns the progress of every goal, in store order.
func (t *Tracker) GoalProgresses() []aggregate.Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targetUsages("goals", t.goals, aggregate.GoalProgress)
}

// BudgetUsage returns the usage of the budget for category. When budgets for
// several time periods exist the last one listed wins.
func (t *Tracker) BudgetUsage(category string) (aggregate.Usage, bool) {
	return lastFor(t.BudgetUsages(), category)
}

// GoalProgress returns the progress toward the goal for category. When goals
// for several time periods exist the last one listed wins.
func (t *Tracker) GoalProgress(category string) (aggregate.Usage, bool) {
	return lastFor(t.GoalProgresses(), category)
}

// MonthTotals sums income and expenses created in month, of any year.
// Months are numbered 1 (January) to 12; any other value matches nothing and
// yields zero totals.
func (t *Tracker) MonthTotals(month time.Month) aggregate.MonthTotals {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := strconv.Itoa(int(month))
	if v, ok := t.months.Get(key); ok {
		return v
	}
	t.cacheLog.Debug("Computing month totals", log.FieldMonth, int(month))
	v := aggregate.MonthlyTotals(t.ledger.List(), month, t.loc)
	t.months.Set(key, v)
	return v
}

// CategoryTotals sums transactions created in month per category of the typ
// registry list, in registry order. Zero sums are included. month follows
// the MonthTotals numbering.
func (t *Tracker) CategoryTotals(month time.Month, typ core.TransactionType) []aggregate.CategoryAmount {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := fmt.Sprintf("month:%d:%s", month, typ)
	return t.cachedAmounts(key, func() []aggregate.CategoryAmount {
		return aggregate.CategoryTotals(t.ledger.List(), t.categories.For(typ), month, t.loc)
	})
}

// CategoryTotalsByType sums all-time transactions of typ per category.
func (t *Tracker) CategoryTotalsByType(typ core.TransactionType) []aggregate.CategoryAmount {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := "all:" + string(typ)
	return t.cachedAmounts(key, func() []aggregate.CategoryAmount {
		return aggregate.CategoryTotalsByType(t.ledger.List(), t.categories.For(typ), typ)
	})
}

// OverallTotals sums every transaction ever recorded.
func (t *Tracker) OverallTotals() aggregate.Totals {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.overall.Get("all"); ok {
		return v
	}
	v := aggregate.Overall(t.ledger.List())
	t.overall.Set("all", v)
	return v
}

func (t *Tracker) targetUsages(key string, store *ledger.Targets, measure func([]core.Transaction, core.Target) aggregate.Usage) []aggregate.Usage {
	if v, ok := t.usages.Get(key); ok {
		return append([]aggregate.Usage(nil), v...)
	}
	txs := t.ledger.List()
	targets := store.List()
	v := make([]aggregate.Usage, 0, len(targets))
	for _, target := range targets {
		v = append(v, measure(txs, target))
	}
	t.usages.Set(key, v)
	return append([]aggregate.Usage(nil), v...)
}

func (t *Tracker) cachedAmounts(key string, compute func() []aggregate.CategoryAmount) []aggregate.CategoryAmount {
	if v, ok := t.byCat.Get(key); ok {
		return append([]aggregate.CategoryAmount(nil), v...)
	}
	v := compute()
	t.byCat.Set(key, v)
	return append([]aggregate.CategoryAmount(nil), v...)
}

func lastFor(usages []aggregate.Usage, category string) (aggregate.Usage, bool) {
	for i := len(usages) - 1; i >= 0; i-- {
		if usages[i].Category == category {
			return usages[i], true
		}
	}
	return aggregate.Usage{}, false
}

func (t *Tracker) changedTransactions(ctx context.Context) {
	t.purge()
	t.persist(ctx, persist.KeyTransactions, func() error {
		return t.bridge.SaveTransactions(ctx, t.ledger.List())
	})
}

func (t *Tracker) purge() {
	for _, p := range t.purgeAll {
		p()
	}
}

// persist runs save and logs a failure. The in-memory change stands either
// way.
func (t *Tracker) persist(ctx context.Context, key string, save func() error) {
	if err := save(); err != nil {
		fields := log.NewFields().WithOperation(log.OpSave).WithError(err)
		fields[log.FieldKey] = key
		t.logger.ErrorContext(ctx, "Failed to persist store", fields.ToSlice()...)
	}
}

func (t *Tracker) logTarget(ctx context.Context, msg string, target core.Target, replaced bool) {
	fields := log.NewFields().WithOperation(log.OpUpsert).
		WithTarget(target.Category, string(target.TimePeriod), target.Amount.String(), string(target.Type))
	fields[log.FieldMatched] = replaced
	t.targetLog.InfoContext(ctx, msg, fields.ToSlice()...)
}
