// Package persist mirrors the in-memory stores to a blob.Store. Each store
// lives under its own key as a JSON document.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/blob"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Blob keys.
const (
	KeyTransactions = "expenses"
	KeyBudgets      = "budgets"
	KeyGoals        = "goals"
	KeyCategories   = "categories"
)

// State is the initial value of every store.
type State struct {
	Transactions []core.Transaction
	Budgets      []core.Target
	Goals        []core.Target
	Categories   core.CategorySet
}

// Bridge loads and saves store snapshots.
type Bridge struct {
	store   blob.Store
	logger  *log.Logger
	timeout time.Duration
}

// NewBridge wraps store. A zero timeout leaves writes bounded only by the
// caller's context.
func NewBridge(store blob.Store, logger *log.Logger, timeout time.Duration) *Bridge {
	if logger == nil {
		logger = log.Discard()
	}
	return &Bridge{
		store:   store,
		logger:  logger.WithComponent(log.ComponentPersist),
		timeout: timeout,
	}
}

// Load reads the four keys concurrently. Absent or malformed values fall
// back to an empty list, or to the default categories, and are logged. Only
// blob store failures are returned.
func (b *Bridge) Load(ctx context.Context) (State, error) {
	var st State
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.load(ctx, KeyTransactions, &st.Transactions)
	})
	g.Go(func() error {
		return b.load(ctx, KeyBudgets, &st.Budgets)
	})
	g.Go(func() error {
		return b.load(ctx, KeyGoals, &st.Goals)
	})
	g.Go(func() error {
		var set core.CategorySet
		if err := b.load(ctx, KeyCategories, &set); err != nil {
			return err
		}
		if set.Expense == nil || set.Income == nil {
			set = core.DefaultCategorySet()
		}
		st.Categories = set
		return nil
	})

	if err := g.Wait(); err != nil {
		return State{}, err
	}
	return st, nil
}

// load decodes key into dst, leaving dst zeroed when the value is absent,
// null or malformed.
func (b *Bridge) load(ctx context.Context, key string, dst any) error {
	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		b.logger.DebugContext(ctx, "Key absent, using default", log.FieldKey, key)
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		fields := log.NewFields().WithOperation(log.OpLoad).WithError(err)
		fields[log.FieldKey] = key
		b.logger.WarnContext(ctx, "Malformed blob, using default", fields.ToSlice()...)
		resetTo(dst)
		return nil
	}
	return nil
}

func resetTo(dst any) {
	switch v := dst.(type) {
	case *[]core.Transaction:
		*v = nil
	case *[]core.Target:
		*v = nil
	case *core.CategorySet:
		*v = core.CategorySet{}
	}
}

func (b *Bridge) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return b.save(ctx, KeyTransactions, txs)
}

func (b *Bridge) SaveBudgets(ctx context.Context, budgets []core.Target) error {
	return b.saveTargets(ctx, KeyBudgets, budgets)
}

func (b *Bridge) SaveGoals(ctx context.Context, goals []core.Target) error {
	return b.saveTargets(ctx, KeyGoals, goals)
}

func (b *Bridge) SaveCategories(ctx context.Context, set core.CategorySet) error {
	if set.Expense == nil {
		set.Expense = []string{}
	}
	if set.Income == nil {
		set.Income = []string{}
	}
	return b.save(ctx, KeyCategories, set)
}

func (b *Bridge) saveTargets(ctx context.Context, key string, targets []core.Target) error {
	if targets == nil {
		targets = []core.Target{}
	}
	return b.save(ctx, key, targets)
}

func (b *Bridge) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := b.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	b.logger.DebugContext(ctx, "Saved store", log.FieldKey, key, log.FieldBytes, len(data))
	return nil
}
