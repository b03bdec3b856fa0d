// Package ledger holds the in-memory stores of the application: the
// transaction ledger, the budget and goal target stores and the category
// registry.
//
// The stores are not safe for concurrent use. services.Tracker serializes
// access to them.
package ledger

import "fintrack/internal/core"

// Ledger is the ordered list of transactions.
type Ledger struct {
	ids   core.IDGenerator
	items []core.Transaction
}

// NewLedger returns a ledger seeded with items. Every seeded id is reported to
// ids so new transactions never collide with loaded ones.
func NewLedger(ids core.IDGenerator, items []core.Transaction) *Ledger {
	l := &Ledger{ids: ids, items: append([]core.Transaction(nil), items...)}
	for _, tx := range l.items {
		ids.Observe(tx.ID)
	}
	return l
}

// Add appends a transaction and returns it with its assigned id. Input is
// not validated here; forms do that before calling.
func (l *Ledger) Add(name, category string, amount core.Money, typ core.TransactionType) core.Transaction {
	tx := core.Transaction{
		ID:       l.ids.NextID(),
		Name:     name,
		Category: category,
		Amount:   amount,
		Type:     typ,
	}
	l.items = append(l.items, tx)
	return tx
}

// Edit merges patch into the transaction with the given id. An unknown id is
// a no-op; the result only reports whether anything matched.
func (l *Ledger) Edit(id int64, patch core.Patch) bool {
	found := false
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i] = patch.Apply(l.items[i])
			found = true
		}
	}
	return found
}

// Delete removes the transaction with the given id. Deleting an unknown id is
// a no-op, so Delete is idempotent.
func (l *Ledger) Delete(id int64) bool {
	kept := l.items[:0]
	for _, tx := range l.items {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	removed := len(kept) != len(l.items)
	clear(l.items[len(kept):])
	l.items = kept
	return removed
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id int64) (core.Transaction, bool) {
	for _, tx := range l.items {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// List returns a copy of the transactions in insertion order.
func (l *Ledger) List() []core.Transaction {
	return append([]core.Transaction(nil), l.items...)
}

func (l *Ledger) Len() int { return len(l.items) }
