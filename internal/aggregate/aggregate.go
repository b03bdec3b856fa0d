// Package aggregate computes the derived values shown on the dashboard:
// budget usage, goal progress, monthly totals and per-category totals.
//
// Every function is pure and recomputes from the transactions it is given.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Usage is the progress of a budget or goal.
type Usage struct {
	Category   string
	TimePeriod core.TimePeriod
	Type       core.TargetType
	Used       core.Money
	Target     core.Money
	Percentage decimal.Decimal
}

// MonthTotals are the income, expense and net figures for one calendar month.
type MonthTotals struct {
	Month   time.Month
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// Totals are the all-time figures shown on the dashboard.
type Totals struct {
	Income  core.Money
	Expense core.Money
	Net     core.Money
	Count   int
}

// CategoryAmount is the summed amount of one category.
type CategoryAmount struct {
	Category string
	Amount   core.Money
}

// BudgetUsage sums the expense transactions booked on the budget's category
// and relates them to the budget amount. The time period is not used as a
// filter. A zero budget amount is treated as 1.
func BudgetUsage(txs []core.Transaction, budget core.Target) Usage {
	return usage(txs, budget, func(tx core.Transaction) bool { return tx.Type == core.Expense })
}

// GoalProgress relates the goal amount to every transaction booked on the
// goal's category, whatever its type. A label registered for both types
// ("Others") collects income and expense alike.
func GoalProgress(txs []core.Transaction, goal core.Target) Usage {
	return usage(txs, goal, func(core.Transaction) bool { return true })
}

func usage(txs []core.Transaction, t core.Target, keep func(core.Transaction) bool) Usage {
	var used core.Money
	for _, tx := range txs {
		if tx.Category == t.Category && keep(tx) {
			used = used.Add(tx.Amount)
		}
	}
	return Usage{
		Category:   t.Category,
		TimePeriod: t.TimePeriod,
		Type:       t.Type,
		Used:       used,
		Target:     t.Amount,
		Percentage: core.Percentage(used, t.Amount),
	}
}

// InMonth reports whether the transaction was created in month, in any year.
//
// The year is deliberately ignored: a January transaction from any year
// counts toward January.
func InMonth(tx core.Transaction, month time.Month, loc *time.Location) bool {
	return core.CreatedAt(tx.ID, loc).Month() == month
}

// FilterMonth returns the transactions created in month of any year.
func FilterMonth(txs []core.Transaction, month time.Month, loc *time.Location) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if InMonth(tx, month, loc) {
			out = append(out, tx)
		}
	}
	return out
}

// MonthlyTotals sums income and expense for transactions created in month.
// Months run from time.January (1) to time.December (12); a value outside
// that range matches no transaction and yields zero totals.
func MonthlyTotals(txs []core.Transaction, month time.Month, loc *time.Location) MonthTotals {
	t := Overall(FilterMonth(txs, month, loc))
	return MonthTotals{Month: month, Income: t.Income, Expense: t.Expense, Net: t.Net}
}

// Overall sums income and expense over all transactions.
func Overall(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Net = t.Income.Sub(t.Expense)
	t.Count = len(txs)
	return t
}

// CategoryTotals sums, for each of categories in order, the transactions of
// month booked on it. Transactions are matched by category label only, so a
// label present in both registries collects income and expense alike.
// Zero sums are kept; see NonZero.
func CategoryTotals(txs []core.Transaction, categories []string, month time.Month, loc *time.Location) []CategoryAmount {
	return sumByCategory(FilterMonth(txs, month, loc), categories, func(core.Transaction) bool { return true })
}

// CategoryTotalsByType sums all transactions of typ per category, in the
// order of categories.
func CategoryTotalsByType(txs []core.Transaction, categories []string, typ core.TransactionType) []CategoryAmount {
	return sumByCategory(txs, categories, func(tx core.Transaction) bool { return tx.Type == typ })
}

func sumByCategory(txs []core.Transaction, categories []string, keep func(core.Transaction) bool) []CategoryAmount {
	index := make(map[string]int, len(categories))
	out := make([]CategoryAmount, 0, len(categories))
	for _, c := range categories {
		if _, dup := index[c]; dup {
			continue
		}
		index[c] = len(out)
		out = append(out, CategoryAmount{Category: c})
	}
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok || !keep(tx) {
			continue
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	return out
}

// NonZero drops the categories whose amount is zero.
func NonZero(in []CategoryAmount) []CategoryAmount {
	var out []CategoryAmount
	for _, c := range in {
		if !c.Amount.IsZero() {
			out = append(out, c)
		}
	}
	return out
}
