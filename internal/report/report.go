package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// Transactions lists txs newest first.
func (r *Report) Transactions(txs []core.Transaction, loc *time.Location) {
	r.heading("Transactions")
	if len(txs) == 0 {
		r.empty("No transactions yet.")
		return
	}
	r.line("%s", r.muted.Render(fmt.Sprintf("%-13s  %-16s  %-30s  %-16s  %12s", "ID", "Date", "Name", "Category", "Amount")))
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		r.line("%-13d  %-16s  %s  %s  %s",
			tx.ID,
			core.CreatedAt(tx.ID, loc).Format("2006-01-02 15:04"),
			pad(Name(tx.Name), 30),
			pad(Name(tx.Category), 16),
			padLeft(r.signed(tx.Amount, tx.Type), 12),
		)
	}
}

// Budgets renders budget usage with a progress bar and threshold label.
func (r *Report) Budgets(usages []aggregate.Usage) {
	r.heading("Budgets")
	if len(usages) == 0 {
		r.empty("No budgets set.")
		return
	}
	for _, u := range usages {
		status := aggregate.ClassifyBudget(u.Percentage)
		r.target(u, string(status), "spent")
		if !status.OverBudget() {
			continue
		}
		note := "limit reached"
		if status == aggregate.Exceeded {
			note = "over by " + FormatMoney(u.Used.Sub(u.Target))
		}
		r.line("    %s", r.status[string(status)].Render(note))
	}
}

// Goals renders goal progress with a progress bar and status label.
func (r *Report) Goals(usages []aggregate.Usage) {
	r.heading("Goals")
	if len(usages) == 0 {
		r.empty("No goals set.")
		return
	}
	for _, u := range usages {
		r.target(u, string(aggregate.ClassifyGoal(u.Percentage)), "saved")
	}
}

func (r *Report) target(u aggregate.Usage, status, verb string) {
	r.line("  %s %s  %s %s of %s  %s %s",
		pad(Name(u.Category), 16),
		r.muted.Render(pad(string(u.TimePeriod), 7)),
		verb,
		FormatMoney(u.Used),
		FormatMoney(u.Target),
		padLeft(u.Percentage.StringFixed(1)+"%", 7),
		r.status[status].Render(status),
	)
	r.line("    %s", r.bar(aggregate.Progress(u.Percentage), r.status[status].Render))
}

// bar draws pct (0..100) of BarWidth cells.
func (r *Report) bar(pct decimal.Decimal, paint func(...string) string) string {
	filled := int(pct.Mul(decimal.NewFromInt(BarWidth)).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	if filled > BarWidth {
		filled = BarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + paint(strings.Repeat("█", filled)) + r.muted.Render(strings.Repeat("░", BarWidth-filled)) + "]"
}

// MonthSummary renders a month's totals and non-zero category sums.
func (r *Report) MonthSummary(totals aggregate.MonthTotals, expenses, income []aggregate.CategoryAmount) {
	r.heading("Summary for " + totals.Month.String())
	r.line("  Income   %s", padLeft(r.income.Render(FormatMoney(totals.Income)), 14))
	r.line("  Expenses %s", padLeft(r.expense.Render(FormatMoney(totals.Expense)), 14))
	r.line("  Net      %s", padLeft(r.net(totals.Net), 14))
	r.categoryBlock("Expenses by category", aggregate.NonZero(expenses))
	r.categoryBlock("Income by category", aggregate.NonZero(income))
}

func (r *Report) categoryBlock(title string, amounts []aggregate.CategoryAmount) {
	r.line("")
	r.line("%s", r.accent.Render(title))
	if len(amounts) == 0 {
		r.empty("  Nothing recorded.")
		return
	}
	for _, a := range amounts {
		r.line("  %s %s", pad(Name(a.Category), 16), padLeft(FormatMoney(a.Amount), 14))
	}
}

// Dashboard renders the all-time totals followed by the current month,
// budgets and goals.
func (r *Report) Dashboard(overall aggregate.Totals, month aggregate.MonthTotals, budgets, goals []aggregate.Usage) {
	r.heading("Dashboard")
	r.line("  Transactions %d", overall.Count)
	r.line("  Total income   %s", padLeft(r.income.Render(FormatMoney(overall.Income)), 14))
	r.line("  Total expenses %s", padLeft(r.expense.Render(FormatMoney(overall.Expense)), 14))
	r.line("  Balance        %s", padLeft(r.net(overall.Net), 14))
	r.line("")
	r.line("  %s  income %s  expenses %s  net %s",
		r.accent.Render(month.Month.String()),
		FormatMoney(month.Income), FormatMoney(month.Expense), r.net(month.Net))
	r.line("")
	r.Budgets(budgets)
	r.line("")
	r.Goals(goals)
}

// BarChart draws one bar per non-zero category, scaled to the largest.
func (r *Report) BarChart(title string, amounts []aggregate.CategoryAmount, typ core.TransactionType) {
	r.heading(title)
	amounts = aggregate.NonZero(amounts)
	if len(amounts) == 0 {
		r.empty("No data to chart.")
		return
	}
	var max core.Money
	for _, a := range amounts {
		if a.Amount.GreaterThan(max) {
			max = a.Amount
		}
	}
	paint := r.expense.Render
	if typ == core.Income {
		paint = r.income.Render
	}
	for _, a := range amounts {
		r.line("  %s %s %s", pad(Name(a.Category), 16), r.bar(aggregate.Progress(core.Percentage(a.Amount, max)), paint), FormatMoney(a.Amount))
	}
}

// Shares lists each non-zero category's share of the total.
func (r *Report) Shares(title string, amounts []aggregate.CategoryAmount) {
	r.heading(title)
	amounts = aggregate.NonZero(amounts)
	if len(amounts) == 0 {
		r.empty("No data to chart.")
		return
	}
	var total core.Money
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	for _, a := range amounts {
		pct := core.Percentage(a.Amount, total)
		r.line("  %s %s %s", pad(Name(a.Category), 16), padLeft(pct.StringFixed(1)+"%", 6), r.bar(pct, r.accent.Render))
	}
}

// Categories lists both registry lists.
func (r *Report) Categories(set core.CategorySet) {
	r.heading("Expense categories")
	for _, c := range set.Expense {
		r.line("  %s", c)
	}
	r.heading("Income categories")
	for _, c := range set.Income {
		r.line("  %s", c)
	}
}

// Targets lists raw budgets or goals without usage.
func (r *Report) Targets(title string, targets []core.Target) {
	r.heading(title)
	if len(targets) == 0 {
		r.empty("None set.")
		return
	}
	for _, t := range targets {
		r.line("  %s %s %s", pad(Name(t.Category), 16), pad(string(t.TimePeriod), 7), padLeft(FormatMoney(t.Amount), 14))
	}
}
