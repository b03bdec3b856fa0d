package aggregate

import "github.com/shopspring/decimal"

// BudgetStatus classifies budget usage for display.
type BudgetStatus string

const (
	Nominal  BudgetStatus = "nominal"
	Caution  BudgetStatus = "caution"
	Warning  BudgetStatus = "warning"
	Reached  BudgetStatus = "reached"
	Exceeded BudgetStatus = "exceeded"
)

// GoalStatus classifies goal progress for display.
type GoalStatus string

const (
	InProgress GoalStatus = "in_progress"
	Achieved   GoalStatus = "achieved"
)

var (
	fifty   = decimal.NewFromInt(50)
	eighty  = decimal.NewFromInt(80)
	hundred = decimal.NewFromInt(100)
)

// ClassifyBudget maps a usage percentage to its status: below 50 nominal,
// below 80 caution, below 100 warning, exactly 100 reached, above exceeded.
func ClassifyBudget(pct decimal.Decimal) BudgetStatus {
	switch {
	case pct.LessThan(fifty):
		return Nominal
	case pct.LessThan(eighty):
		return Caution
	case pct.LessThan(hundred):
		return Warning
	case pct.Equal(hundred):
		return Reached
	default:
		return Exceeded
	}
}

// ClassifyGoal maps a progress percentage to its status.
func ClassifyGoal(pct decimal.Decimal) GoalStatus {
	if pct.LessThan(hundred) {
		return InProgress
	}
	return Achieved
}

// Progress clamps pct to [0, 100] for progress bars.
func Progress(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// OverBudget reports whether the status needs the user's attention.
func (s BudgetStatus) OverBudget() bool {
	return s == Reached || s == Exceeded
}
