package core

import "errors"

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	Monthly TimePeriod = "monthly"
	Weekly  TimePeriod = "weekly"
)

const (
	BudgetTarget TargetType = "budget"
	GoalTarget   TargetType = "goal"
)

type (
	TransactionType string

	TimePeriod string

	// TargetType tags a Target as a spending budget or a savings goal.
	TargetType string

	// Transaction is a single recorded income or expense event. ID is the
	// creation time in Unix milliseconds and doubles as the identifier.
	Transaction struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Amount   Money           `json:"amount"`
		Type     TransactionType `json:"type"`
	}

	// Patch carries the editable fields of a Transaction. Nil fields are left
	// untouched.
	Patch struct {
		Name     *string
		Amount   *Money
		Category *string
	}

	// Target is a budget or goal amount for a category over a time period.
	Target struct {
		Category   string     `json:"category"`
		TimePeriod TimePeriod `json:"timePeriod"`
		Amount     Money      `json:"amount"`
		Type       TargetType `json:"type"`
	}

	// CategorySet is the persisted shape of the category registry.
	CategorySet struct {
		Expense []string `json:"expenseCategories"`
		Income  []string `json:"incomeCategories"`
	}
)

var (
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidTimePeriod = errors.New("invalid time period")
	ErrInvalidTarget     = errors.New("invalid target type")
)

// DefaultExpenseCategories and DefaultIncomeCategories seed a fresh registry.
var (
	DefaultExpenseCategories = []string{"Rent", "Groceries", "Entertainment", "Others"}
	DefaultIncomeCategories  = []string{"Salary", "Bonus", "Investments", "Others"}
)

// DefaultCategorySet returns a fresh copy of the default registry contents.
func DefaultCategorySet() CategorySet {
	return CategorySet{
		Expense: append([]string(nil), DefaultExpenseCategories...),
		Income:  append([]string(nil), DefaultIncomeCategories...),
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	}
	return ErrInvalidType
}

func (p TimePeriod) Validate() error {
	switch p {
	case Monthly, Weekly:
		return nil
	}
	return ErrInvalidTimePeriod
}

func (t TargetType) Validate() error {
	switch t {
	case BudgetTarget, GoalTarget:
		return nil
	}
	return ErrInvalidTarget
}

// CategoryType returns the registry a target of this type picks its category
// from: expense categories for budgets, income categories for goals.
func (t TargetType) CategoryType() TransactionType {
	if t == GoalTarget {
		return Income
	}
	return Expense
}

// Apply merges the non-nil fields of p into tx. ID and Type never change.
func (p Patch) Apply(tx Transaction) Transaction {
	if p.Name != nil {
		tx.Name = *p.Name
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	return tx
}
