package ledger

import "fintrack/internal/core"

// Categories is the registry of expense and income category labels. Labels
// keep their insertion order and are never removed.
type Categories struct {
	expense []string
	income  []string
}

// NewCategories builds a registry from set, dropping duplicates while
// preserving the first occurrence of each label.
func NewCategories(set core.CategorySet) *Categories {
	return &Categories{expense: dedupe(set.Expense), income: dedupe(set.Income)}
}

// DefaultCategories returns a registry holding the default labels.
func DefaultCategories() *Categories {
	return NewCategories(core.DefaultCategorySet())
}

// AddCustom appends category to the list for typ unless it is already there
// (exact, case-sensitive match). Unknown types are ignored.
func (c *Categories) AddCustom(category string, typ core.TransactionType) bool {
	switch typ {
	case core.Expense:
		return appendUnique(&c.expense, category)
	case core.Income:
		return appendUnique(&c.income, category)
	}
	return false
}

func (c *Categories) Expense() []string { return append([]string(nil), c.expense...) }

func (c *Categories) Income() []string { return append([]string(nil), c.income...) }

// For returns the labels for typ, or nil for an unknown type.
func (c *Categories) For(typ core.TransactionType) []string {
	switch typ {
	case core.Expense:
		return c.Expense()
	case core.Income:
		return c.Income()
	}
	return nil
}

// Contains reports whether category is registered for typ.
func (c *Categories) Contains(category string, typ core.TransactionType) bool {
	for _, v := range c.For(typ) {
		if v == category {
			return true
		}
	}
	return false
}

// Set returns the registry in its persisted shape.
func (c *Categories) Set() core.CategorySet {
	return core.CategorySet{Expense: c.Expense(), Income: c.Income()}
}

func appendUnique(list *[]string, v string) bool {
	for _, existing := range *list {
		if existing == v {
			return false
		}
	}
	*list = append(*list, v)
	return true
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
