package ledger

import (
	"testing"

	"fintrack/internal/core"
)

func TestDefaultCategories(t *testing.T) {
	c := DefaultCategories()
	if got := c.Expense(); len(got) != 4 || got[0] != "Rent" || got[3] != "Others" {
		t.Fatalf("unexpected expense defaults %v", got)
	}
	if got := c.Income(); len(got) != 4 || got[0] != "Salary" {
		t.Fatalf("unexpected income defaults %v", got)
	}
}

func TestAddCustomIgnoresDuplicates(t *testing.T) {
	c := DefaultCategories()
	if c.AddCustom("Rent", core.Expense) {
		t.Fatalf("existing label should not be added")
	}
	if got := len(c.Expense()); got != 4 {
		t.Fatalf("expected 4 expense categories, got %d", got)
	}
	if !c.AddCustom("rent", core.Expense) {
		t.Fatalf("match is case-sensitive")
	}
	if !c.AddCustom("Travel", core.Expense) {
		t.Fatalf("new label should be added")
	}
	got := c.Expense()
	if got[len(got)-1] != "Travel" {
		t.Fatalf("custom labels are appended: %v", got)
	}
	if c.Contains("Travel", core.Income) {
		t.Fatalf("expense label leaked into income")
	}
	if c.AddCustom("Gift", "transfer") {
		t.Fatalf("unknown type should be ignored")
	}
}

func TestNewCategoriesDedupes(t *testing.T) {
	c := NewCategories(core.CategorySet{Expense: []string{"A", "B", "A"}, Income: []string{"X", "X"}})
	if got := c.Expense(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected %v", got)
	}
	if got := c.Income(); len(got) != 1 {
		t.Fatalf("unexpected %v", got)
	}
	set := c.Set()
	if len(set.Expense) != 2 || len(set.Income) != 1 {
		t.Fatalf("unexpected set %+v", set)
	}
}
