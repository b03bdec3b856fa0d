package ledger

import (
	"testing"

	"fintrack/internal/core"
)

func budget(category string, period core.TimePeriod, cents int64) core.Target {
	return core.Target{Category: category, TimePeriod: period, Amount: core.MoneyFromCents(cents), Type: core.BudgetTarget}
}

func TestTargetsUpsertOverwritesInPlace(t *testing.T) {
	s := NewTargets(nil)
	s.Upsert(budget("Rent", core.Monthly, 10000))
	s.Upsert(budget("Groceries", core.Monthly, 5000))
	s.Upsert(budget("Rent", core.Monthly, 12000))

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Category != "Rent" || list[0].Amount.Cents() != 12000 {
		t.Fatalf("upsert should replace in place: %+v", list[0])
	}
}

func TestTargetsUpsertDistinguishesPeriods(t *testing.T) {
	s := NewTargets(nil)
	s.Upsert(budget("Rent", core.Monthly, 10000))
	s.Upsert(budget("Rent", core.Weekly, 2500))
	if s.Len() != 2 {
		t.Fatalf("different periods are different entries, got %d", s.Len())
	}
	got, ok := s.Find("Rent", core.Weekly)
	if !ok || got.Amount.Cents() != 2500 {
		t.Fatalf("unexpected weekly entry %+v", got)
	}
}

func TestTargetsDeleteByCategory(t *testing.T) {
	s := NewTargets([]core.Target{
		budget("Rent", core.Monthly, 10000),
		budget("Groceries", core.Monthly, 5000),
		budget("Rent", core.Weekly, 2500),
	})
	if n := s.DeleteByCategory("Rent"); n != 2 {
		t.Fatalf("expected both Rent entries removed, got %d", n)
	}
	list := s.List()
	if len(list) != 1 || list[0].Category != "Groceries" {
		t.Fatalf("unexpected entries %+v", list)
	}
	if n := s.DeleteByCategory("Rent"); n != 0 {
		t.Fatalf("second delete should be a no-op, got %d", n)
	}
}
