package ledger

import "fintrack/internal/core"

// Targets stores budgets or goals, at most one per (category, time period).
// Budgets and goals each get their own instance.
type Targets struct {
	items []core.Target
}

func NewTargets(items []core.Target) *Targets {
	return &Targets{items: append([]core.Target(nil), items...)}
}

// Upsert replaces the entry with the same category and time period in place,
// or appends t when there is none. The caller's fields are stored as given.
func (s *Targets) Upsert(t core.Target) {
	for i := range s.items {
		if s.items[i].Category == t.Category && s.items[i].TimePeriod == t.TimePeriod {
			s.items[i] = t
			return
		}
	}
	s.items = append(s.items, t)
}

// DeleteByCategory removes every entry for category regardless of its time
// period and returns how many were removed.
func (s *Targets) DeleteByCategory(category string) int {
	kept := s.items[:0]
	for _, t := range s.items {
		if t.Category != category {
			kept = append(kept, t)
		}
	}
	removed := len(s.items) - len(kept)
	clear(s.items[len(kept):])
	s.items = kept
	return removed
}

// Find returns the entry for category and period.
func (s *Targets) Find(category string, period core.TimePeriod) (core.Target, bool) {
	for _, t := range s.items {
		if t.Category == category && t.TimePeriod == period {
			return t, true
		}
	}
	return core.Target{}, false
}

// List returns a copy of the entries in insertion order.
func (s *Targets) List() []core.Target {
	return append([]core.Target(nil), s.items...)
}

func (s *Targets) Len() int { return len(s.items) }
