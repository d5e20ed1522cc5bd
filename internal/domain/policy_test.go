package domain

import "testing"

func TestDefaultCatalogLookup(t *testing.T) {
	catalog := DefaultPolicyCatalog()

	if got := len(catalog.All()); got != 12 {
		t.Fatalf("catalog size = %d, want 12", got)
	}
	policy, ok := catalog.ByID("wrong-item-resolution")
	if !ok {
		t.Fatal("wrong-item-resolution missing from catalog")
	}
	if !policy.AppliesTo(ProblemWrongItem) {
		t.Error("wrong-item-resolution does not cover wrong-item")
	}
	if policy.AppliesTo(ProblemAccount) {
		t.Error("wrong-item-resolution unexpectedly covers account")
	}
}

func TestForProblemsDeclarationOrder(t *testing.T) {
	catalog := DefaultPolicyCatalog()

	got := catalog.ForProblems([]ProblemType{ProblemWrongItem})
	if len(got) == 0 {
		t.Fatal("no candidates for wrong-item")
	}
	if got[0].ID != "wrong-item-resolution" {
		t.Errorf("first candidate = %q, want wrong-item-resolution", got[0].ID)
	}

	seen := map[string]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Errorf("candidate %q returned twice", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestForProblemsMultipleTagsNoDuplicates(t *testing.T) {
	catalog := DefaultPolicyCatalog()

	// standard-return covers both tags; it must appear once.
	got := catalog.ForProblems([]ProblemType{ProblemReturn, ProblemRefund})
	count := 0
	for _, p := range got {
		if p.ID == "standard-return" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("standard-return appeared %d times, want 1", count)
	}
}

func TestForProblemsUnknownTag(t *testing.T) {
	catalog := DefaultPolicyCatalog()

	if got := catalog.ForProblems([]ProblemType{"telepathy"}); len(got) != 0 {
		t.Errorf("unknown tag matched %d policies, want 0", len(got))
	}
}

func TestTicketStatusTransitions(t *testing.T) {
	tests := []struct {
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{TicketStatusReceived, TicketStatusProcessing, true},
		{TicketStatusReceived, TicketStatusResolved, false},
		{TicketStatusProcessing, TicketStatusResolved, true},
		{TicketStatusProcessing, TicketStatusFailed, true},
		{TicketStatusProcessing, TicketStatusReceived, false},
		{TicketStatusResolved, TicketStatusProcessing, false},
		{TicketStatusFailed, TicketStatusProcessing, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
