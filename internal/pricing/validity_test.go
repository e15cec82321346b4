package pricing

import (
	"testing"
	"time"
)

func TestRuleValidityWindow(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	var filter ValidityFilter

	rule := Rule{IsActive: true, ValidFrom: &from, ValidUntil: &until}

	cases := []struct {
		name     string
		asOf     time.Time
		expected bool
	}{
		{"before window", from.Add(-time.Hour), false},
		{"window start inclusive", from, true},
		{"inside window", from.AddDate(0, 0, 10), true},
		{"window end inclusive", until, true},
		{"after window", until.Add(time.Hour), false},
	}
	for _, tc := range cases {
		if got := filter.IsValid(rule, tc.asOf); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestOpenEndedWindows(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var filter ValidityFilter

	if !filter.IsValid(Rule{IsActive: true}, asOf) {
		t.Fatalf("rule without window should always be valid")
	}
	if !filter.IsValid(Rule{IsActive: true, ValidFrom: &from}, asOf) {
		t.Fatalf("rule with only valid_from should be valid after it")
	}
	if filter.IsValid(Rule{IsActive: true, ValidUntil: &from}, asOf) {
		t.Fatalf("rule with only valid_until should expire after it")
	}
}

func TestInactiveRuleNeverValid(t *testing.T) {
	var filter ValidityFilter
	if filter.IsValid(Rule{IsActive: false}, time.Now()) {
		t.Fatalf("inactive rule must never be valid")
	}
}

func TestMalformedWindowNeverValid(t *testing.T) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, -1, 0)
	var filter ValidityFilter

	if !IsWindowMalformed(&from, &until) {
		t.Fatalf("reversed window should be detected as malformed")
	}
	if filter.IsValid(Rule{IsActive: true, ValidFrom: &from, ValidUntil: &until}, from) {
		t.Fatalf("malformed window must never validate")
	}
}

func TestStrategyValidityWindow(t *testing.T) {
	starts := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	ends := starts.AddDate(0, 1, 0)
	var filter ValidityFilter

	strategy := Strategy{IsActive: true, StartsAt: &starts, EndsAt: &ends}
	if !filter.IsStrategyValid(strategy, starts.AddDate(0, 0, 15)) {
		t.Fatalf("strategy should be valid inside its window")
	}
	if filter.IsStrategyValid(strategy, ends.Add(time.Hour)) {
		t.Fatalf("strategy should expire after ends_at")
	}
}
