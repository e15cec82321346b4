package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func occupancyRule(id uint, priority int, threshold int64, percent int64) Rule {
	return Rule{
		ID:              id,
		TenantID:        1,
		Type:            "occupation_based",
		Priority:        priority,
		IsActive:        true,
		Condition:       leaf(FieldOccupancyRate, OpGte, NumberValue(decimal.NewFromInt(threshold))),
		AdjustmentType:  AdjustmentPercentage,
		AdjustmentValue: decimal.NewFromInt(percent),
		Stackable:       true,
	}
}

func TestSelectCandidatesFiltersScope(t *testing.T) {
	selector := NewRuleSelector()
	ctx := testContext()

	otherSite := uint(99)
	thisSite := ctx.SiteID
	rules := []Rule{
		occupancyRule(1, 10, 80, -10),
		func() Rule { r := occupancyRule(2, 10, 80, -10); r.TenantID = 2; return r }(),
		func() Rule { r := occupancyRule(3, 10, 80, -10); r.SiteID = &otherSite; return r }(),
		func() Rule { r := occupancyRule(4, 10, 80, -10); r.SiteID = &thisSite; return r }(),
	}

	candidates, diags := selector.SelectCandidates(rules, ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if c.ID == 2 || c.ID == 3 {
			t.Fatalf("rule %d should have been filtered out", c.ID)
		}
	}
}

func TestSelectCandidatesOrdering(t *testing.T) {
	selector := NewRuleSelector()
	ctx := testContext()
	site := ctx.SiteID

	rules := []Rule{
		occupancyRule(5, 10, 80, -5),
		func() Rule { r := occupancyRule(3, 10, 80, -5); r.SiteID = &site; return r }(),
		occupancyRule(9, 20, 80, -5),
		occupancyRule(2, 10, 80, -5),
	}

	candidates, _ := selector.SelectCandidates(rules, ctx)
	got := make([]uint, 0, len(candidates))
	for _, c := range candidates {
		got = append(got, c.ID)
	}
	// 优先级降序，同级站点先于租户，再按 id 升序
	want := []uint{9, 3, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	// 同一输入多次筛选必须产出同一顺序
	again, _ := selector.SelectCandidates(rules, ctx)
	for i := range again {
		if again[i].ID != candidates[i].ID {
			t.Fatalf("ordering not deterministic: %v vs %v", candidates, again)
		}
	}
}

func TestSelectCandidatesDowngradesBadRules(t *testing.T) {
	selector := NewRuleSelector()
	ctx := testContext()

	from := ctx.EvaluatedAt
	until := from.AddDate(0, -1, 0)
	broken := occupancyRule(7, 10, 80, -10)
	broken.ValidFrom = &from
	broken.ValidUntil = &until

	unknownField := occupancyRule(8, 10, 80, -10)
	unknownField.Condition = leaf("weather", OpEq, TextValue("sunny"))

	healthy := occupancyRule(9, 5, 80, -10)

	candidates, diags := selector.SelectCandidates([]Rule{broken, unknownField, healthy}, ctx)
	if len(candidates) != 1 || candidates[0].ID != 9 {
		t.Fatalf("only the healthy rule should survive, got %+v", candidates)
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", diags)
	}
	kinds := map[string]uint{}
	for _, d := range diags {
		kinds[d.Kind] = d.RuleID
	}
	if kinds[DiagMalformedWindow] != 7 {
		t.Fatalf("expected malformed window diagnostic for rule 7, got %+v", diags)
	}
	if kinds[DiagUnknownField] != 8 {
		t.Fatalf("expected unknown field diagnostic for rule 8, got %+v", diags)
	}
}

func TestInspectReportsReasons(t *testing.T) {
	selector := NewRuleSelector()
	ctx := testContext()

	expiredUntil := ctx.EvaluatedAt.AddDate(0, -1, 0)
	otherSite := uint(99)

	matched := occupancyRule(1, 10, 80, -10)
	inactive := occupancyRule(2, 10, 80, -10)
	inactive.IsActive = false
	expired := occupancyRule(3, 10, 80, -10)
	expired.ValidUntil = &expiredUntil
	wrongSite := occupancyRule(4, 10, 80, -10)
	wrongSite.SiteID = &otherSite
	missed := occupancyRule(5, 10, 95, -10)
	foreign := occupancyRule(6, 10, 80, -10)
	foreign.TenantID = 2

	previews := selector.Inspect([]Rule{matched, inactive, expired, wrongSite, missed, foreign}, ctx)
	if len(previews) != 5 {
		t.Fatalf("foreign tenant rules must not appear, got %d previews", len(previews))
	}

	reasons := map[uint]string{}
	matchedIDs := map[uint]bool{}
	for _, p := range previews {
		reasons[p.Rule.ID] = p.Reason
		matchedIDs[p.Rule.ID] = p.Matched
	}
	if !matchedIDs[1] || reasons[1] != "" {
		t.Fatalf("rule 1 should match cleanly, got %+v", previews)
	}
	if reasons[2] != "inactive" {
		t.Fatalf("rule 2 reason: %s", reasons[2])
	}
	if reasons[3] != "outside_validity_window" {
		t.Fatalf("rule 3 reason: %s", reasons[3])
	}
	if reasons[4] != "site_scope_mismatch" {
		t.Fatalf("rule 4 reason: %s", reasons[4])
	}
	if reasons[5] != "condition_not_matched" {
		t.Fatalf("rule 5 reason: %s", reasons[5])
	}
}
