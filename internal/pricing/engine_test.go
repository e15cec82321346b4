package pricing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustEqual(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	expected := decFromString(t, want)
	if !got.Equal(expected) {
		t.Fatalf("%s: expected %s, got %s", label, want, got)
	}
}

func TestComputePriceSingleOccupancyRule(t *testing.T) {
	engine := NewEngine()
	ctx := testContext() // occupancy 85, base 100

	catalog := Catalog{Rules: []Rule{occupancyRule(1, 10, 80, -10)}}
	res, err := engine.ComputePrice(catalog, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	mustEqual(t, res.FinalPrice, "90.00", "final price")
	mustEqual(t, res.TotalDiscountPercent, "10.00", "total discount")
	if len(res.Adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %+v", res.Adjustments)
	}
	step := res.Adjustments[0]
	if step.RuleID != 1 || step.Clamped {
		t.Fatalf("unexpected step: %+v", step)
	}
	mustEqual(t, step.Delta, "-10", "step delta")
	mustEqual(t, step.ResultingPrice, "90", "step resulting price")
}

func TestComputePriceStacksRulesInOrder(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	fixed := Rule{
		ID:              2,
		TenantID:        1,
		Type:            "duration_discount",
		Priority:        5,
		IsActive:        true,
		Condition:       leaf(FieldDurationMonths, OpGte, NumberValue(decimal.NewFromInt(6))),
		AdjustmentType:  AdjustmentFixedAmount,
		AdjustmentValue: decimal.NewFromInt(-5),
		Stackable:       true,
	}
	catalog := Catalog{Rules: []Rule{fixed, occupancyRule(1, 10, 80, -10)}}

	res, err := engine.ComputePrice(catalog, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// 先 -10%（100→90），再 -5（90→85）
	mustEqual(t, res.FinalPrice, "85.00", "final price")
	if len(res.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %+v", res.Adjustments)
	}
	if res.Adjustments[0].RuleID != 1 || res.Adjustments[1].RuleID != 2 {
		t.Fatalf("adjustments out of order: %+v", res.Adjustments)
	}
	mustEqual(t, res.Adjustments[1].ResultingPrice, "85", "second step price")
}

func TestComputePriceNonStackableBlocksRest(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	exclusive := occupancyRule(1, 10, 80, -15)
	exclusive.Stackable = false
	blocked := occupancyRule(2, 5, 80, -10)

	res, err := engine.ComputePrice(Catalog{Rules: []Rule{blocked, exclusive}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	mustEqual(t, res.FinalPrice, "85.00", "final price")
	if len(res.Adjustments) != 1 || res.Adjustments[0].RuleID != 1 {
		t.Fatalf("only the exclusive rule should apply, got %+v", res.Adjustments)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected 1 skipped rule, got %+v", res.Skipped)
	}
	skip := res.Skipped[0]
	if skip.RuleID != 2 {
		t.Fatalf("rule 2 should be blocked, got %+v", skip)
	}
	if !strings.HasPrefix(skip.Reason, SkipReasonBlockedByNonStackable) || !strings.HasSuffix(skip.Reason, ":1") {
		t.Fatalf("skip reason should name the blocking rule: %q", skip.Reason)
	}
}

func TestComputePriceClampsToRuleMinPrice(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	min := decimal.NewFromInt(95)
	rule := occupancyRule(1, 10, 80, -20)
	rule.MinPrice = &min

	res, err := engine.ComputePrice(Catalog{Rules: []Rule{rule}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// -20% 会到 80，被规则下限拉回 95
	mustEqual(t, res.FinalPrice, "95.00", "final price")
	if !res.Adjustments[0].Clamped {
		t.Fatalf("clamp must be recorded in the audit trail: %+v", res.Adjustments[0])
	}
	mustEqual(t, res.Adjustments[0].ResultingPrice, "95", "clamped step price")
}

func TestComputePriceStrategyDiscountCapped(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	strategy := Strategy{
		ID:           1,
		TenantID:     1,
		StrategyType: "seasonal_campaign",
		Priority:     10,
		IsActive:     true,
		Clauses: ClauseList{
			{Priority: 2, Condition: leaf(FieldOccupancyRate, OpGte, NumberValue(decimal.NewFromInt(80))), DiscountPercent: decimal.NewFromInt(8)},
			{Priority: 1, Condition: leaf(FieldDurationMonths, OpGte, NumberValue(decimal.NewFromInt(6))), DiscountPercent: decimal.NewFromInt(5)},
		},
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(10),
	}

	res, err := engine.ComputePrice(Catalog{Strategies: []Strategy{strategy}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if res.Strategy == nil {
		t.Fatalf("strategy outcome missing: %+v", res)
	}
	// 两个子句共 13%，被策略上限压到 10%
	mustEqual(t, res.Strategy.RawDiscountPercent, "13", "raw discount")
	mustEqual(t, res.Strategy.AppliedDiscountPercent, "10", "applied discount")
	if !res.Strategy.Clamped || res.Strategy.FiredClauses != 2 {
		t.Fatalf("unexpected outcome: %+v", res.Strategy)
	}
	mustEqual(t, res.FinalPrice, "90.00", "final price")
}

func TestComputePriceStrategyClampFromHighestPriorityClause(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	// 策略优先级更高，但命中子句的优先级更低
	broad := Strategy{
		ID:           1,
		TenantID:     1,
		StrategyType: "seasonal_campaign",
		Priority:     10,
		IsActive:     true,
		Clauses: ClauseList{
			{Priority: 1, Condition: leaf(FieldOccupancyRate, OpGte, NumberValue(decimal.NewFromInt(80))), DiscountPercent: decimal.NewFromInt(10)},
		},
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(50),
	}
	narrow := Strategy{
		ID:           2,
		TenantID:     1,
		StrategyType: "segment_discount",
		Priority:     5,
		IsActive:     true,
		Clauses: ClauseList{
			{Priority: 99, Condition: leaf(FieldDurationMonths, OpGte, NumberValue(decimal.NewFromInt(6))), DiscountPercent: decimal.NewFromInt(5)},
		},
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(1),
	}

	res, err := engine.ComputePrice(Catalog{Strategies: []Strategy{broad, narrow}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if res.Strategy == nil {
		t.Fatalf("strategy outcome missing: %+v", res)
	}
	// 收敛区间来自命中子句优先级最高的策略，而非策略自身优先级最高者
	if res.Strategy.StrategyID != 2 {
		t.Fatalf("expected strategy 2 to own the clamp window, got %+v", res.Strategy)
	}
	mustEqual(t, res.Strategy.RawDiscountPercent, "15", "raw discount")
	mustEqual(t, res.Strategy.AppliedDiscountPercent, "1", "applied discount")
	if !res.Strategy.Clamped || res.Strategy.FiredClauses != 2 {
		t.Fatalf("unexpected outcome: %+v", res.Strategy)
	}
	mustEqual(t, res.FinalPrice, "99.00", "final price")
}

func TestComputePriceExcludesExpiredRule(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	expired := occupancyRule(1, 10, 80, -10)
	until := ctx.EvaluatedAt.AddDate(0, -2, 0)
	expired.ValidUntil = &until

	res, err := engine.ComputePrice(Catalog{Rules: []Rule{expired}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	mustEqual(t, res.FinalPrice, "100.00", "final price")
	if len(res.Adjustments) != 0 || len(res.Diagnostics) != 0 {
		t.Fatalf("expired rule should vanish silently: %+v", res)
	}
	mustEqual(t, res.TotalDiscountPercent, "0.00", "total discount")
}

func TestComputePriceIsIdempotent(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()
	site := ctx.SiteID

	scoped := occupancyRule(3, 10, 80, -5)
	scoped.SiteID = &site
	catalog := Catalog{Rules: []Rule{occupancyRule(5, 10, 80, -5), scoped, occupancyRule(2, 20, 80, -10)}}

	first, err := engine.ComputePrice(catalog, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.ComputePrice(catalog, ctx)
		if err != nil {
			t.Fatalf("repeat compute failed: %v", err)
		}
		if !again.FinalPrice.Equal(first.FinalPrice) {
			t.Fatalf("final price drifted: %s vs %s", first.FinalPrice, again.FinalPrice)
		}
		if len(again.Adjustments) != len(first.Adjustments) {
			t.Fatalf("audit trail drifted: %+v vs %+v", first.Adjustments, again.Adjustments)
		}
		for j := range again.Adjustments {
			if again.Adjustments[j].RuleID != first.Adjustments[j].RuleID {
				t.Fatalf("application order drifted at step %d", j)
			}
		}
	}
}

func TestComputePriceFloorsAtZero(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	catalog := Catalog{Rules: []Rule{
		occupancyRule(1, 10, 80, -80),
		func() Rule {
			r := occupancyRule(2, 5, 80, 0)
			r.AdjustmentType = AdjustmentFixedAmount
			r.AdjustmentValue = decimal.NewFromInt(-50)
			return r
		}(),
	}}

	res, err := engine.ComputePrice(catalog, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	// -80% 到 20，再 -50 触底为 0
	mustEqual(t, res.FinalPrice, "0.00", "final price")
	if res.FinalPrice.IsNegative() {
		t.Fatalf("price must never be negative")
	}
	if !res.Adjustments[1].Clamped {
		t.Fatalf("zero floor should be recorded as a clamp: %+v", res.Adjustments[1])
	}
}

func TestComputePriceStrategyNegativeCumulativeClampedUp(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	strategy := Strategy{
		ID:           2,
		TenantID:     1,
		StrategyType: "loyalty",
		Priority:     1,
		IsActive:     true,
		Clauses: ClauseList{
			{Condition: Condition{}, DiscountPercent: decimal.NewFromInt(-4)}, // 恒真的涨价子句
		},
		MinDiscountPercent: decimal.NewFromInt(2),
		MaxDiscountPercent: decimal.NewFromInt(10),
	}

	res, err := engine.ComputePrice(Catalog{Strategies: []Strategy{strategy}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if res.Strategy == nil || !res.Strategy.Clamped {
		t.Fatalf("cumulative below window must clamp up: %+v", res.Strategy)
	}
	mustEqual(t, res.Strategy.AppliedDiscountPercent, "2", "applied discount")
	mustEqual(t, res.FinalPrice, "98.00", "final price")
}

func TestComputePriceMalformedStrategyWindowSkipped(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	strategy := Strategy{
		ID:           3,
		TenantID:     1,
		StrategyType: "seasonal_campaign",
		IsActive:     true,
		Clauses: ClauseList{
			{Condition: Condition{}, DiscountPercent: decimal.NewFromInt(5)},
		},
		MinDiscountPercent: decimal.NewFromInt(10),
		MaxDiscountPercent: decimal.NewFromInt(2), // 区间颠倒
	}

	res, err := engine.ComputePrice(Catalog{Strategies: []Strategy{strategy}}, ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if res.Strategy != nil {
		t.Fatalf("malformed clamp window must disable the strategy pass: %+v", res.Strategy)
	}
	mustEqual(t, res.FinalPrice, "100.00", "final price")
	found := false
	for _, d := range res.Diagnostics {
		if d.Kind == DiagMalformedClamp && d.StrategyID == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected malformed clamp diagnostic, got %+v", res.Diagnostics)
	}
}

func TestComputePriceRejectsInvalidContext(t *testing.T) {
	engine := NewEngine()

	cases := []struct {
		name string
		ctx  Context
	}{
		{"missing tenant", func() Context { c := testContext(); c.TenantID = 0; return c }()},
		{"zero base price", func() Context { c := testContext(); c.BasePrice = decimal.Zero; return c }()},
		{"negative base price", func() Context { c := testContext(); c.BasePrice = decimal.NewFromInt(-10); return c }()},
		{"missing evaluation time", func() Context { c := testContext(); c.EvaluatedAt = time.Time{}; return c }()},
	}
	for _, tc := range cases {
		_, err := engine.ComputePrice(Catalog{}, tc.ctx)
		if !errors.Is(err, ErrInvalidContext) {
			t.Fatalf("%s: expected ErrInvalidContext, got %v", tc.name, err)
		}
	}
}

func TestPreviewCandidates(t *testing.T) {
	engine := NewEngine()
	ctx := testContext()

	catalog := Catalog{Rules: []Rule{
		occupancyRule(1, 10, 80, -10),
		occupancyRule(2, 5, 95, -10),
	}}
	previews, err := engine.PreviewCandidates(catalog, ctx)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("expected 2 previews, got %+v", previews)
	}
	if !previews[0].Matched || previews[0].Rule.ID != 1 {
		t.Fatalf("rule 1 should match first: %+v", previews[0])
	}
	if previews[1].Matched || previews[1].Reason != "condition_not_matched" {
		t.Fatalf("rule 2 should miss: %+v", previews[1])
	}
}
