package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestApplyPercentageAdjustment(t *testing.T) {
	var applier AdjustmentApplier
	rule := Rule{AdjustmentType: AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(-10)}

	next, clamped := applier.Apply(decimal.NewFromInt(100), rule)
	if !next.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected 90, got %s", next)
	}
	if clamped {
		t.Fatalf("unexpected clamp")
	}

	surcharge := Rule{AdjustmentType: AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(15)}
	next, _ = applier.Apply(decimal.NewFromInt(200), surcharge)
	if !next.Equal(decimal.NewFromInt(230)) {
		t.Fatalf("expected 230, got %s", next)
	}
}

func TestApplyFixedAmountAdjustment(t *testing.T) {
	var applier AdjustmentApplier
	rule := Rule{AdjustmentType: AdjustmentFixedAmount, AdjustmentValue: decFromString(t, "-5.50")}

	next, clamped := applier.Apply(decimal.NewFromInt(100), rule)
	if !next.Equal(decFromString(t, "94.50")) {
		t.Fatalf("expected 94.50, got %s", next)
	}
	if clamped {
		t.Fatalf("unexpected clamp")
	}
}

func TestApplyClampsToRuleBounds(t *testing.T) {
	var applier AdjustmentApplier
	min := decimal.NewFromInt(95)
	rule := Rule{
		AdjustmentType:  AdjustmentPercentage,
		AdjustmentValue: decimal.NewFromInt(-20),
		MinPrice:        &min,
	}

	next, clamped := applier.Apply(decimal.NewFromInt(100), rule)
	if !next.Equal(min) {
		t.Fatalf("expected clamp to 95, got %s", next)
	}
	if !clamped {
		t.Fatalf("expected clamped flag")
	}

	max := decimal.NewFromInt(110)
	surge := Rule{
		AdjustmentType:  AdjustmentPercentage,
		AdjustmentValue: decimal.NewFromInt(25),
		MaxPrice:        &max,
	}
	next, clamped = applier.Apply(decimal.NewFromInt(100), surge)
	if !next.Equal(max) || !clamped {
		t.Fatalf("expected clamp to 110, got %s clamped=%v", next, clamped)
	}
}

func TestApplyNeverGoesNegative(t *testing.T) {
	var applier AdjustmentApplier
	rule := Rule{AdjustmentType: AdjustmentFixedAmount, AdjustmentValue: decimal.NewFromInt(-150)}

	next, clamped := applier.Apply(decimal.NewFromInt(100), rule)
	if !next.Equal(decimal.Zero) {
		t.Fatalf("expected floor at zero, got %s", next)
	}
	if !clamped {
		t.Fatalf("zero floor should report clamp")
	}
}

func TestApplyUnknownTypeIsNoop(t *testing.T) {
	var applier AdjustmentApplier
	rule := Rule{AdjustmentType: "tiered", AdjustmentValue: decimal.NewFromInt(-10)}

	next, clamped := applier.Apply(decimal.NewFromInt(100), rule)
	if !next.Equal(decimal.NewFromInt(100)) || clamped {
		t.Fatalf("unknown adjustment type should leave price untouched, got %s clamped=%v", next, clamped)
	}
}
