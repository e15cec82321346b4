package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

func setupRuleAdminServiceTest(t *testing.T) *PricingRuleAdminService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PricingRule{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewPricingRuleAdminService(repository.NewPricingRuleRepository(db))
}

func validRuleInput() RuleInput {
	return RuleInput{
		Name:     "长租折扣",
		Type:     constants.RuleTypeDurationDiscount,
		Priority: 5,
		Condition: pricing.Condition{
			Field:    pricing.FieldDurationMonths,
			Operator: pricing.OpGte,
			Value:    pricing.NumberValue(decimal.NewFromInt(6)),
		},
		AdjustmentType:  constants.AdjustmentTypePercentage,
		AdjustmentValue: decimal.NewFromInt(-5),
	}
}

func TestRuleAdminCreate(t *testing.T) {
	svc := setupRuleAdminServiceTest(t)

	rule, err := svc.Create(1, validRuleInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rule.ID == 0 || rule.TenantID != 1 {
		t.Fatalf("rule not persisted: %+v", rule)
	}
	if !rule.IsActive || !rule.Stackable {
		t.Fatalf("defaults should enable and stack: %+v", rule)
	}
}

func TestRuleAdminCreateValidation(t *testing.T) {
	svc := setupRuleAdminServiceTest(t)

	cases := []struct {
		name   string
		mutate func(*RuleInput)
	}{
		{"empty name", func(in *RuleInput) { in.Name = " " }},
		{"unknown type", func(in *RuleInput) { in.Type = "weather_based" }},
		{"unknown adjustment", func(in *RuleInput) { in.AdjustmentType = "tiered" }},
		{"discount beyond full", func(in *RuleInput) { in.AdjustmentValue = decimal.NewFromInt(-120) }},
		{"broken condition", func(in *RuleInput) {
			in.Condition = pricing.Condition{Logic: pricing.LogicNot}
		}},
		{"min above max", func(in *RuleInput) {
			min := models.NewMoneyFromDecimal(decimal.NewFromInt(100))
			max := models.NewMoneyFromDecimal(decimal.NewFromInt(50))
			in.MinPrice = &min
			in.MaxPrice = &max
		}},
	}
	for _, tc := range cases {
		input := validRuleInput()
		tc.mutate(&input)
		if _, err := svc.Create(1, input); err != ErrRuleInvalid {
			t.Fatalf("%s: expected ErrRuleInvalid, got %v", tc.name, err)
		}
	}
}

func TestRuleAdminUpdateScopedToTenant(t *testing.T) {
	svc := setupRuleAdminServiceTest(t)
	rule, err := svc.Create(1, validRuleInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(2, rule.ID, validRuleInput()); err != ErrRuleNotFound {
		t.Fatalf("foreign tenant update should fail: %v", err)
	}

	input := validRuleInput()
	input.Priority = 99
	updated, err := svc.Update(1, rule.ID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Priority != 99 {
		t.Fatalf("priority not updated: %+v", updated)
	}
}

func TestRuleAdminDelete(t *testing.T) {
	svc := setupRuleAdminServiceTest(t)
	rule, err := svc.Create(1, validRuleInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(2, rule.ID); err != ErrRuleNotFound {
		t.Fatalf("foreign tenant delete should fail: %v", err)
	}
	if err := svc.Delete(1, rule.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(1, rule.ID); err != ErrRuleNotFound {
		t.Fatalf("deleted rule should vanish: %v", err)
	}
}
