package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

func setupPricingRuleTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&PricingRule{}); err != nil {
		t.Fatalf("migrate pricing_rules failed: %v", err)
	}
	return db
}

func TestRuleConditionPersistsAsJSONColumn(t *testing.T) {
	db := setupPricingRuleTest(t)

	rule := &PricingRule{
		TenantID: 1,
		Name:     "高入住率上浮",
		Type:     "occupation_based",
		Priority: 100,
		IsActive: true,
		Condition: RuleCondition{Condition: pricing.Condition{
			Logic: pricing.LogicAnd,
			Children: []pricing.Condition{
				{Field: pricing.FieldOccupancyRate, Operator: pricing.OpGte, Value: pricing.NumberValue(decimal.NewFromInt(85))},
				{Field: pricing.FieldBoxSizeCategory, Operator: pricing.OpEq, Value: pricing.TextValue("medium")},
			},
		}},
		AdjustmentType:  "percentage",
		AdjustmentValue: decimal.NewFromInt(10),
		Stackable:       true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule failed: %v", err)
	}

	var loaded PricingRule
	if err := db.First(&loaded, rule.ID).Error; err != nil {
		t.Fatalf("load rule failed: %v", err)
	}
	cond := loaded.Condition.Condition
	if cond.Logic != pricing.LogicAnd || len(cond.Children) != 2 {
		t.Fatalf("condition tree did not survive storage: %+v", cond)
	}
	leafCond := cond.Children[0]
	if leafCond.Field != pricing.FieldOccupancyRate || leafCond.Operator != pricing.OpGte {
		t.Fatalf("leaf condition did not survive storage: %+v", leafCond)
	}
	if leafCond.Value.Number == nil || !leafCond.Value.Number.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("leaf value did not survive storage: %+v", leafCond.Value)
	}
}

func TestPricingRuleToRuleSnapshot(t *testing.T) {
	site := uint(3)
	min := NewMoneyFromDecimal(decimal.NewFromInt(40))
	row := PricingRule{
		ID:       12,
		TenantID: 1,
		SiteID:   &site,
		Type:     "occupation_based",
		Priority: 100,
		IsActive: true,
		Condition: RuleCondition{Condition: pricing.Condition{
			Field:    pricing.FieldOccupancyRate,
			Operator: pricing.OpGte,
			Value:    pricing.NumberValue(decimal.NewFromInt(85)),
		}},
		AdjustmentType:  "percentage",
		AdjustmentValue: decimal.NewFromInt(10),
		MinPrice:        &min,
		Stackable:       false,
	}

	rule := row.ToRule()
	if rule.ID != 12 || rule.SiteID == nil || *rule.SiteID != site {
		t.Fatalf("snapshot lost identity fields: %+v", rule)
	}
	if rule.Condition.Field != pricing.FieldOccupancyRate {
		t.Fatalf("snapshot lost condition: %+v", rule.Condition)
	}
	if rule.MinPrice == nil || !rule.MinPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("snapshot lost min price: %+v", rule.MinPrice)
	}
	if rule.Stackable {
		t.Fatalf("snapshot lost stackable flag")
	}
}
