package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

func setupCatalogRepositoryTest(t *testing.T) (*GormCatalogRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PricingRule{}, &models.PricingStrategy{}); err != nil {
		t.Fatalf("migrate pricing tables failed: %v", err)
	}
	return NewCatalogRepository(db), db
}

func createOccupancyRule(t *testing.T, db *gorm.DB, tenantID uint, siteID *uint, active bool) *models.PricingRule {
	t.Helper()
	rule := &models.PricingRule{
		TenantID: tenantID,
		SiteID:   siteID,
		Name:     "高入住率上浮",
		Type:     constants.RuleTypeOccupationBased,
		Priority: 10,
		IsActive: active,
		Condition: models.RuleCondition{Condition: pricing.Condition{
			Field:    pricing.FieldOccupancyRate,
			Operator: pricing.OpGte,
			Value:    pricing.NumberValue(decimal.NewFromInt(80)),
		}},
		AdjustmentType:  constants.AdjustmentTypePercentage,
		AdjustmentValue: decimal.NewFromInt(10),
		Stackable:       true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule failed: %v", err)
	}
	return rule
}

func TestFetchActiveScopesByTenantAndSite(t *testing.T) {
	repo, db := setupCatalogRepositoryTest(t)

	site := uint(1)
	otherSite := uint(2)
	createOccupancyRule(t, db, 1, nil, true)        // 租户级，命中
	createOccupancyRule(t, db, 1, &site, true)      // 本场地，命中
	createOccupancyRule(t, db, 1, &otherSite, true) // 其他场地，排除
	createOccupancyRule(t, db, 2, nil, true)        // 其他租户，排除
	createOccupancyRule(t, db, 1, nil, false)       // 停用，排除

	catalog, err := repo.FetchActive(1, site, time.Now())
	if err != nil {
		t.Fatalf("fetch active failed: %v", err)
	}
	if len(catalog.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(catalog.Rules))
	}
	for _, rule := range catalog.Rules {
		if rule.TenantID != 1 {
			t.Fatalf("foreign tenant rule leaked: %+v", rule)
		}
		if rule.SiteID != nil && *rule.SiteID != site {
			t.Fatalf("foreign site rule leaked: %+v", rule)
		}
	}
}

func TestFetchActiveRoundTripsConditionTree(t *testing.T) {
	repo, db := setupCatalogRepositoryTest(t)
	createOccupancyRule(t, db, 1, nil, true)

	catalog, err := repo.FetchActive(1, 1, time.Now())
	if err != nil {
		t.Fatalf("fetch active failed: %v", err)
	}
	if len(catalog.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(catalog.Rules))
	}
	cond := catalog.Rules[0].Condition
	if cond.Field != pricing.FieldOccupancyRate || cond.Operator != pricing.OpGte {
		t.Fatalf("condition did not survive storage: %+v", cond)
	}
	if cond.Value.Number == nil || !cond.Value.Number.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("condition value did not survive storage: %+v", cond.Value)
	}
}

func TestFetchActiveIncludesStrategies(t *testing.T) {
	repo, db := setupCatalogRepositoryTest(t)

	strategy := &models.PricingStrategy{
		TenantID:     1,
		Name:         "夏季促销",
		StrategyType: "seasonal_campaign",
		Priority:     5,
		IsActive:     true,
		Clauses: pricing.ClauseList{
			{
				Condition: pricing.Condition{
					Field:    pricing.FieldCalendarMonth,
					Operator: pricing.OpBetween,
					Value:    pricing.RangeValue(decimal.NewFromInt(6), decimal.NewFromInt(8)),
				},
				DiscountPercent: decimal.NewFromInt(5),
			},
		},
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(15),
	}
	if err := db.Create(strategy).Error; err != nil {
		t.Fatalf("create strategy failed: %v", err)
	}

	catalog, err := repo.FetchActive(1, 1, time.Now())
	if err != nil {
		t.Fatalf("fetch active failed: %v", err)
	}
	if len(catalog.Strategies) != 1 {
		t.Fatalf("expected 1 strategy, got %d", len(catalog.Strategies))
	}
	got := catalog.Strategies[0]
	if len(got.Clauses) != 1 || !got.Clauses[0].DiscountPercent.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("clauses did not survive storage: %+v", got.Clauses)
	}
}

func createWindowedRule(t *testing.T, db *gorm.DB, name string, from, until *time.Time) {
	t.Helper()
	rule := &models.PricingRule{
		TenantID: 1,
		Name:     name,
		Type:     constants.RuleTypePromotional,
		Priority: 10,
		IsActive: true,
		Condition: models.RuleCondition{Condition: pricing.Condition{
			Field:    pricing.FieldDurationMonths,
			Operator: pricing.OpGte,
			Value:    pricing.NumberValue(decimal.NewFromInt(1)),
		}},
		AdjustmentType:  constants.AdjustmentTypePercentage,
		AdjustmentValue: decimal.NewFromInt(-5),
		ValidFrom:       from,
		ValidUntil:      until,
		Stackable:       true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule failed: %v", err)
	}
}

func TestFetchActivePrefiltersValidityWindows(t *testing.T) {
	repo, db := setupCatalogRepositoryTest(t)

	asOf := time.Now()
	past := asOf.Add(-48 * time.Hour)
	future := asOf.Add(48 * time.Hour)

	createWindowedRule(t, db, "开放窗口", nil, nil)
	createWindowedRule(t, db, "窗口内", &past, &future)
	createWindowedRule(t, db, "已过期", nil, &past)
	createWindowedRule(t, db, "未开始", &future, nil)
	createWindowedRule(t, db, "起止颠倒", &future, &past) // 留给引擎诊断

	catalog, err := repo.FetchActive(1, 1, asOf)
	if err != nil {
		t.Fatalf("fetch active failed: %v", err)
	}
	if len(catalog.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(catalog.Rules))
	}
	inverted := 0
	for _, rule := range catalog.Rules {
		if rule.ValidFrom != nil && rule.ValidUntil != nil && rule.ValidFrom.After(*rule.ValidUntil) {
			inverted++
			continue
		}
		if rule.ValidUntil != nil && rule.ValidUntil.Before(asOf) {
			t.Fatalf("expired rule leaked: %+v", rule)
		}
		if rule.ValidFrom != nil && rule.ValidFrom.After(asOf) {
			t.Fatalf("not-yet-started rule leaked: %+v", rule)
		}
	}
	if inverted != 1 {
		t.Fatalf("expected inverted window to survive prefilter, got %d", inverted)
	}
}

func TestFetchActiveExcludesInactiveTenantLevelRule(t *testing.T) {
	repo, db := setupCatalogRepositoryTest(t)

	site := uint(1)
	createOccupancyRule(t, db, 1, &site, true)
	createOccupancyRule(t, db, 1, nil, false) // 停用的租户级规则不得混入场地过滤

	catalog, err := repo.FetchActive(1, site, time.Now())
	if err != nil {
		t.Fatalf("fetch active failed: %v", err)
	}
	if len(catalog.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(catalog.Rules))
	}
}
