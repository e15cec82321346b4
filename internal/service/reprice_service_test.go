package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

func setupRepriceServiceTest(t *testing.T) (*RepriceService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Site{}, &models.Box{}, &models.Contract{},
		&models.PricingRule{}, &models.PricingStrategy{},
		&models.PriceResolutionLog{}, &models.PriceAdjustment{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Repricing: config.RepricingConfig{WorkerPoolSize: 2},
	}
	svc := NewRepriceService(
		cfg,
		db,
		pricing.NewEngine(),
		repository.NewSiteRepository(db),
		repository.NewBoxRepository(db),
		repository.NewContractRepository(db),
		repository.NewCatalogRepository(db),
	)
	return svc, db
}

func seedRepriceFixture(t *testing.T, db *gorm.DB) *models.Site {
	t.Helper()
	site := &models.Site{TenantID: 1, Name: "重定价场地", Code: "R-01", IsActive: true}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("create site failed: %v", err)
	}

	// 全部占用，入住率 100%
	for i := 0; i < 3; i++ {
		box := &models.Box{
			TenantID:     1,
			SiteID:       site.ID,
			Number:       "R-0" + string(rune('1'+i)),
			SizeCategory: constants.BoxSizeMedium,
			BasePrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			CurrentPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			Status:       constants.BoxStatusOccupied,
		}
		if err := db.Create(box).Error; err != nil {
			t.Fatalf("create box failed: %v", err)
		}
		contract := &models.Contract{
			TenantID:        1,
			SiteID:          site.ID,
			BoxID:           box.ID,
			CustomerName:    "客户",
			CustomerSegment: constants.CustomerSegmentReturning,
			MonthlyPrice:    box.CurrentPrice,
			DurationMonths:  12,
			StartDate:       time.Now().AddDate(0, -6, 0),
			Status:          constants.ContractStatusActive,
		}
		if err := db.Create(contract).Error; err != nil {
			t.Fatalf("create contract failed: %v", err)
		}
	}

	rule := &models.PricingRule{
		TenantID: 1,
		Name:     "满仓上浮",
		Type:     constants.RuleTypeOccupationBased,
		Priority: 10,
		IsActive: true,
		Condition: models.RuleCondition{Condition: pricing.Condition{
			Field:    pricing.FieldOccupancyRate,
			Operator: pricing.OpGte,
			Value:    pricing.NumberValue(decimal.NewFromInt(90)),
		}},
		AdjustmentType:  constants.AdjustmentTypePercentage,
		AdjustmentValue: decimal.NewFromInt(5),
		Stackable:       true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create rule failed: %v", err)
	}
	return site
}

func TestRepriceSiteUpdatesPrices(t *testing.T) {
	svc, db := setupRepriceServiceTest(t)
	site := seedRepriceFixture(t, db)

	summary, err := svc.RepriceSite(context.Background(), 1, site.ID)
	if err != nil {
		t.Fatalf("reprice failed: %v", err)
	}
	if summary.Total != 3 || summary.Repriced != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var boxes []models.Box
	if err := db.Where("site_id = ?", site.ID).Find(&boxes).Error; err != nil {
		t.Fatalf("load boxes failed: %v", err)
	}
	for _, box := range boxes {
		if box.CurrentPrice.String() != "105.00" {
			t.Fatalf("box %d price not updated: %s", box.ID, box.CurrentPrice)
		}
	}

	var logCount, adjCount int64
	db.Model(&models.PriceResolutionLog{}).Count(&logCount)
	db.Model(&models.PriceAdjustment{}).Count(&adjCount)
	if logCount != 3 || adjCount != 3 {
		t.Fatalf("expected 3 logs and 3 adjustments, got %d / %d", logCount, adjCount)
	}

	var adj models.PriceAdjustment
	if err := db.First(&adj).Error; err != nil {
		t.Fatalf("load adjustment failed: %v", err)
	}
	if adj.TriggerSource != constants.AdjustmentTriggerRepricing || adj.ResolutionID == nil {
		t.Fatalf("adjustment not linked to resolution: %+v", adj)
	}
	if adj.OldPrice.String() != "100.00" || adj.NewPrice.String() != "105.00" {
		t.Fatalf("adjustment prices wrong: %+v", adj)
	}
}

func TestRepriceSiteSecondRunIsIdempotent(t *testing.T) {
	svc, db := setupRepriceServiceTest(t)
	site := seedRepriceFixture(t, db)

	if _, err := svc.RepriceSite(context.Background(), 1, site.ID); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	summary, err := svc.RepriceSite(context.Background(), 1, site.ID)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Repriced != 0 || summary.Unchanged != 3 {
		t.Fatalf("second run should change nothing: %+v", summary)
	}

	var adjCount int64
	db.Model(&models.PriceAdjustment{}).Count(&adjCount)
	if adjCount != 3 {
		t.Fatalf("no new adjustments expected, got %d", adjCount)
	}
}

func TestRepriceSiteHonorsCancellation(t *testing.T) {
	svc, db := setupRepriceServiceTest(t)
	site := seedRepriceFixture(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := svc.RepriceSite(ctx, 1, site.ID)
	if err != nil {
		t.Fatalf("canceled run should still return summary: %v", err)
	}
	if !summary.Canceled {
		t.Fatalf("expected canceled flag: %+v", summary)
	}
	if summary.Repriced != 0 {
		t.Fatalf("no contract should be dispatched after cancel: %+v", summary)
	}
}

func TestRepriceSiteRejectsForeignTenant(t *testing.T) {
	svc, db := setupRepriceServiceTest(t)
	site := seedRepriceFixture(t, db)

	if _, err := svc.RepriceSite(context.Background(), 2, site.ID); err != ErrSiteNotFound {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}
