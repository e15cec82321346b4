package main

import (
	"fmt"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 租户
	tenant := models.Tenant{
		Name:     "BoxNew Storage",
		Slug:     "boxnew",
		Currency: "EUR",
		IsActive: true,
	}
	var existingTenant models.Tenant
	if err := models.DB.Where("slug = ?", tenant.Slug).First(&existingTenant).Error; err != nil {
		if err := models.DB.Create(&tenant).Error; err != nil {
			stdLog.Fatalf("创建租户失败: %v", err)
		}
		stdLog.Printf("已创建租户: %s", tenant.Slug)
	} else {
		tenant = existingTenant
		stdLog.Printf("租户已存在: %s", tenant.Slug)
	}

	// 场地
	site := models.Site{
		TenantID:  tenant.ID,
		Name:      "Lyon Part-Dieu",
		Code:      "LYO-01",
		Address:   "12 Rue de la Villette",
		City:      "Lyon",
		Amenities: models.StringArray{"24h_access", "video_surveillance", "elevator"},
		IsActive:  true,
	}
	var existingSite models.Site
	if err := models.DB.Where("code = ?", site.Code).First(&existingSite).Error; err != nil {
		if err := models.DB.Create(&site).Error; err != nil {
			stdLog.Fatalf("创建场地失败: %v", err)
		}
		stdLog.Printf("已创建场地: %s", site.Code)
	} else {
		site = existingSite
		stdLog.Printf("场地已存在: %s", site.Code)
	}

	// 仓位
	seedBoxes(stdLog.Printf, tenant.ID, site.ID)

	// 定价规则
	seedRules(stdLog.Printf, tenant.ID, site.ID)

	// 定价策略
	seedStrategy(stdLog.Printf, tenant.ID)

	stdLog.Printf("演示数据初始化完成")
}

func seedBoxes(printf func(string, ...interface{}), tenantID, siteID uint) {
	tiers := []struct {
		size   string
		area   string
		price  string
		count  int
		status string
	}{
		{constants.BoxSizeSmall, "3.00", "49.00", 4, constants.BoxStatusAvailable},
		{constants.BoxSizeMedium, "6.50", "89.00", 4, constants.BoxStatusOccupied},
		{constants.BoxSizeLarge, "12.00", "149.00", 2, constants.BoxStatusAvailable},
	}

	seq := 1
	for _, tier := range tiers {
		for i := 0; i < tier.count; i++ {
			number := fmt.Sprintf("A-%03d", seq)
			seq++
			var existing models.Box
			if err := models.DB.Where("site_id = ? AND number = ?", siteID, number).First(&existing).Error; err == nil {
				printf("仓位已存在: %s", number)
				continue
			}
			price, _ := models.NewMoneyFromString(tier.price)
			area, _ := decimal.NewFromString(tier.area)
			box := models.Box{
				TenantID:     tenantID,
				SiteID:       siteID,
				Number:       number,
				SizeCategory: tier.size,
				AreaM2:       area,
				BasePrice:    price,
				CurrentPrice: price,
				Status:       tier.status,
			}
			if err := models.DB.Create(&box).Error; err != nil {
				printf("创建仓位 %s 失败: %v", number, err)
				continue
			}
			printf("已创建仓位: %s (%s)", number, tier.size)

			if tier.status == constants.BoxStatusOccupied {
				start := time.Now().AddDate(0, -2, 0)
				contract := models.Contract{
					TenantID:        tenantID,
					SiteID:          siteID,
					BoxID:           box.ID,
					CustomerName:    fmt.Sprintf("Demo Customer %d", box.ID),
					CustomerSegment: constants.CustomerSegmentReturning,
					MonthlyPrice:    price,
					DurationMonths:  12,
					StartDate:       start,
					Status:          constants.ContractStatusActive,
				}
				if err := models.DB.Create(&contract).Error; err != nil {
					printf("创建合同失败 (box %d): %v", box.ID, err)
				}
			}
		}
	}
}

func seedRules(printf func(string, ...interface{}), tenantID, siteID uint) {
	rules := []models.PricingRule{
		{
			TenantID: tenantID,
			SiteID:   &siteID,
			Name:     "高占用率加价",
			Type:     constants.RuleTypeOccupationBased,
			Priority: 100,
			IsActive: true,
			Condition: models.RuleCondition{Condition: pricing.Condition{
				Field:    pricing.FieldOccupancyRate,
				Operator: pricing.OpGte,
				Value:    pricing.NumberValue(decimal.NewFromInt(85)),
			}},
			AdjustmentType:  constants.AdjustmentTypePercentage,
			AdjustmentValue: decimal.NewFromInt(10),
			Stackable:       true,
		},
		{
			TenantID: tenantID,
			Name:     "长租折扣",
			Type:     constants.RuleTypeDurationDiscount,
			Priority: 50,
			IsActive: true,
			Condition: models.RuleCondition{Condition: pricing.Condition{
				Field:    pricing.FieldDurationMonths,
				Operator: pricing.OpGte,
				Value:    pricing.NumberValue(decimal.NewFromInt(12)),
			}},
			AdjustmentType:  constants.AdjustmentTypePercentage,
			AdjustmentValue: decimal.NewFromInt(-8),
			Stackable:       true,
		},
		{
			TenantID: tenantID,
			Name:     "夏季旺季调价",
			Type:     constants.RuleTypeSeasonal,
			Priority: 80,
			IsActive: true,
			Condition: models.RuleCondition{Condition: pricing.Condition{
				Field:    pricing.FieldCalendarMonth,
				Operator: pricing.OpBetween,
				Value:    pricing.RangeValue(decimal.NewFromInt(6), decimal.NewFromInt(9)),
			}},
			AdjustmentType:  constants.AdjustmentTypePercentage,
			AdjustmentValue: decimal.NewFromInt(5),
			Stackable:       true,
		},
	}

	for _, rule := range rules {
		var existing models.PricingRule
		if err := models.DB.Where("tenant_id = ? AND name = ?", tenantID, rule.Name).First(&existing).Error; err == nil {
			printf("定价规则已存在: %s", rule.Name)
			continue
		}
		if err := models.DB.Create(&rule).Error; err != nil {
			printf("创建定价规则 %s 失败: %v", rule.Name, err)
			continue
		}
		printf("已创建定价规则: %s", rule.Name)
	}
}

func seedStrategy(printf func(string, ...interface{}), tenantID uint) {
	name := "新客欢迎折扣"
	var existing models.PricingStrategy
	if err := models.DB.Where("tenant_id = ? AND name = ?", tenantID, name).First(&existing).Error; err == nil {
		printf("定价策略已存在: %s", name)
		return
	}

	strategy := models.PricingStrategy{
		TenantID:     tenantID,
		Name:         name,
		StrategyType: "segment_discount",
		Priority:     10,
		IsActive:     true,
		Clauses: pricing.ClauseList{
			{
				Priority: 1,
				Condition: pricing.Condition{
					Field:    pricing.FieldCustomerSegment,
					Operator: pricing.OpEq,
					Value:    pricing.TextValue(constants.CustomerSegmentNew),
				},
				DiscountPercent: decimal.NewFromInt(5),
			},
		},
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(15),
	}
	if err := models.DB.Create(&strategy).Error; err != nil {
		printf("创建定价策略 %s 失败: %v", name, err)
		return
	}
	printf("已创建定价策略: %s", name)
}
