package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

// CatalogRepository 规则目录快照读取接口。
// 按租户、场地与 asOf 时点粗筛；起止颠倒的时间窗口不在 SQL 层排除，
// 留给引擎判定并写入审计轨迹的诊断记录。
type CatalogRepository interface {
	FetchActive(tenantID, siteID uint, asOf time.Time) (pricing.Catalog, error)
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录快照仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FetchActive 拉取租户在指定场地 asOf 时点可见的启用规则与策略快照。
// 时间预筛只排除明确已过期或未开始的窗口，保留起止颠倒的窗口。
func (r *GormCatalogRepository) FetchActive(tenantID, siteID uint, asOf time.Time) (pricing.Catalog, error) {
	var ruleRows []models.PricingRule
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Where("(site_id IS NULL OR site_id = ?)", siteID).
		Where("is_active = ?", true).
		Where("((valid_from IS NOT NULL AND valid_until IS NOT NULL AND valid_from > valid_until)"+
			" OR ((valid_from IS NULL OR valid_from <= ?) AND (valid_until IS NULL OR valid_until >= ?)))", asOf, asOf).
		Order("priority DESC, id ASC").
		Find(&ruleRows).Error
	if err != nil {
		return pricing.Catalog{}, err
	}

	var strategyRows []models.PricingStrategy
	err = r.db.
		Where("tenant_id = ?", tenantID).
		Where("(site_id IS NULL OR site_id = ?)", siteID).
		Where("is_active = ?", true).
		Where("((starts_at IS NOT NULL AND ends_at IS NOT NULL AND starts_at > ends_at)"+
			" OR ((starts_at IS NULL OR starts_at <= ?) AND (ends_at IS NULL OR ends_at >= ?)))", asOf, asOf).
		Order("priority DESC, id ASC").
		Find(&strategyRows).Error
	if err != nil {
		return pricing.Catalog{}, err
	}

	catalog := pricing.Catalog{
		Rules:      make([]pricing.Rule, 0, len(ruleRows)),
		Strategies: make([]pricing.Strategy, 0, len(strategyRows)),
	}
	for _, row := range ruleRows {
		catalog.Rules = append(catalog.Rules, row.ToRule())
	}
	for _, row := range strategyRows {
		catalog.Strategies = append(catalog.Strategies, row.ToStrategy())
	}
	return catalog, nil
}
