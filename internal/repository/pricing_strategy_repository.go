package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// PricingStrategyRepository 定价策略数据访问接口
type PricingStrategyRepository interface {
	GetByID(id uint) (*models.PricingStrategy, error)
	Create(strategy *models.PricingStrategy) error
	Update(strategy *models.PricingStrategy) error
	Delete(id uint) error
	List(filter PricingStrategyListFilter) ([]models.PricingStrategy, int64, error)
	WithTx(tx *gorm.DB) *GormPricingStrategyRepository
}

// PricingStrategyListFilter 定价策略列表筛选
type PricingStrategyListFilter struct {
	TenantID     uint
	SiteID       *uint
	StrategyType string
	IsActive     *bool
	Page         int
	PageSize     int
}

// GormPricingStrategyRepository GORM 实现
type GormPricingStrategyRepository struct {
	db *gorm.DB
}

// NewPricingStrategyRepository 创建定价策略仓库
func NewPricingStrategyRepository(db *gorm.DB) *GormPricingStrategyRepository {
	return &GormPricingStrategyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPricingStrategyRepository) WithTx(tx *gorm.DB) *GormPricingStrategyRepository {
	if tx == nil {
		return r
	}
	return &GormPricingStrategyRepository{db: tx}
}

// GetByID 根据ID获取定价策略
func (r *GormPricingStrategyRepository) GetByID(id uint) (*models.PricingStrategy, error) {
	var strategy models.PricingStrategy
	if err := r.db.First(&strategy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &strategy, nil
}

// Create 创建定价策略
func (r *GormPricingStrategyRepository) Create(strategy *models.PricingStrategy) error {
	return r.db.Create(strategy).Error
}

// Update 更新定价策略
func (r *GormPricingStrategyRepository) Update(strategy *models.PricingStrategy) error {
	return r.db.Save(strategy).Error
}

// Delete 删除定价策略
func (r *GormPricingStrategyRepository) Delete(id uint) error {
	return r.db.Delete(&models.PricingStrategy{}, id).Error
}

// List 获取定价策略列表
func (r *GormPricingStrategyRepository) List(filter PricingStrategyListFilter) ([]models.PricingStrategy, int64, error) {
	var strategies []models.PricingStrategy
	query := r.db.Model(&models.PricingStrategy{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ? OR site_id IS NULL", *filter.SiteID)
	}
	if filter.StrategyType != "" {
		query = query.Where("strategy_type = ?", filter.StrategyType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("priority DESC, id ASC").Find(&strategies).Error; err != nil {
		return nil, 0, err
	}
	return strategies, total, nil
}
