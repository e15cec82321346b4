package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// PricingRuleRepository 定价规则数据访问接口
type PricingRuleRepository interface {
	GetByID(id uint) (*models.PricingRule, error)
	Create(rule *models.PricingRule) error
	Update(rule *models.PricingRule) error
	Delete(id uint) error
	List(filter PricingRuleListFilter) ([]models.PricingRule, int64, error)
	WithTx(tx *gorm.DB) *GormPricingRuleRepository
}

// PricingRuleListFilter 定价规则列表筛选
type PricingRuleListFilter struct {
	TenantID uint
	SiteID   *uint
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}

// GormPricingRuleRepository GORM 实现
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewPricingRuleRepository 创建定价规则仓库
func NewPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPricingRuleRepository) WithTx(tx *gorm.DB) *GormPricingRuleRepository {
	if tx == nil {
		return r
	}
	return &GormPricingRuleRepository{db: tx}
}

// GetByID 根据ID获取定价规则
func (r *GormPricingRuleRepository) GetByID(id uint) (*models.PricingRule, error) {
	var rule models.PricingRule
	if err := r.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// Create 创建定价规则
func (r *GormPricingRuleRepository) Create(rule *models.PricingRule) error {
	return r.db.Create(rule).Error
}

// Update 更新定价规则
func (r *GormPricingRuleRepository) Update(rule *models.PricingRule) error {
	return r.db.Save(rule).Error
}

// Delete 删除定价规则
func (r *GormPricingRuleRepository) Delete(id uint) error {
	return r.db.Delete(&models.PricingRule{}, id).Error
}

// List 获取定价规则列表
func (r *GormPricingRuleRepository) List(filter PricingRuleListFilter) ([]models.PricingRule, int64, error) {
	var rules []models.PricingRule
	query := r.db.Model(&models.PricingRule{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID != nil {
		query = query.Where("site_id = ? OR site_id IS NULL", *filter.SiteID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("priority DESC, id ASC").Find(&rules).Error; err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}
