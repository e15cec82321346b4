package repository

import (
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// PriceAdjustmentRepository 仓位调价记录数据访问接口
type PriceAdjustmentRepository interface {
	Create(adjustment *models.PriceAdjustment) error
	List(filter PriceAdjustmentListFilter) ([]models.PriceAdjustment, int64, error)
	WithTx(tx *gorm.DB) *GormPriceAdjustmentRepository
}

// PriceAdjustmentListFilter 调价记录列表筛选
type PriceAdjustmentListFilter struct {
	TenantID      uint
	SiteID        uint
	BoxID         uint
	TriggerSource string
	Page          int
	PageSize      int
}

// GormPriceAdjustmentRepository GORM 实现
type GormPriceAdjustmentRepository struct {
	db *gorm.DB
}

// NewPriceAdjustmentRepository 创建调价记录仓库
func NewPriceAdjustmentRepository(db *gorm.DB) *GormPriceAdjustmentRepository {
	return &GormPriceAdjustmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPriceAdjustmentRepository) WithTx(tx *gorm.DB) *GormPriceAdjustmentRepository {
	if tx == nil {
		return r
	}
	return &GormPriceAdjustmentRepository{db: tx}
}

// Create 创建调价记录
func (r *GormPriceAdjustmentRepository) Create(adjustment *models.PriceAdjustment) error {
	return r.db.Create(adjustment).Error
}

// List 获取调价记录列表
func (r *GormPriceAdjustmentRepository) List(filter PriceAdjustmentListFilter) ([]models.PriceAdjustment, int64, error) {
	var adjustments []models.PriceAdjustment
	query := r.db.Model(&models.PriceAdjustment{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID > 0 {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.BoxID > 0 {
		query = query.Where("box_id = ?", filter.BoxID)
	}
	if filter.TriggerSource != "" {
		query = query.Where("trigger_source = ?", filter.TriggerSource)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&adjustments).Error; err != nil {
		return nil, 0, err
	}
	return adjustments, total, nil
}
