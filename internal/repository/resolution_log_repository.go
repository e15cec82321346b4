package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// ResolutionLogRepository 价格计算归档数据访问接口
type ResolutionLogRepository interface {
	GetByID(id uint) (*models.PriceResolutionLog, error)
	Create(log *models.PriceResolutionLog) error
	List(filter ResolutionLogListFilter) ([]models.PriceResolutionLog, int64, error)
	WithTx(tx *gorm.DB) *GormResolutionLogRepository
}

// ResolutionLogListFilter 归档列表筛选
type ResolutionLogListFilter struct {
	TenantID uint
	SiteID   uint
	BoxID    uint
	Source   string
	Since    *time.Time
	Page     int
	PageSize int
}

// GormResolutionLogRepository GORM 实现
type GormResolutionLogRepository struct {
	db *gorm.DB
}

// NewResolutionLogRepository 创建归档仓库
func NewResolutionLogRepository(db *gorm.DB) *GormResolutionLogRepository {
	return &GormResolutionLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormResolutionLogRepository) WithTx(tx *gorm.DB) *GormResolutionLogRepository {
	if tx == nil {
		return r
	}
	return &GormResolutionLogRepository{db: tx}
}

// GetByID 根据ID获取归档记录
func (r *GormResolutionLogRepository) GetByID(id uint) (*models.PriceResolutionLog, error) {
	var log models.PriceResolutionLog
	if err := r.db.First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// Create 创建归档记录
func (r *GormResolutionLogRepository) Create(log *models.PriceResolutionLog) error {
	return r.db.Create(log).Error
}

// List 获取归档列表（按计算时点倒序）
func (r *GormResolutionLogRepository) List(filter ResolutionLogListFilter) ([]models.PriceResolutionLog, int64, error) {
	var logs []models.PriceResolutionLog
	query := r.db.Model(&models.PriceResolutionLog{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID > 0 {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.BoxID > 0 {
		query = query.Where("box_id = ?", filter.BoxID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Since != nil {
		query = query.Where("evaluated_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("evaluated_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
