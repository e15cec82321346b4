package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// BoxRepository 仓位数据访问接口
type BoxRepository interface {
	GetByID(id uint) (*models.Box, error)
	Create(box *models.Box) error
	Update(box *models.Box) error
	UpdateCurrentPrice(id uint, price models.Money) error
	List(filter BoxListFilter) ([]models.Box, int64, error)
	CountOccupancy(siteID uint) (OccupancyCount, error)
	WithTx(tx *gorm.DB) *GormBoxRepository
}

// BoxListFilter 仓位列表筛选
type BoxListFilter struct {
	TenantID     uint
	SiteID       uint
	SizeCategory string
	Status       string
	Page         int
	PageSize     int
}

// OccupancyCount 场地占用统计
type OccupancyCount struct {
	Total    int64 `json:"total"`    // 仓位总数
	Occupied int64 `json:"occupied"` // 已占用数（含预订）
}

// GormBoxRepository GORM 实现
type GormBoxRepository struct {
	db *gorm.DB
}

// NewBoxRepository 创建仓位仓库
func NewBoxRepository(db *gorm.DB) *GormBoxRepository {
	return &GormBoxRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBoxRepository) WithTx(tx *gorm.DB) *GormBoxRepository {
	if tx == nil {
		return r
	}
	return &GormBoxRepository{db: tx}
}

// GetByID 根据ID获取仓位
func (r *GormBoxRepository) GetByID(id uint) (*models.Box, error) {
	var box models.Box
	if err := r.db.First(&box, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &box, nil
}

// Create 创建仓位
func (r *GormBoxRepository) Create(box *models.Box) error {
	return r.db.Create(box).Error
}

// Update 更新仓位
func (r *GormBoxRepository) Update(box *models.Box) error {
	return r.db.Save(box).Error
}

// UpdateCurrentPrice 更新仓位当前生效价
func (r *GormBoxRepository) UpdateCurrentPrice(id uint, price models.Money) error {
	return r.db.Model(&models.Box{}).Where("id = ?", id).Update("current_price", price).Error
}

// List 获取仓位列表
func (r *GormBoxRepository) List(filter BoxListFilter) ([]models.Box, int64, error) {
	var boxes []models.Box
	query := r.db.Model(&models.Box{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID > 0 {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.SizeCategory != "" {
		query = query.Where("size_category = ?", filter.SizeCategory)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id ASC").Find(&boxes).Error; err != nil {
		return nil, 0, err
	}
	return boxes, total, nil
}

// CountOccupancy 统计场地占用情况（预订中的仓位计入占用）
func (r *GormBoxRepository) CountOccupancy(siteID uint) (OccupancyCount, error) {
	var count OccupancyCount
	base := r.db.Model(&models.Box{}).Where("site_id = ?", siteID)

	if err := base.Session(&gorm.Session{}).Count(&count.Total).Error; err != nil {
		return OccupancyCount{}, err
	}
	err := base.Session(&gorm.Session{}).
		Where("status IN ?", []string{constants.BoxStatusOccupied, constants.BoxStatusReserved}).
		Count(&count.Occupied).Error
	if err != nil {
		return OccupancyCount{}, err
	}
	return count, nil
}
