package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// SiteRepository 场地数据访问接口
type SiteRepository interface {
	GetByID(id uint) (*models.Site, error)
	GetByCode(code string) (*models.Site, error)
	Create(site *models.Site) error
	Update(site *models.Site) error
	List(filter SiteListFilter) ([]models.Site, int64, error)
	ListActiveIDs(tenantID uint) ([]uint, error)
	ListAllActive() ([]models.Site, error)
}

// SiteListFilter 场地列表筛选
type SiteListFilter struct {
	TenantID uint
	City     string
	IsActive *bool
	Page     int
	PageSize int
}

// GormSiteRepository GORM 实现
type GormSiteRepository struct {
	db *gorm.DB
}

// NewSiteRepository 创建场地仓库
func NewSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// GetByID 根据ID获取场地
func (r *GormSiteRepository) GetByID(id uint) (*models.Site, error) {
	var site models.Site
	if err := r.db.First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

// GetByCode 根据编码获取场地
func (r *GormSiteRepository) GetByCode(code string) (*models.Site, error) {
	var site models.Site
	if err := r.db.Where("code = ?", code).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

// Create 创建场地
func (r *GormSiteRepository) Create(site *models.Site) error {
	return r.db.Create(site).Error
}

// Update 更新场地
func (r *GormSiteRepository) Update(site *models.Site) error {
	return r.db.Save(site).Error
}

// List 获取场地列表
func (r *GormSiteRepository) List(filter SiteListFilter) ([]models.Site, int64, error) {
	var sites []models.Site
	query := r.db.Model(&models.Site{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id ASC").Find(&sites).Error; err != nil {
		return nil, 0, err
	}
	return sites, total, nil
}

// ListActiveIDs 获取租户所有启用场地的ID（批量重定价调度用）
func (r *GormSiteRepository) ListActiveIDs(tenantID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Site{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListAllActive 获取全部启用场地（跨租户，周期性重定价调度用）
func (r *GormSiteRepository) ListAllActive() ([]models.Site, error) {
	var sites []models.Site
	err := r.db.Where("is_active = ?", true).
		Order("id ASC").
		Find(&sites).Error
	if err != nil {
		return nil, err
	}
	return sites, nil
}
