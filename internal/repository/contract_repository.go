package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

// ContractRepository 合同数据访问接口
type ContractRepository interface {
	GetByID(id uint) (*models.Contract, error)
	Create(contract *models.Contract) error
	Update(contract *models.Contract) error
	List(filter ContractListFilter) ([]models.Contract, int64, error)
	ListActiveBySite(siteID uint) ([]models.Contract, error)
	WithTx(tx *gorm.DB) *GormContractRepository
}

// ContractListFilter 合同列表筛选
type ContractListFilter struct {
	TenantID uint
	SiteID   uint
	BoxID    uint
	Status   string
	Page     int
	PageSize int
}

// GormContractRepository GORM 实现
type GormContractRepository struct {
	db *gorm.DB
}

// NewContractRepository 创建合同仓库
func NewContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// WithTx 绑定事务
func (r *GormContractRepository) WithTx(tx *gorm.DB) *GormContractRepository {
	if tx == nil {
		return r
	}
	return &GormContractRepository{db: tx}
}

// GetByID 根据ID获取合同
func (r *GormContractRepository) GetByID(id uint) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.Preload("Box").First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// Create 创建合同
func (r *GormContractRepository) Create(contract *models.Contract) error {
	return r.db.Create(contract).Error
}

// Update 更新合同
func (r *GormContractRepository) Update(contract *models.Contract) error {
	return r.db.Save(contract).Error
}

// List 获取合同列表
func (r *GormContractRepository) List(filter ContractListFilter) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	query := r.db.Model(&models.Contract{})

	if filter.TenantID > 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SiteID > 0 {
		query = query.Where("site_id = ?", filter.SiteID)
	}
	if filter.BoxID > 0 {
		query = query.Where("box_id = ?", filter.BoxID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id ASC").Find(&contracts).Error; err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

// ListActiveBySite 获取场地下全部生效合同（批量重定价用，带仓位信息）
func (r *GormContractRepository) ListActiveBySite(siteID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.Preload("Box").
		Where("site_id = ? AND status = ?", siteID, constants.ContractStatusActive).
		Order("id ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
