package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

// PricingStrategyAdminService 定价策略管理服务
type PricingStrategyAdminService struct {
	repo repository.PricingStrategyRepository
}

// NewPricingStrategyAdminService 创建定价策略管理服务
func NewPricingStrategyAdminService(repo repository.PricingStrategyRepository) *PricingStrategyAdminService {
	return &PricingStrategyAdminService{repo: repo}
}

// StrategyInput 策略创建/更新输入
type StrategyInput struct {
	SiteID             *uint
	Name               string
	StrategyType       string
	Priority           int
	IsActive           *bool
	Clauses            pricing.ClauseList
	MinDiscountPercent decimal.Decimal
	MaxDiscountPercent decimal.Decimal
	StartsAt           *time.Time
	EndsAt             *time.Time
}

// Create 创建定价策略
func (s *PricingStrategyAdminService) Create(tenantID uint, input StrategyInput) (*models.PricingStrategy, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	strategy := &models.PricingStrategy{
		TenantID:           tenantID,
		SiteID:             input.SiteID,
		Name:               strings.TrimSpace(input.Name),
		StrategyType:       strings.ToLower(strings.TrimSpace(input.StrategyType)),
		Priority:           input.Priority,
		IsActive:           isActive,
		Clauses:            input.Clauses,
		MinDiscountPercent: input.MinDiscountPercent,
		MaxDiscountPercent: input.MaxDiscountPercent,
		StartsAt:           input.StartsAt,
		EndsAt:             input.EndsAt,
	}
	if err := s.repo.Create(strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

// Update 更新定价策略
func (s *PricingStrategyAdminService) Update(tenantID, id uint, input StrategyInput) (*models.PricingStrategy, error) {
	strategy, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if strategy == nil || strategy.TenantID != tenantID {
		return nil, ErrStrategyNotFound
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	strategy.SiteID = input.SiteID
	strategy.Name = strings.TrimSpace(input.Name)
	strategy.StrategyType = strings.ToLower(strings.TrimSpace(input.StrategyType))
	strategy.Priority = input.Priority
	if input.IsActive != nil {
		strategy.IsActive = *input.IsActive
	}
	strategy.Clauses = input.Clauses
	strategy.MinDiscountPercent = input.MinDiscountPercent
	strategy.MaxDiscountPercent = input.MaxDiscountPercent
	strategy.StartsAt = input.StartsAt
	strategy.EndsAt = input.EndsAt

	if err := s.repo.Update(strategy); err != nil {
		return nil, err
	}
	return strategy, nil
}

// Delete 删除定价策略
func (s *PricingStrategyAdminService) Delete(tenantID, id uint) error {
	strategy, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if strategy == nil || strategy.TenantID != tenantID {
		return ErrStrategyNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取单条定价策略
func (s *PricingStrategyAdminService) Get(tenantID, id uint) (*models.PricingStrategy, error) {
	strategy, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if strategy == nil || strategy.TenantID != tenantID {
		return nil, ErrStrategyNotFound
	}
	return strategy, nil
}

// List 获取定价策略列表
func (s *PricingStrategyAdminService) List(filter repository.PricingStrategyListFilter) ([]models.PricingStrategy, int64, error) {
	return s.repo.List(filter)
}

func (s *PricingStrategyAdminService) validate(input StrategyInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.StrategyType) == "" {
		return ErrStrategyInvalid
	}
	if len(input.Clauses) == 0 {
		return ErrStrategyInvalid
	}
	for _, clause := range input.Clauses {
		if err := clause.Condition.Validate(); err != nil {
			return ErrStrategyInvalid
		}
	}
	if input.MinDiscountPercent.GreaterThan(input.MaxDiscountPercent) {
		return ErrStrategyInvalid
	}
	if input.MaxDiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrStrategyInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.StartsAt.After(*input.EndsAt) {
		return ErrStrategyInvalid
	}
	return nil
}
