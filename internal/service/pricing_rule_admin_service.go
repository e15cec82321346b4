package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

// PricingRuleAdminService 定价规则管理服务
type PricingRuleAdminService struct {
	repo repository.PricingRuleRepository
}

// NewPricingRuleAdminService 创建定价规则管理服务
func NewPricingRuleAdminService(repo repository.PricingRuleRepository) *PricingRuleAdminService {
	return &PricingRuleAdminService{repo: repo}
}

// RuleInput 规则创建/更新输入
type RuleInput struct {
	SiteID          *uint
	Name            string
	Type            string
	Priority        int
	IsActive        *bool
	Condition       pricing.Condition
	AdjustmentType  string
	AdjustmentValue decimal.Decimal
	MinPrice        *models.Money
	MaxPrice        *models.Money
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	Stackable       *bool
}

// Create 创建定价规则
func (s *PricingRuleAdminService) Create(tenantID uint, input RuleInput) (*models.PricingRule, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	stackable := true
	if input.Stackable != nil {
		stackable = *input.Stackable
	}

	rule := &models.PricingRule{
		TenantID:        tenantID,
		SiteID:          input.SiteID,
		Name:            strings.TrimSpace(input.Name),
		Type:            strings.ToLower(strings.TrimSpace(input.Type)),
		Priority:        input.Priority,
		IsActive:        isActive,
		Condition:       models.RuleCondition{Condition: input.Condition},
		AdjustmentType:  strings.ToLower(strings.TrimSpace(input.AdjustmentType)),
		AdjustmentValue: input.AdjustmentValue,
		MinPrice:        input.MinPrice,
		MaxPrice:        input.MaxPrice,
		ValidFrom:       input.ValidFrom,
		ValidUntil:      input.ValidUntil,
		Stackable:       stackable,
	}
	if err := s.repo.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update 更新定价规则
func (s *PricingRuleAdminService) Update(tenantID, id uint, input RuleInput) (*models.PricingRule, error) {
	rule, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.TenantID != tenantID {
		return nil, ErrRuleNotFound
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	rule.SiteID = input.SiteID
	rule.Name = strings.TrimSpace(input.Name)
	rule.Type = strings.ToLower(strings.TrimSpace(input.Type))
	rule.Priority = input.Priority
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	rule.Condition = models.RuleCondition{Condition: input.Condition}
	rule.AdjustmentType = strings.ToLower(strings.TrimSpace(input.AdjustmentType))
	rule.AdjustmentValue = input.AdjustmentValue
	rule.MinPrice = input.MinPrice
	rule.MaxPrice = input.MaxPrice
	rule.ValidFrom = input.ValidFrom
	rule.ValidUntil = input.ValidUntil
	if input.Stackable != nil {
		rule.Stackable = *input.Stackable
	}

	if err := s.repo.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Delete 删除定价规则
func (s *PricingRuleAdminService) Delete(tenantID, id uint) error {
	rule, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if rule == nil || rule.TenantID != tenantID {
		return ErrRuleNotFound
	}
	return s.repo.Delete(id)
}

// Get 获取单条定价规则
func (s *PricingRuleAdminService) Get(tenantID, id uint) (*models.PricingRule, error) {
	rule, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rule == nil || rule.TenantID != tenantID {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

// List 获取定价规则列表
func (s *PricingRuleAdminService) List(filter repository.PricingRuleListFilter) ([]models.PricingRule, int64, error) {
	return s.repo.List(filter)
}

func (s *PricingRuleAdminService) validate(input RuleInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrRuleInvalid
	}

	ruleType := strings.ToLower(strings.TrimSpace(input.Type))
	known := false
	for _, t := range constants.RuleTypes {
		if ruleType == t {
			known = true
			break
		}
	}
	if !known {
		return ErrRuleInvalid
	}

	adjustmentType := strings.ToLower(strings.TrimSpace(input.AdjustmentType))
	if adjustmentType != constants.AdjustmentTypePercentage && adjustmentType != constants.AdjustmentTypeFixedAmount {
		return ErrRuleInvalid
	}
	// 百分比降幅不允许超过 -100%
	if adjustmentType == constants.AdjustmentTypePercentage &&
		input.AdjustmentValue.LessThan(decimal.NewFromInt(-100)) {
		return ErrRuleInvalid
	}

	if err := input.Condition.Validate(); err != nil {
		return ErrRuleInvalid
	}

	if input.MinPrice != nil && input.MaxPrice != nil &&
		input.MinPrice.Decimal.GreaterThan(input.MaxPrice.Decimal) {
		return ErrRuleInvalid
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidFrom.After(*input.ValidUntil) {
		return ErrRuleInvalid
	}
	return nil
}
