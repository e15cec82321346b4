package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/http/response"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
	"github.com/haythemsaa/boxnew-sub008/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingRuleRequest 定价规则创建/更新请求
type PricingRuleRequest struct {
	SiteID          *uint             `json:"site_id"`
	Name            string            `json:"name" binding:"required"`
	Type            string            `json:"type" binding:"required"`
	Priority        int               `json:"priority"`
	IsActive        *bool             `json:"is_active"`
	Condition       pricing.Condition `json:"condition"`
	AdjustmentType  string            `json:"adjustment_type" binding:"required"`
	AdjustmentValue decimal.Decimal   `json:"adjustment_value"`
	MinPrice        *models.Money     `json:"min_price"`
	MaxPrice        *models.Money     `json:"max_price"`
	ValidFrom       *time.Time        `json:"valid_from"`
	ValidUntil      *time.Time        `json:"valid_until"`
	Stackable       *bool             `json:"stackable"`
}

func (r PricingRuleRequest) toInput() service.RuleInput {
	return service.RuleInput{
		SiteID:          r.SiteID,
		Name:            r.Name,
		Type:            r.Type,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		Condition:       r.Condition,
		AdjustmentType:  r.AdjustmentType,
		AdjustmentValue: r.AdjustmentValue,
		MinPrice:        r.MinPrice,
		MaxPrice:        r.MaxPrice,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		Stackable:       r.Stackable,
	}
}

// GetPricingRules 获取定价规则列表
func (h *Handler) GetPricingRules(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PricingRuleListFilter{
		TenantID: tenantID,
		Type:     c.Query("type"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("site_id"); raw != "" {
		siteID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "场地参数无效", err)
			return
		}
		id := uint(siteID)
		filter.SiteID = &id
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	rules, total, err := h.RuleAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取定价规则失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, rules, pagination)
}

// GetPricingRule 获取定价规则详情
func (h *Handler) GetPricingRule(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "规则ID无效", err)
		return
	}

	rule, err := h.RuleAdminService.Get(tenantID, id)
	if err != nil {
		if errors.Is(err, service.ErrRuleNotFound) {
			respondError(c, response.CodeNotFound, "定价规则不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取定价规则失败", err)
		return
	}
	response.Success(c, rule)
}

// CreatePricingRule 创建定价规则
func (h *Handler) CreatePricingRule(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	rule, err := h.RuleAdminService.Create(tenantID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrRuleInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "创建定价规则失败", err)
		return
	}
	requestLog(c).Infow("pricing_rule_created", "tenant_id", tenantID, "rule_id", rule.ID, "name", rule.Name)
	response.Success(c, rule)
}

// UpdatePricingRule 更新定价规则
func (h *Handler) UpdatePricingRule(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "规则ID无效", err)
		return
	}
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	rule, err := h.RuleAdminService.Update(tenantID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRuleNotFound):
			respondError(c, response.CodeNotFound, "定价规则不存在", nil)
		case errors.Is(err, service.ErrRuleInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "更新定价规则失败", err)
		}
		return
	}
	requestLog(c).Infow("pricing_rule_updated", "tenant_id", tenantID, "rule_id", rule.ID)
	response.Success(c, rule)
}

// DeletePricingRule 删除定价规则
func (h *Handler) DeletePricingRule(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "规则ID无效", err)
		return
	}

	if err := h.RuleAdminService.Delete(tenantID, id); err != nil {
		if errors.Is(err, service.ErrRuleNotFound) {
			respondError(c, response.CodeNotFound, "定价规则不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除定价规则失败", err)
		return
	}
	requestLog(c).Infow("pricing_rule_deleted", "tenant_id", tenantID, "rule_id", id)
	response.SuccessWithMsg(c, "删除成功", nil)
}

func parseIDParam(c *gin.Context) (uint, error) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}
