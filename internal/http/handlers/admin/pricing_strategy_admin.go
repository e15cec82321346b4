package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/http/response"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
	"github.com/haythemsaa/boxnew-sub008/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingStrategyRequest 定价策略创建/更新请求
type PricingStrategyRequest struct {
	SiteID             *uint              `json:"site_id"`
	Name               string             `json:"name" binding:"required"`
	StrategyType       string             `json:"strategy_type" binding:"required"`
	Priority           int                `json:"priority"`
	IsActive           *bool              `json:"is_active"`
	Clauses            pricing.ClauseList `json:"clauses"`
	MinDiscountPercent decimal.Decimal    `json:"min_discount_percent"`
	MaxDiscountPercent decimal.Decimal    `json:"max_discount_percent"`
	StartsAt           *time.Time         `json:"starts_at"`
	EndsAt             *time.Time         `json:"ends_at"`
}

func (r PricingStrategyRequest) toInput() service.StrategyInput {
	return service.StrategyInput{
		SiteID:             r.SiteID,
		Name:               r.Name,
		StrategyType:       r.StrategyType,
		Priority:           r.Priority,
		IsActive:           r.IsActive,
		Clauses:            r.Clauses,
		MinDiscountPercent: r.MinDiscountPercent,
		MaxDiscountPercent: r.MaxDiscountPercent,
		StartsAt:           r.StartsAt,
		EndsAt:             r.EndsAt,
	}
}

// GetPricingStrategies 获取定价策略列表
func (h *Handler) GetPricingStrategies(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PricingStrategyListFilter{
		TenantID:     tenantID,
		StrategyType: c.Query("strategy_type"),
		Page:         page,
		PageSize:     pageSize,
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

	strategies, total, err := h.StrategyAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取定价策略失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, strategies, pagination)
}

// GetPricingStrategy 获取定价策略详情
func (h *Handler) GetPricingStrategy(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "策略ID无效", err)
		return
	}

	strategy, err := h.StrategyAdminService.Get(tenantID, id)
	if err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			respondError(c, response.CodeNotFound, "定价策略不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取定价策略失败", err)
		return
	}
	response.Success(c, strategy)
}

// CreatePricingStrategy 创建定价策略
func (h *Handler) CreatePricingStrategy(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	var req PricingStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	strategy, err := h.StrategyAdminService.Create(tenantID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrStrategyInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "创建定价策略失败", err)
		return
	}
	requestLog(c).Infow("pricing_strategy_created", "tenant_id", tenantID, "strategy_id", strategy.ID, "name", strategy.Name)
	response.Success(c, strategy)
}

// UpdatePricingStrategy 更新定价策略
func (h *Handler) UpdatePricingStrategy(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "策略ID无效", err)
		return
	}
	var req PricingStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	strategy, err := h.StrategyAdminService.Update(tenantID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStrategyNotFound):
			respondError(c, response.CodeNotFound, "定价策略不存在", nil)
		case errors.Is(err, service.ErrStrategyInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "更新定价策略失败", err)
		}
		return
	}
	requestLog(c).Infow("pricing_strategy_updated", "tenant_id", tenantID, "strategy_id", strategy.ID)
	response.Success(c, strategy)
}

// DeletePricingStrategy 删除定价策略
func (h *Handler) DeletePricingStrategy(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "策略ID无效", err)
		return
	}

	if err := h.StrategyAdminService.Delete(tenantID, id); err != nil {
		if errors.Is(err, service.ErrStrategyNotFound) {
			respondError(c, response.CodeNotFound, "定价策略不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除定价策略失败", err)
		return
	}
	requestLog(c).Infow("pricing_strategy_deleted", "tenant_id", tenantID, "strategy_id", id)
	response.SuccessWithMsg(c, "删除成功", nil)
}
