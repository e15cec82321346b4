package admin

import (
	"strconv"

	"github.com/haythemsaa/boxnew-sub008/internal/http/response"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetSites 获取场地列表
func (h *Handler) GetSites(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.SiteListFilter{
		TenantID: tenantID,
		City:     c.Query("city"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	sites, total, err := h.SiteRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取场地列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, sites, pagination)
}

// GetSiteOccupancy 获取场地占用率
func (h *Handler) GetSiteOccupancy(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	siteID, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "场地ID无效", err)
		return
	}

	site, err := h.SiteRepo.GetByID(siteID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取场地失败", err)
		return
	}
	if site == nil || site.TenantID != tenantID {
		respondError(c, response.CodeNotFound, "场地不存在", nil)
		return
	}

	count, err := h.BoxRepo.CountOccupancy(siteID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取占用统计失败", err)
		return
	}

	rate := decimal.Zero
	if count.Total > 0 {
		rate = decimal.NewFromInt(count.Occupied).
			Div(decimal.NewFromInt(count.Total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	response.Success(c, gin.H{
		"site_id":        siteID,
		"total":          count.Total,
		"occupied":       count.Occupied,
		"occupancy_rate": rate,
	})
}

// GetBoxes 获取仓位列表
func (h *Handler) GetBoxes(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.BoxListFilter{
		TenantID:     tenantID,
		SizeCategory: c.Query("size_category"),
		Status:       c.Query("status"),
		Page:         page,
		PageSize:     pageSize,
	}
	if raw := c.Query("site_id"); raw != "" {
		siteID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "场地参数无效", err)
			return
		}
		filter.SiteID = uint(siteID)
	}

	boxes, total, err := h.BoxRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取仓位列表失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, boxes, pagination)
}
