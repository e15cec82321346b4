package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/http/response"
	"github.com/haythemsaa/boxnew-sub008/internal/queue"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
	"github.com/haythemsaa/boxnew-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

// PreviewQuoteRequest 报价试算请求
type PreviewQuoteRequest struct {
	BoxID           uint   `json:"box_id" binding:"required"`
	DurationMonths  int    `json:"duration_months"`
	CustomerSegment string `json:"customer_segment"`
}

// PreviewQuote 管理端报价试算：返回完整报价与逐条规则的匹配诊断
func (h *Handler) PreviewQuote(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	var req PreviewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	box, err := h.BoxRepo.GetByID(req.BoxID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取仓位失败", err)
		return
	}
	if box == nil || box.TenantID != tenantID {
		respondError(c, response.CodeNotFound, "仓位不存在", nil)
		return
	}

	result, candidates, err := h.QuoteService.Preview(service.QuoteInput{
		BoxID:           req.BoxID,
		DurationMonths:  req.DurationMonths,
		CustomerSegment: req.CustomerSegment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoxNotFound):
			respondError(c, response.CodeNotFound, "仓位不存在", nil)
		case errors.Is(err, service.ErrQuoteInvalid):
			respondError(c, response.CodeBadRequest, "报价请求参数无效", nil)
		default:
			respondError(c, response.CodeInternal, "报价试算失败", err)
		}
		return
	}
	response.Success(c, gin.H{
		"quote":      result,
		"candidates": candidates,
	})
}

// TriggerSiteReprice 触发场地批量重定价。
// 队列启用时异步执行，否则当前请求内同步执行并返回汇总。
func (h *Handler) TriggerSiteReprice(c *gin.Context) {
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

	if h.QueueClient.Enabled() {
		payload := queue.SiteRepricePayload{TenantID: tenantID, SiteID: siteID}
		if err := h.QueueClient.EnqueueSiteReprice(payload); err != nil {
			respondError(c, response.CodeInternal, "重定价任务入队失败", err)
			return
		}
		requestLog(c).Infow("site_reprice_enqueued", "tenant_id", tenantID, "site_id", siteID)
		response.SuccessWithMsg(c, "重定价任务已提交", gin.H{"site_id": siteID})
		return
	}

	summary, err := h.RepriceService.RepriceSite(c.Request.Context(), tenantID, siteID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRepriceBusy):
			respondError(c, response.CodeConflict, "该场地重定价任务进行中", nil)
		case errors.Is(err, service.ErrSiteNotFound):
			respondError(c, response.CodeNotFound, "场地不存在", nil)
		default:
			respondError(c, response.CodeInternal, "重定价执行失败", err)
		}
		return
	}
	requestLog(c).Infow("site_reprice_finished",
		"tenant_id", tenantID,
		"site_id", siteID,
		"total", summary.Total,
		"repriced", summary.Repriced,
		"failed", summary.Failed,
	)
	response.Success(c, summary)
}

// GetResolutionLogs 获取价格计算归档记录
func (h *Handler) GetResolutionLogs(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ResolutionLogListFilter{
		TenantID: tenantID,
		Source:   c.Query("source"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("site_id"); raw != "" {
		siteID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "场地参数无效", err)
			return
		}
		filter.SiteID = uint(siteID)
	}
	if raw := c.Query("box_id"); raw != "" {
		boxID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "仓位参数无效", err)
			return
		}
		filter.BoxID = uint(boxID)
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "时间参数无效", err)
			return
		}
		filter.Since = &since
	}

	logs, total, err := h.ResolutionLogRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取归档记录失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, logs, pagination)
}

// GetResolutionLog 获取单条归档记录（含完整审计轨迹）
func (h *Handler) GetResolutionLog(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "记录ID无效", err)
		return
	}

	log, err := h.ResolutionLogRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "获取归档记录失败", err)
		return
	}
	if log == nil || log.TenantID != tenantID {
		respondError(c, response.CodeNotFound, "归档记录不存在", nil)
		return
	}
	response.Success(c, log)
}

// GetPriceAdjustments 获取价格变更记录
func (h *Handler) GetPriceAdjustments(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PriceAdjustmentListFilter{
		TenantID:      tenantID,
		TriggerSource: c.Query("trigger_source"),
		Page:          page,
		PageSize:      pageSize,
	}
	if raw := c.Query("site_id"); raw != "" {
		siteID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "场地参数无效", err)
			return
		}
		filter.SiteID = uint(siteID)
	}
	if raw := c.Query("box_id"); raw != "" {
		boxID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "仓位参数无效", err)
			return
		}
		filter.BoxID = uint(boxID)
	}
	if ts := filter.TriggerSource; ts != "" &&
		ts != constants.AdjustmentTriggerRepricing && ts != constants.AdjustmentTriggerManual {
		respondError(c, response.CodeBadRequest, "触发来源无效", nil)
		return
	}

	adjustments, total, err := h.PriceAdjustmentRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取价格变更记录失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, adjustments, pagination)
}
