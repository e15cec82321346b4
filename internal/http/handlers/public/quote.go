package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	handlershared "github.com/haythemsaa/boxnew-sub008/internal/http/handlers/shared"
	"github.com/haythemsaa/boxnew-sub008/internal/http/response"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
	"github.com/haythemsaa/boxnew-sub008/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// GetBoxQuote 获取仓位月租报价
func (h *Handler) GetBoxQuote(c *gin.Context) {
	boxID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "仓位ID无效", err)
		return
	}
	durationMonths, _ := strconv.Atoi(c.DefaultQuery("duration_months", "1"))
	segment := strings.TrimSpace(c.Query("customer_segment"))
	source := strings.TrimSpace(c.DefaultQuery("source", constants.ResolutionSourceBooking))
	switch source {
	case constants.ResolutionSourceBooking, constants.ResolutionSourceRenewal, constants.ResolutionSourceInvoice:
	default:
		respondError(c, response.CodeBadRequest, "报价来源无效", nil)
		return
	}

	result, err := h.QuoteService.Quote(c.Request.Context(), service.QuoteInput{
		BoxID:           uint(boxID),
		DurationMonths:  durationMonths,
		CustomerSegment: segment,
		Source:          source,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoxNotFound):
			respondError(c, response.CodeNotFound, "仓位不存在", nil)
		case errors.Is(err, service.ErrBoxUnavailable):
			respondError(c, response.CodeConflict, "仓位当前不可租", nil)
		case errors.Is(err, service.ErrQuoteInvalid):
			respondError(c, response.CodeBadRequest, "报价请求参数无效", nil)
		default:
			respondError(c, response.CodeInternal, "报价计算失败", err)
		}
		return
	}
	response.Success(c, result)
}

// GetSites 获取启用场地列表（前台展示用）
func (h *Handler) GetSites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 64)
	if err != nil || tenantID == 0 {
		respondError(c, response.CodeBadRequest, "租户参数无效", err)
		return
	}

	active := true
	sites, total, listErr := h.SiteRepo.List(repository.SiteListFilter{
		TenantID: uint(tenantID),
		City:     c.Query("city"),
		IsActive: &active,
		Page:     page,
		PageSize: pageSize,
	})
	if listErr != nil {
		respondError(c, response.CodeInternal, "获取场地列表失败", listErr)
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
