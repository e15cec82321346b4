package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/cache"
	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

// QuoteService 报价服务。
// 对外提供仓位月租报价与管理端试算，计算本身委托给纯函数引擎。
type QuoteService struct {
	cfg         *config.Config
	engine      *pricing.Engine
	contextSvc  *ContextService
	boxRepo     repository.BoxRepository
	catalogRepo repository.CatalogRepository
	logRepo     repository.ResolutionLogRepository
}

// NewQuoteService 创建报价服务
func NewQuoteService(
	cfg *config.Config,
	engine *pricing.Engine,
	contextSvc *ContextService,
	boxRepo repository.BoxRepository,
	catalogRepo repository.CatalogRepository,
	logRepo repository.ResolutionLogRepository,
) *QuoteService {
	return &QuoteService{
		cfg:         cfg,
		engine:      engine,
		contextSvc:  contextSvc,
		boxRepo:     boxRepo,
		catalogRepo: catalogRepo,
		logRepo:     logRepo,
	}
}

// QuoteInput 报价请求输入
type QuoteInput struct {
	BoxID           uint
	DurationMonths  int
	CustomerSegment string
	Source          string // booking / renewal / invoice
}

// QuoteResult 报价结果
type QuoteResult struct {
	BoxID       uint                `json:"box_id"`
	SiteID      uint                `json:"site_id"`
	BasePrice   models.Money        `json:"base_price"`
	FinalPrice  models.Money        `json:"final_price"`
	Resolution  *pricing.Resolution `json:"resolution"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
}

// Quote 计算仓位月租报价。
// 同一仓位同参数的报价在短窗口内走缓存，避免高频查询反复拉取目录。
func (s *QuoteService) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.BoxID == 0 {
		return nil, ErrQuoteInvalid
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = constants.ResolutionSourceBooking
	}

	box, err := s.boxRepo.GetByID(input.BoxID)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, ErrBoxNotFound
	}
	if source == constants.ResolutionSourceBooking && box.Status == constants.BoxStatusMaintenance {
		return nil, ErrBoxUnavailable
	}

	cacheKey := s.quoteCacheKey(box.ID, input.DurationMonths, input.CustomerSegment)
	ttl := time.Duration(s.cfg.Pricing.QuoteCacheTTLSeconds) * time.Second
	if ttl > 0 {
		var cached QuoteResult
		hit, err := cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warnw("quote_cache_read_failed", "key", cacheKey, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	result, resolution, err := s.compute(box, input)
	if err != nil {
		return nil, err
	}

	if ttl > 0 {
		if err := cache.SetJSON(ctx, cacheKey, result, ttl); err != nil {
			logger.Warnw("quote_cache_write_failed", "key", cacheKey, "error", err)
		}
	}
	if s.cfg.Pricing.ArchiveQuotes {
		s.archive(box, source, result, resolution)
	}
	return result, nil
}

// Preview 管理端试算：返回完整计算结果与逐条规则的匹配诊断
func (s *QuoteService) Preview(input QuoteInput) (*QuoteResult, []pricing.CandidatePreview, error) {
	if input.BoxID == 0 {
		return nil, nil, ErrQuoteInvalid
	}
	box, err := s.boxRepo.GetByID(input.BoxID)
	if err != nil {
		return nil, nil, err
	}
	if box == nil {
		return nil, nil, ErrBoxNotFound
	}

	pricingCtx, err := s.contextSvc.Assemble(AssembleInput{
		Box:             box,
		DurationMonths:  input.DurationMonths,
		CustomerSegment: input.CustomerSegment,
	})
	if err != nil {
		return nil, nil, err
	}
	catalog, err := s.catalogRepo.FetchActive(box.TenantID, box.SiteID, pricingCtx.EvaluatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	resolution, err := s.engine.ComputePrice(catalog, pricingCtx)
	if err != nil {
		return nil, nil, err
	}
	previews, err := s.engine.PreviewCandidates(catalog, pricingCtx)
	if err != nil {
		return nil, nil, err
	}

	result := &QuoteResult{
		BoxID:       box.ID,
		SiteID:      box.SiteID,
		BasePrice:   models.NewMoneyFromDecimal(resolution.BasePrice),
		FinalPrice:  models.NewMoneyFromDecimal(resolution.FinalPrice),
		Resolution:  resolution,
		EvaluatedAt: pricingCtx.EvaluatedAt,
	}
	return result, previews, nil
}

func (s *QuoteService) compute(box *models.Box, input QuoteInput) (*QuoteResult, *pricing.Resolution, error) {
	pricingCtx, err := s.contextSvc.Assemble(AssembleInput{
		Box:             box,
		DurationMonths:  input.DurationMonths,
		CustomerSegment: input.CustomerSegment,
	})
	if err != nil {
		return nil, nil, err
	}

	catalog, err := s.catalogRepo.FetchActive(box.TenantID, box.SiteID, pricingCtx.EvaluatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	resolution, err := s.engine.ComputePrice(catalog, pricingCtx)
	if err != nil {
		return nil, nil, err
	}

	result := &QuoteResult{
		BoxID:       box.ID,
		SiteID:      box.SiteID,
		BasePrice:   models.NewMoneyFromDecimal(resolution.BasePrice),
		FinalPrice:  models.NewMoneyFromDecimal(resolution.FinalPrice),
		Resolution:  resolution,
		EvaluatedAt: pricingCtx.EvaluatedAt,
	}
	return result, resolution, nil
}

// archive 报价归档失败不影响报价返回，仅记日志
func (s *QuoteService) archive(box *models.Box, source string, result *QuoteResult, resolution *pricing.Resolution) {
	record := &models.PriceResolutionLog{
		TenantID:             box.TenantID,
		SiteID:               box.SiteID,
		BoxID:                box.ID,
		Source:               source,
		BasePrice:            result.BasePrice,
		FinalPrice:           result.FinalPrice,
		TotalDiscountPercent: resolution.TotalDiscountPercent,
		Trail:                models.ResolutionTrail{Resolution: *resolution},
		EvaluatedAt:          result.EvaluatedAt,
	}
	if err := s.logRepo.Create(record); err != nil {
		logger.Warnw("quote_archive_failed", "box_id", box.ID, "error", err)
	}
}

func (s *QuoteService) quoteCacheKey(boxID uint, duration int, segment string) string {
	if duration < 1 {
		duration = 1
	}
	segment = strings.TrimSpace(segment)
	if segment == "" {
		segment = "any"
	}
	return fmt.Sprintf("quote:box:%d:m%d:%s", boxID, duration, segment)
}
