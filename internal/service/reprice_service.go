package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/cache"
	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

// RepriceService 批量重定价服务。
// 对场地内全部生效合同重新计算仓位月租价，写入归档与调价记录。
type RepriceService struct {
	cfg          *config.Config
	db           *gorm.DB
	engine       *pricing.Engine
	siteRepo     repository.SiteRepository
	boxRepo      repository.BoxRepository
	contractRepo repository.ContractRepository
	catalogRepo  repository.CatalogRepository
}

// NewRepriceService 创建批量重定价服务
func NewRepriceService(
	cfg *config.Config,
	db *gorm.DB,
	engine *pricing.Engine,
	siteRepo repository.SiteRepository,
	boxRepo repository.BoxRepository,
	contractRepo repository.ContractRepository,
	catalogRepo repository.CatalogRepository,
) *RepriceService {
	return &RepriceService{
		cfg:          cfg,
		db:           db,
		engine:       engine,
		siteRepo:     siteRepo,
		boxRepo:      boxRepo,
		contractRepo: contractRepo,
		catalogRepo:  catalogRepo,
	}
}

// RepriceSummary 单场地重定价结果汇总
type RepriceSummary struct {
	SiteID    uint `json:"site_id"`
	Total     int  `json:"total"`     // 参与计算的合同数
	Repriced  int  `json:"repriced"`  // 价格发生变化的仓位数
	Unchanged int  `json:"unchanged"` // 价格未变化的仓位数
	Failed    int  `json:"failed"`    // 计算或落库失败数
	Canceled  bool `json:"canceled"`  // 是否被中途取消
}

// RepriceSite 对单个场地执行批量重定价。
// 同一场地同一时刻只允许一个任务执行；ctx 取消后停止派发剩余合同，
// 已完成的写入保持不变（整批不回滚，每个仓位一个事务）。
func (s *RepriceService) RepriceSite(ctx context.Context, tenantID, siteID uint) (*RepriceSummary, error) {
	site, err := s.siteRepo.GetByID(siteID)
	if err != nil {
		return nil, err
	}
	if site == nil || site.TenantID != tenantID {
		return nil, ErrSiteNotFound
	}

	if !s.acquireLock(ctx, siteID) {
		return nil, ErrRepriceBusy
	}
	defer s.releaseLock(siteID)

	// 整批共用同一评估时点，保证批内计算可复现
	evaluatedAt := time.Now()

	contracts, err := s.contractRepo.ListActiveBySite(siteID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogRepo.FetchActive(tenantID, siteID, evaluatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	occupancy, err := s.boxRepo.CountOccupancy(siteID)
	if err != nil {
		return nil, err
	}
	occupancyRate := decimal.Zero
	if occupancy.Total > 0 {
		occupancyRate = decimal.NewFromInt(occupancy.Occupied).
			Div(decimal.NewFromInt(occupancy.Total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	summary := &RepriceSummary{SiteID: siteID, Total: len(contracts)}

	poolSize := s.cfg.Repricing.WorkerPoolSize
	if poolSize < 1 {
		poolSize = 1
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan models.Contract)

	for i := 0; i < poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for contract := range jobs {
				err := s.repriceContract(catalog, contract, occupancyRate, evaluatedAt, &mu, summary)
				if err != nil {
					logger.Warnw("reprice_contract_failed",
						"site_id", siteID,
						"contract_id", contract.ID,
						"error", err,
					)
					mu.Lock()
					summary.Failed++
					mu.Unlock()
				}
			}
		}()
	}

dispatch:
	for _, contract := range contracts {
		if ctx.Err() != nil {
			summary.Canceled = true
			break
		}
		select {
		case <-ctx.Done():
			summary.Canceled = true
			break dispatch
		case jobs <- contract:
		}
	}
	close(jobs)
	wg.Wait()

	logger.Infow("site_reprice_finished",
		"site_id", siteID,
		"total", summary.Total,
		"repriced", summary.Repriced,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"canceled", summary.Canceled,
	)
	return summary, nil
}

func (s *RepriceService) repriceContract(
	catalog pricing.Catalog,
	contract models.Contract,
	occupancyRate decimal.Decimal,
	evaluatedAt time.Time,
	mu *sync.Mutex,
	summary *RepriceSummary,
) error {
	box := contract.Box
	if box.ID == 0 {
		return ErrBoxNotFound
	}

	pricingCtx := pricing.Context{
		TenantID:        contract.TenantID,
		SiteID:          contract.SiteID,
		BasePrice:       box.BasePrice.Decimal,
		OccupancyRate:   occupancyRate,
		BoxSizeCategory: box.SizeCategory,
		DurationMonths:  contract.DurationMonths,
		EvaluatedAt:     evaluatedAt,
		CustomerSegment: contract.CustomerSegment,
	}

	resolution, err := s.engine.ComputePrice(catalog, pricingCtx)
	if err != nil {
		return err
	}

	newPrice := models.NewMoneyFromDecimal(resolution.FinalPrice)
	if newPrice.Decimal.Equal(box.CurrentPrice.Decimal) {
		mu.Lock()
		summary.Unchanged++
		mu.Unlock()
		return nil
	}

	contractID := contract.ID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		record := &models.PriceResolutionLog{
			TenantID:             contract.TenantID,
			SiteID:               contract.SiteID,
			BoxID:                box.ID,
			ContractID:           &contractID,
			Source:               constants.ResolutionSourceRepricing,
			BasePrice:            box.BasePrice,
			FinalPrice:           newPrice,
			TotalDiscountPercent: resolution.TotalDiscountPercent,
			Trail:                models.ResolutionTrail{Resolution: *resolution},
			EvaluatedAt:          evaluatedAt,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		appliedAt := time.Now()
		adjustment := &models.PriceAdjustment{
			TenantID:      contract.TenantID,
			SiteID:        contract.SiteID,
			BoxID:         box.ID,
			ContractID:    &contractID,
			ResolutionID:  &record.ID,
			TriggerSource: constants.AdjustmentTriggerRepricing,
			OldPrice:      box.CurrentPrice,
			NewPrice:      newPrice,
			AppliedAt:     &appliedAt,
		}
		if err := tx.Create(adjustment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Box{}).Where("id = ?", box.ID).
			Update("current_price", newPrice).Error
	})
	if err != nil {
		return err
	}

	mu.Lock()
	summary.Repriced++
	mu.Unlock()
	return nil
}

// acquireLock 基于 Redis 的场地级互斥；缓存未启用时不做互斥
func (s *RepriceService) acquireLock(ctx context.Context, siteID uint) bool {
	client := cache.Client()
	if client == nil {
		return true
	}
	ok, err := client.SetNX(ctx, repriceLockKey(siteID), 1, 30*time.Minute).Result()
	if err != nil {
		logger.Warnw("reprice_lock_acquire_failed", "site_id", siteID, "error", err)
		return true
	}
	return ok
}

func (s *RepriceService) releaseLock(siteID uint) {
	client := cache.Client()
	if client == nil {
		return
	}
	if err := client.Del(context.Background(), repriceLockKey(siteID)).Err(); err != nil {
		logger.Warnw("reprice_lock_release_failed", "site_id", siteID, "error", err)
	}
}

func repriceLockKey(siteID uint) string {
	return fmt.Sprintf("bx:reprice:site:%d", siteID)
}
