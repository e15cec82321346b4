package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
)

// ContextService 定价上下文装配服务。
// 把仓位、场地占用率等存储侧事实汇成引擎所需的只读快照。
type ContextService struct {
	boxRepo repository.BoxRepository
}

// NewContextService 创建定价上下文装配服务
func NewContextService(boxRepo repository.BoxRepository) *ContextService {
	return &ContextService{boxRepo: boxRepo}
}

// AssembleInput 上下文装配输入
type AssembleInput struct {
	Box             *models.Box
	DurationMonths  int
	CustomerSegment string
	EvaluatedAt     time.Time
}

// Assemble 装配定价上下文。
// 占用率按场地内（占用+预订）/总数计算，空场地记 0。
func (s *ContextService) Assemble(input AssembleInput) (pricing.Context, error) {
	if input.Box == nil {
		return pricing.Context{}, ErrBoxNotFound
	}

	count, err := s.boxRepo.CountOccupancy(input.Box.SiteID)
	if err != nil {
		return pricing.Context{}, err
	}
	occupancy := decimal.Zero
	if count.Total > 0 {
		occupancy = decimal.NewFromInt(count.Occupied).
			Div(decimal.NewFromInt(count.Total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	duration := input.DurationMonths
	if duration < 1 {
		duration = 1
	}
	evaluatedAt := input.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}

	return pricing.Context{
		TenantID:        input.Box.TenantID,
		SiteID:          input.Box.SiteID,
		BasePrice:       input.Box.BasePrice.Decimal,
		OccupancyRate:   occupancy,
		BoxSizeCategory: input.Box.SizeCategory,
		DurationMonths:  duration,
		EvaluatedAt:     evaluatedAt,
		CustomerSegment: input.CustomerSegment,
	}, nil
}
