package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

// PricingStrategy 定价策略表（子句式批量折扣方案）
type PricingStrategy struct {
	ID                 uint               `gorm:"primarykey" json:"id"`                                          // 主键
	TenantID           uint               `gorm:"not null;index" json:"tenant_id"`                               // 所属租户
	SiteID             *uint              `gorm:"index" json:"site_id"`                                          // 所属场地（空表示租户级策略）
	Name               string             `gorm:"not null" json:"name"`                                          // 策略名称
	StrategyType       string             `gorm:"type:varchar(30);not null;index" json:"strategy_type"`          // 策略类型
	Priority           int                `gorm:"not null;default:0;index" json:"priority"`                      // 优先级（越大越先应用）
	IsActive           bool               `gorm:"not null;default:true;index" json:"is_active"`                  // 是否启用
	Clauses            pricing.ClauseList `gorm:"type:json" json:"clauses"`                                      // 折扣子句集合
	MinDiscountPercent decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0" json:"min_discount_percent"` // 累计折扣下限
	MaxDiscountPercent decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0" json:"max_discount_percent"` // 累计折扣上限
	StartsAt           *time.Time         `gorm:"index" json:"starts_at"`                                        // 生效时间
	EndsAt             *time.Time         `gorm:"index" json:"ends_at"`                                          // 失效时间
	CreatedAt          time.Time          `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt          time.Time          `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (PricingStrategy) TableName() string {
	return "pricing_strategies"
}

// ToStrategy 转换为引擎侧策略快照
func (s PricingStrategy) ToStrategy() pricing.Strategy {
	return pricing.Strategy{
		ID:                 s.ID,
		TenantID:           s.TenantID,
		SiteID:             s.SiteID,
		StrategyType:       s.StrategyType,
		Priority:           s.Priority,
		IsActive:           s.IsActive,
		Clauses:            s.Clauses,
		MinDiscountPercent: s.MinDiscountPercent,
		MaxDiscountPercent: s.MaxDiscountPercent,
		StartsAt:           s.StartsAt,
		EndsAt:             s.EndsAt,
	}
}
