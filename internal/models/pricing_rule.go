package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

// RuleCondition 条件树数据库列类型（JSON 文本存储）
type RuleCondition struct {
	pricing.Condition
}

// Value 实现 driver.Valuer 接口
func (c RuleCondition) Value() (driver.Value, error) {
	return c.Condition.EncodeString()
}

// Scan 实现 sql.Scanner 接口
func (c *RuleCondition) Scan(value interface{}) error {
	return c.Condition.Scan(value)
}

// PricingRule 动态定价规则表
type PricingRule struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                        // 主键
	TenantID        uint            `gorm:"not null;index" json:"tenant_id"`                             // 所属租户
	SiteID          *uint           `gorm:"index" json:"site_id"`                                        // 所属场地（空表示租户级规则）
	Name            string          `gorm:"not null" json:"name"`                                        // 规则名称
	Type            string          `gorm:"type:varchar(30);not null;index" json:"type"`                 // 规则类型（occupation_based/seasonal/...）
	Priority        int             `gorm:"not null;default:0;index" json:"priority"`                    // 优先级（越大越先应用）
	IsActive        bool            `gorm:"not null;default:true;index" json:"is_active"`                // 是否启用
	Condition       RuleCondition   `gorm:"type:json" json:"condition"`                                  // 匹配条件树
	AdjustmentType  string          `gorm:"type:varchar(20);not null" json:"adjustment_type"`            // 调价方式（percentage/fixed_amount）
	AdjustmentValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"adjustment_value"`         // 调价幅度（负数为折扣）
	MinPrice        *Money          `gorm:"type:decimal(20,2)" json:"min_price"`                         // 调价后最低价（空表示不限制）
	MaxPrice        *Money          `gorm:"type:decimal(20,2)" json:"max_price"`                         // 调价后最高价（空表示不限制）
	ValidFrom       *time.Time      `gorm:"index" json:"valid_from"`                                     // 生效时间
	ValidUntil      *time.Time      `gorm:"index" json:"valid_until"`                                    // 失效时间
	Stackable       bool            `gorm:"not null;default:true" json:"stackable"`                      // 是否可与后续规则叠加
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// ToRule 转换为引擎侧规则快照
func (r PricingRule) ToRule() pricing.Rule {
	rule := pricing.Rule{
		ID:              r.ID,
		TenantID:        r.TenantID,
		SiteID:          r.SiteID,
		Type:            r.Type,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		Condition:       r.Condition.Condition,
		AdjustmentType:  r.AdjustmentType,
		AdjustmentValue: r.AdjustmentValue,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		Stackable:       r.Stackable,
	}
	if r.MinPrice != nil {
		min := r.MinPrice.Decimal
		rule.MinPrice = &min
	}
	if r.MaxPrice != nil {
		max := r.MaxPrice.Decimal
		rule.MaxPrice = &max
	}
	return rule
}
