package models

import "time"

// PriceAdjustment 仓位价格变更记录表（批量重定价与人工改价共用）
type PriceAdjustment struct {
	ID            uint       `gorm:"primarykey" json:"id"`                          // 主键
	TenantID      uint       `gorm:"not null;index" json:"tenant_id"`               // 所属租户
	SiteID        uint       `gorm:"not null;index" json:"site_id"`                 // 所属场地
	BoxID         uint       `gorm:"not null;index" json:"box_id"`                  // 调价仓位
	ContractID    *uint      `gorm:"index" json:"contract_id"`                      // 关联合同
	ResolutionID  *uint      `gorm:"index" json:"resolution_id"`                    // 关联计算归档
	TriggerSource string     `gorm:"type:varchar(20);not null" json:"trigger_source"` // 触发来源（repricing/manual）
	OldPrice      Money      `gorm:"type:decimal(20,2);not null" json:"old_price"`  // 变更前价格
	NewPrice      Money      `gorm:"type:decimal(20,2);not null" json:"new_price"`  // 变更后价格
	Note          string     `gorm:"type:varchar(500)" json:"note"`                 // 备注
	AppliedAt     *time.Time `gorm:"index" json:"applied_at"`                       // 实际生效时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (PriceAdjustment) TableName() string {
	return "price_adjustments"
}
