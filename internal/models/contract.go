package models

import (
	"time"

	"gorm.io/gorm"
)

// Contract 租赁合同表
type Contract struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                    // 主键
	TenantID        uint           `gorm:"not null;index" json:"tenant_id"`                         // 所属租户
	SiteID          uint           `gorm:"not null;index" json:"site_id"`                           // 所属场地
	BoxID           uint           `gorm:"not null;index" json:"box_id"`                            // 租用仓位
	CustomerName    string         `gorm:"not null" json:"customer_name"`                           // 客户名称
	CustomerSegment string         `gorm:"type:varchar(20);index" json:"customer_segment"`          // 客户分层（new/returning/vip/business）
	MonthlyPrice    Money          `gorm:"type:decimal(20,2);not null" json:"monthly_price"`        // 当前月租价
	DurationMonths  int            `gorm:"not null;default:1" json:"duration_months"`               // 租期月数
	StartDate       time.Time      `gorm:"not null;index" json:"start_date"`                        // 起租日期
	EndDate         *time.Time     `gorm:"index" json:"end_date"`                                   // 到期日期（空表示不定期）
	Status          string         `gorm:"type:varchar(20);not null;index" json:"status"`           // 状态（active/expired/terminated）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Box Box `gorm:"foreignKey:BoxID" json:"box,omitempty"` // 仓位信息
}

// TableName 指定表名
func (Contract) TableName() string {
	return "contracts"
}
