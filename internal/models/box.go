package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Box 仓位表
type Box struct {
	ID           uint            `gorm:"primarykey" json:"id"`                                       // 主键
	TenantID     uint            `gorm:"not null;index" json:"tenant_id"`                            // 所属租户
	SiteID       uint            `gorm:"not null;index" json:"site_id"`                              // 所属场地
	Number       string          `gorm:"not null;index" json:"number"`                               // 仓位编号
	SizeCategory string          `gorm:"type:varchar(20);not null;index" json:"size_category"`       // 规格档位（small/medium/large/xl）
	AreaM2       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"area_m2"`       // 面积（平方米）
	BasePrice    Money           `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`    // 月租基准价
	CurrentPrice Money           `gorm:"type:decimal(20,2);not null;default:0" json:"current_price"` // 当前生效月租价
	Status       string          `gorm:"type:varchar(20);not null;index" json:"status"`              // 状态（available/reserved/occupied/maintenance）
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time       `json:"updated_at"`                                                 // 更新时间
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Box) TableName() string {
	return "boxes"
}
