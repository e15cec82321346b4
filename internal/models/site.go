package models

import (
	"time"

	"gorm.io/gorm"
)

// Site 仓储场地表
type Site struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`        // 所属租户
	Name      string         `gorm:"not null" json:"name"`                   // 场地名称
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`       // 场地编码
	Address   string         `gorm:"type:varchar(500)" json:"address"`       // 地址
	City      string         `gorm:"type:varchar(100);index" json:"city"`    // 城市
	Amenities StringArray    `gorm:"type:json" json:"amenities"`             // 设施列表
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	// 关联
	Boxes []Box `gorm:"foreignKey:SiteID" json:"boxes,omitempty"` // 场地下的仓位
}

// TableName 指定表名
func (Site) TableName() string {
	return "sites"
}
