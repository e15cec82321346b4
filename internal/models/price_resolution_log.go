package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
)

// ResolutionTrail 审计轨迹数据库列类型（JSON 文本存储）
type ResolutionTrail struct {
	pricing.Resolution
}

// Value 实现 driver.Valuer 接口
func (t ResolutionTrail) Value() (driver.Value, error) {
	payload, err := json.Marshal(t.Resolution)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 实现 sql.Scanner 接口
func (t *ResolutionTrail) Scan(value interface{}) error {
	if value == nil {
		t.Resolution = pricing.Resolution{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("无法解析审计轨迹列类型: %T", value)
	}
	if len(raw) == 0 {
		t.Resolution = pricing.Resolution{}
		return nil
	}
	return json.Unmarshal(raw, &t.Resolution)
}

// PriceResolutionLog 价格计算归档表（每次计算一条，含完整审计轨迹）
type PriceResolutionLog struct {
	ID                   uint            `gorm:"primarykey" json:"id"`                                       // 主键
	TenantID             uint            `gorm:"not null;index" json:"tenant_id"`                            // 所属租户
	SiteID               uint            `gorm:"not null;index" json:"site_id"`                              // 所属场地
	BoxID                uint            `gorm:"not null;index" json:"box_id"`                               // 计价仓位
	ContractID           *uint           `gorm:"index" json:"contract_id"`                                   // 关联合同（报价场景为空）
	Source               string          `gorm:"type:varchar(20);not null;index" json:"source"`              // 触发来源（booking/renewal/invoice/repricing）
	BasePrice            Money           `gorm:"type:decimal(20,2);not null" json:"base_price"`              // 计算前基准价
	FinalPrice           Money           `gorm:"type:decimal(20,2);not null" json:"final_price"`             // 计算后最终价
	TotalDiscountPercent decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_discount_percent"`  // 总折扣百分比
	Trail                ResolutionTrail `gorm:"type:json" json:"trail"`                                     // 完整审计轨迹
	EvaluatedAt          time.Time       `gorm:"not null;index" json:"evaluated_at"`                         // 计算时点
	CreatedAt            time.Time       `gorm:"index" json:"created_at"`                                    // 创建时间
}

// TableName 指定表名
func (PriceResolutionLog) TableName() string {
	return "price_resolution_logs"
}
