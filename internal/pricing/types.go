package pricing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 调价方式
const (
	AdjustmentPercentage  = "percentage"
	AdjustmentFixedAmount = "fixed_amount"
)

// Rule 引擎侧定价规则快照。
// 由仓库层从存储记录转换而来，引擎只读不改。
type Rule struct {
	ID              uint             `json:"id"`
	TenantID        uint             `json:"tenant_id"`
	SiteID          *uint            `json:"site_id,omitempty"` // 为空表示租户级规则
	Type            string           `json:"type"`
	Priority        int              `json:"priority"`
	IsActive        bool             `json:"is_active"`
	Condition       Condition        `json:"condition"`
	AdjustmentType  string           `json:"adjustment_type"`  // percentage / fixed_amount
	AdjustmentValue decimal.Decimal  `json:"adjustment_value"` // 负数为折扣，正数为涨价
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	ValidFrom       *time.Time       `json:"valid_from,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
	Stackable       bool             `json:"stackable"`
}

// StrategyClause 策略内的规则式子句
type StrategyClause struct {
	Priority        int             `json:"priority"`
	Condition       Condition       `json:"condition"`
	DiscountPercent decimal.Decimal `json:"discount_percent"` // 正数为折扣百分比
}

// ClauseList 策略子句集合（按 JSON 文本落库）
type ClauseList []StrategyClause

// Value 用于数据库写入
func (l ClauseList) Value() (driver.Value, error) {
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 用于数据库读取
func (l *ClauseList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("无法解析策略子句列类型: %T", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Strategy 引擎侧定价策略快照
type Strategy struct {
	ID                 uint            `json:"id"`
	TenantID           uint            `json:"tenant_id"`
	SiteID             *uint           `json:"site_id,omitempty"`
	StrategyType       string          `json:"strategy_type"`
	Priority           int             `json:"priority"`
	IsActive           bool            `json:"is_active"`
	Clauses            ClauseList      `json:"clauses"`
	MinDiscountPercent decimal.Decimal `json:"min_discount_percent"` // 策略累计折扣下限
	MaxDiscountPercent decimal.Decimal `json:"max_discount_percent"` // 策略累计折扣上限
	StartsAt           *time.Time      `json:"starts_at,omitempty"`
	EndsAt             *time.Time      `json:"ends_at,omitempty"`
}

// Catalog 一次计算所用的规则目录快照
type Catalog struct {
	Rules      []Rule     `json:"rules"`
	Strategies []Strategy `json:"strategies"`
}

// Context 价格计算上下文（调用方提供的只读快照）
type Context struct {
	TenantID        uint            `json:"tenant_id"`
	SiteID          uint            `json:"site_id"`
	BasePrice       decimal.Decimal `json:"base_price"`
	OccupancyRate   decimal.Decimal `json:"occupancy_rate"` // 0-100
	BoxSizeCategory string          `json:"box_size_category"`
	DurationMonths  int             `json:"duration_months"`
	EvaluatedAt     time.Time       `json:"evaluated_at"`
	CustomerSegment string          `json:"customer_segment,omitempty"`
}

// AppliedAdjustment 审计轨迹中的一步调价记录
type AppliedAdjustment struct {
	RuleID          uint            `json:"rule_id"`
	RuleType        string          `json:"rule_type"`
	AdjustmentType  string          `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	Delta           decimal.Decimal `json:"delta"`
	ResultingPrice  decimal.Decimal `json:"resulting_price"`
	Clamped         bool            `json:"clamped"`
}

// SkippedRule 匹配成功但未应用的规则记录
type SkippedRule struct {
	RuleID uint   `json:"rule_id"`
	Reason string `json:"reason"`
}

// Diagnostic 单条非致命评估问题
type Diagnostic struct {
	Kind       string `json:"kind"`
	RuleID     uint   `json:"rule_id,omitempty"`
	StrategyID uint   `json:"strategy_id,omitempty"`
	Message    string `json:"message"`
}

// StrategyOutcome 策略阶段的汇总结果
type StrategyOutcome struct {
	StrategyID             uint            `json:"strategy_id"`
	StrategyType           string          `json:"strategy_type"`
	FiredClauses           int             `json:"fired_clauses"`
	RawDiscountPercent     decimal.Decimal `json:"raw_discount_percent"`
	AppliedDiscountPercent decimal.Decimal `json:"applied_discount_percent"`
	Clamped                bool            `json:"clamped"`
}

// Resolution 一次价格计算的完整结果与审计轨迹
type Resolution struct {
	BasePrice            decimal.Decimal     `json:"base_price"`
	Adjustments          []AppliedAdjustment `json:"adjustments"`
	Skipped              []SkippedRule       `json:"skipped,omitempty"`
	Strategy             *StrategyOutcome    `json:"strategy,omitempty"`
	Diagnostics          []Diagnostic        `json:"diagnostics,omitempty"`
	FinalPrice           decimal.Decimal     `json:"final_price"`
	TotalDiscountPercent decimal.Decimal     `json:"total_discount_percent"`
}

// CandidatePreview 规则试算结果（管理端诊断用）
type CandidatePreview struct {
	Rule    Rule   `json:"rule"`
	Matched bool   `json:"matched"`
	Reason  string `json:"reason,omitempty"`
}
