package pricing

import "errors"

// 引擎错误。仅上下文级问题会作为 error 返回给调用方，
// 单条规则的评估失败一律降级为 Resolution 内的诊断记录。
var (
	ErrInvalidContext          = errors.New("定价上下文无效")
	ErrUnknownConditionField   = errors.New("条件字段不支持")
	ErrInvalidConditionValue   = errors.New("条件比较值类型不匹配")
	ErrMalformedValidityWindow = errors.New("生效窗口起止颠倒")
)

// 诊断类别（机器可读，写入审计轨迹）
const (
	DiagUnknownField     = "unknown_condition_field"
	DiagInvalidValue     = "invalid_condition_value"
	DiagMalformedWindow  = "malformed_validity_window"
	DiagMalformedClamp   = "malformed_discount_window"
	DiagConditionFailure = "condition_evaluation_failed"
)

// 跳过原因（审计轨迹 skipped 列表使用）
const (
	SkipReasonBlockedByNonStackable = "blocked_by_non_stackable_rule"
)
