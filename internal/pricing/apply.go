package pricing

import "github.com/shopspring/decimal"

// AdjustmentApplier 单条规则调价器。
// 计算顺序固定为：调价 → 规则自身上下限收敛 → 零价硬底线。
type AdjustmentApplier struct{}

var oneHundred = decimal.NewFromInt(100)

// Apply 对运行中价格应用一条规则，返回新价格与是否触发收敛
func (a AdjustmentApplier) Apply(running decimal.Decimal, rule Rule) (decimal.Decimal, bool) {
	var next decimal.Decimal
	switch rule.AdjustmentType {
	case AdjustmentPercentage:
		factor := decimal.NewFromInt(1).Add(rule.AdjustmentValue.Div(oneHundred))
		next = running.Mul(factor)
	case AdjustmentFixedAmount:
		next = running.Add(rule.AdjustmentValue)
	default:
		return running, false
	}

	clamped := false
	if rule.MinPrice != nil && next.Cmp(*rule.MinPrice) < 0 {
		next = *rule.MinPrice
		clamped = true
	}
	if rule.MaxPrice != nil && next.Cmp(*rule.MaxPrice) > 0 {
		next = *rule.MaxPrice
		clamped = true
	}

	// 配置再离谱也不允许负价
	if next.IsNegative() {
		next = decimal.Zero
		clamped = true
	}
	return next, clamped
}
