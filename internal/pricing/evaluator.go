package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConditionEvaluator 条件树求值器。
// 对单条规则的求值失败只返回 error，不中断整次计算；
// 由 RuleSelector 把失败降级为"规则不匹配 + 诊断记录"。
type ConditionEvaluator struct{}

// Matches 判断条件树在给定上下文下是否成立
func (e ConditionEvaluator) Matches(cond Condition, ctx Context) (bool, error) {
	if cond.IsEmpty() {
		return true, nil
	}
	if cond.IsComposite() {
		return e.matchComposite(cond, ctx)
	}
	return e.matchLeaf(cond, ctx)
}

func (e ConditionEvaluator) matchComposite(cond Condition, ctx Context) (bool, error) {
	switch cond.Logic {
	case LogicAnd:
		for _, child := range cond.Children {
			ok, err := e.Matches(child, ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case LogicOr:
		for _, child := range cond.Children {
			ok, err := e.Matches(child, ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case LogicNot:
		if len(cond.Children) != 1 {
			return false, fmt.Errorf("%w: not 节点需要恰好一个子条件", ErrInvalidConditionValue)
		}
		ok, err := e.Matches(cond.Children[0], ctx)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, fmt.Errorf("%w: 逻辑算子 %s", ErrInvalidConditionValue, cond.Logic)
	}
}

func (e ConditionEvaluator) matchLeaf(cond Condition, ctx Context) (bool, error) {
	num, text, isNumeric, err := resolveField(cond.Field, ctx)
	if err != nil {
		return false, err
	}
	if isNumeric {
		return compareNumeric(cond, num)
	}
	return compareText(cond, text)
}

// resolveField 把上下文字段解析为数值或文本
func resolveField(field string, ctx Context) (decimal.Decimal, string, bool, error) {
	switch field {
	case FieldOccupancyRate:
		return ctx.OccupancyRate, "", true, nil
	case FieldDurationMonths:
		return decimal.NewFromInt(int64(ctx.DurationMonths)), "", true, nil
	case FieldCalendarMonth:
		return decimal.NewFromInt(int64(ctx.EvaluatedAt.Month())), "", true, nil
	case FieldSiteID:
		return decimal.NewFromInt(int64(ctx.SiteID)), "", true, nil
	case FieldBoxSizeCategory:
		return decimal.Decimal{}, ctx.BoxSizeCategory, false, nil
	case FieldCustomerSegment:
		return decimal.Decimal{}, ctx.CustomerSegment, false, nil
	default:
		return decimal.Decimal{}, "", false, fmt.Errorf("%w: %s", ErrUnknownConditionField, field)
	}
}

func compareNumeric(cond Condition, actual decimal.Decimal) (bool, error) {
	switch cond.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte:
		expected, err := numericScalar(cond)
		if err != nil {
			return false, err
		}
		cmp := actual.Cmp(expected)
		switch cond.Operator {
		case OpEq:
			return cmp == 0, nil
		case OpNeq:
			return cmp != 0, nil
		case OpGt:
			return cmp > 0, nil
		case OpGte:
			return cmp >= 0, nil
		case OpLt:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case OpBetween:
		if cond.Value.Low == nil || cond.Value.High == nil {
			return false, fmt.Errorf("%w: between 缺少上下界", ErrInvalidConditionValue)
		}
		return actual.Cmp(*cond.Value.Low) >= 0 && actual.Cmp(*cond.Value.High) <= 0, nil
	case OpIn:
		if len(cond.Value.Set) == 0 {
			return false, fmt.Errorf("%w: in 集合为空", ErrInvalidConditionValue)
		}
		for _, item := range cond.Value.Set {
			expected, err := decimal.NewFromString(item)
			if err != nil {
				return false, fmt.Errorf("%w: 集合元素 %q 不是数值", ErrInvalidConditionValue, item)
			}
			if actual.Cmp(expected) == 0 {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: 比较算子 %s", ErrInvalidConditionValue, cond.Operator)
	}
}

func compareText(cond Condition, actual string) (bool, error) {
	switch cond.Operator {
	case OpEq, OpNeq:
		if cond.Value.Text == nil {
			return false, fmt.Errorf("%w: 字段 %s 需要文本比较值", ErrInvalidConditionValue, cond.Field)
		}
		equal := actual == *cond.Value.Text
		if cond.Operator == OpNeq {
			return !equal, nil
		}
		return equal, nil
	case OpIn:
		if len(cond.Value.Set) == 0 {
			return false, fmt.Errorf("%w: in 集合为空", ErrInvalidConditionValue)
		}
		for _, item := range cond.Value.Set {
			if actual == item {
				return true, nil
			}
		}
		return false, nil
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		return false, fmt.Errorf("%w: 字段 %s 不支持数值比较", ErrInvalidConditionValue, cond.Field)
	default:
		return false, fmt.Errorf("%w: 比较算子 %s", ErrInvalidConditionValue, cond.Operator)
	}
}

func numericScalar(cond Condition) (decimal.Decimal, error) {
	if cond.Value.Number != nil {
		return *cond.Value.Number, nil
	}
	if cond.Value.Text != nil {
		d, err := decimal.NewFromString(*cond.Value.Text)
		if err == nil {
			return d, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: 字段 %s 需要数值比较值", ErrInvalidConditionValue, cond.Field)
}
