package pricing

import "time"

// ValidityFilter 生效窗口过滤器（起止均为闭区间，缺省表示开放）
type ValidityFilter struct{}

// IsValid 判断规则在给定时点是否生效
func (f ValidityFilter) IsValid(rule Rule, asOf time.Time) bool {
	if !rule.IsActive {
		return false
	}
	return windowContains(rule.ValidFrom, rule.ValidUntil, asOf)
}

// IsStrategyValid 判断策略在给定时点是否生效
func (f ValidityFilter) IsStrategyValid(strategy Strategy, asOf time.Time) bool {
	if !strategy.IsActive {
		return false
	}
	return windowContains(strategy.StartsAt, strategy.EndsAt, asOf)
}

// IsWindowMalformed 判断窗口起止是否颠倒（颠倒视为永不生效并记诊断）
func IsWindowMalformed(from, until *time.Time) bool {
	return from != nil && until != nil && from.After(*until)
}

func windowContains(from, until *time.Time, asOf time.Time) bool {
	if IsWindowMalformed(from, until) {
		return false
	}
	if from != nil && asOf.Before(*from) {
		return false
	}
	if until != nil && asOf.After(*until) {
		return false
	}
	return true
}
