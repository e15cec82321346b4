package pricing

import (
	"errors"
	"sort"
)

// RuleSelector 组合生效窗口与条件求值，产出有序候选集。
// 排序键为 (priority 降序, 站点级优先于租户级, id 升序)，
// 保证同一目录与上下文下的排序在多次运行间完全一致。
type RuleSelector struct {
	evaluator ConditionEvaluator
	validity  ValidityFilter
}

// NewRuleSelector 创建规则选择器
func NewRuleSelector() RuleSelector {
	return RuleSelector{}
}

// SelectCandidates 返回按应用顺序排列的匹配规则。
// 单条规则的求值失败降级为诊断记录，不中断整体筛选。
func (s RuleSelector) SelectCandidates(rules []Rule, ctx Context) ([]Rule, []Diagnostic) {
	var candidates []Rule
	var diagnostics []Diagnostic

	for _, rule := range rules {
		if rule.TenantID != ctx.TenantID {
			continue
		}
		if rule.SiteID != nil && *rule.SiteID != ctx.SiteID {
			continue
		}
		if IsWindowMalformed(rule.ValidFrom, rule.ValidUntil) {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagMalformedWindow,
				RuleID:  rule.ID,
				Message: ErrMalformedValidityWindow.Error(),
			})
			continue
		}
		if !s.validity.IsValid(rule, ctx.EvaluatedAt) {
			continue
		}
		matched, err := s.evaluator.Matches(rule.Condition, ctx)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    diagnosticKind(err),
				RuleID:  rule.ID,
				Message: err.Error(),
			})
			continue
		}
		if !matched {
			continue
		}
		candidates = append(candidates, rule)
	}

	sortRules(candidates)
	return candidates, diagnostics
}

// Inspect 返回租户目录内每条规则的匹配情况与原因（管理端试算用）
func (s RuleSelector) Inspect(rules []Rule, ctx Context) []CandidatePreview {
	var previews []CandidatePreview
	for _, rule := range rules {
		if rule.TenantID != ctx.TenantID {
			continue
		}
		preview := CandidatePreview{Rule: rule}
		switch {
		case rule.SiteID != nil && *rule.SiteID != ctx.SiteID:
			preview.Reason = "site_scope_mismatch"
		case IsWindowMalformed(rule.ValidFrom, rule.ValidUntil):
			preview.Reason = DiagMalformedWindow
		case !rule.IsActive:
			preview.Reason = "inactive"
		case !s.validity.IsValid(rule, ctx.EvaluatedAt):
			preview.Reason = "outside_validity_window"
		default:
			matched, err := s.evaluator.Matches(rule.Condition, ctx)
			switch {
			case err != nil:
				preview.Reason = diagnosticKind(err)
			case !matched:
				preview.Reason = "condition_not_matched"
			default:
				preview.Matched = true
			}
		}
		previews = append(previews, preview)
	}

	sort.SliceStable(previews, func(i, j int) bool {
		return ruleLess(previews[i].Rule, previews[j].Rule)
	})
	return previews
}

// selectStrategies 返回按应用顺序排列的生效策略（条件在子句级求值）
func (s RuleSelector) selectStrategies(strategies []Strategy, ctx Context) ([]Strategy, []Diagnostic) {
	var candidates []Strategy
	var diagnostics []Diagnostic

	for _, strategy := range strategies {
		if strategy.TenantID != ctx.TenantID {
			continue
		}
		if strategy.SiteID != nil && *strategy.SiteID != ctx.SiteID {
			continue
		}
		if IsWindowMalformed(strategy.StartsAt, strategy.EndsAt) {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:       DiagMalformedWindow,
				StrategyID: strategy.ID,
				Message:    ErrMalformedValidityWindow.Error(),
			})
			continue
		}
		if !s.validity.IsStrategyValid(strategy, ctx.EvaluatedAt) {
			continue
		}
		candidates = append(candidates, strategy)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return strategyLess(candidates[i], candidates[j])
	})
	return candidates, diagnostics
}

func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return ruleLess(rules[i], rules[j])
	})
}

// ruleLess 实现复合排序键 (priority, scope_rank, id)
func ruleLess(a, b Rule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if ar, br := scopeRank(a.SiteID), scopeRank(b.SiteID); ar != br {
		return ar > br
	}
	return a.ID < b.ID
}

func strategyLess(a, b Strategy) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if ar, br := scopeRank(a.SiteID), scopeRank(b.SiteID); ar != br {
		return ar > br
	}
	return a.ID < b.ID
}

// scopeRank 站点级规则在同优先级下先于租户级规则
func scopeRank(siteID *uint) int {
	if siteID != nil {
		return 1
	}
	return 0
}

func diagnosticKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownConditionField):
		return DiagUnknownField
	case errors.Is(err, ErrInvalidConditionValue):
		return DiagInvalidValue
	default:
		return DiagConditionFailure
	}
}
