package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Engine 价格解析引擎。
// 纯函数式：输入目录快照与上下文，输出带审计轨迹的计算结果，
// 自身无状态，可被任意多个 goroutine 并发调用。
type Engine struct {
	selector  RuleSelector
	applier   AdjustmentApplier
	evaluator ConditionEvaluator
}

// NewEngine 创建价格解析引擎
func NewEngine() *Engine {
	return &Engine{}
}

// ComputePrice 计算最终价格。
// 规则阶段按序叠加调价，非可叠加规则应用后立即终止本阶段；
// 策略阶段独立累计折扣百分比并整体收敛后一次性应用。
func (e *Engine) ComputePrice(catalog Catalog, ctx Context) (*Resolution, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	resolution := &Resolution{BasePrice: ctx.BasePrice}

	candidates, diagnostics := e.selector.SelectCandidates(catalog.Rules, ctx)
	resolution.Diagnostics = diagnostics

	running := ctx.BasePrice
	for i, rule := range candidates {
		next, clamped := e.applier.Apply(running, rule)
		resolution.Adjustments = append(resolution.Adjustments, AppliedAdjustment{
			RuleID:          rule.ID,
			RuleType:        rule.Type,
			AdjustmentType:  rule.AdjustmentType,
			AdjustmentValue: rule.AdjustmentValue,
			Delta:           next.Sub(running),
			ResultingPrice:  next,
			Clamped:         clamped,
		})
		running = next

		// 先应用再收敛，最后才判断可叠加性
		if !rule.Stackable {
			for _, blocked := range candidates[i+1:] {
				resolution.Skipped = append(resolution.Skipped, SkippedRule{
					RuleID: blocked.ID,
					Reason: fmt.Sprintf("%s:%d", SkipReasonBlockedByNonStackable, rule.ID),
				})
			}
			break
		}
	}

	running = e.applyStrategyPass(catalog.Strategies, ctx, running, resolution)

	if running.IsNegative() {
		running = decimal.Zero
	}
	resolution.FinalPrice = running.Round(2)
	resolution.TotalDiscountPercent = ctx.BasePrice.Sub(resolution.FinalPrice).
		Div(ctx.BasePrice).Mul(oneHundred).Round(2)
	return resolution, nil
}

// PreviewCandidates 返回每条规则的匹配情况（不执行任何调价）
func (e *Engine) PreviewCandidates(catalog Catalog, ctx Context) ([]CandidatePreview, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return e.selector.Inspect(catalog.Rules, ctx), nil
}

// applyStrategyPass 执行策略阶段。
// 累计所有命中子句的折扣百分比，用贡献了最高优先级命中子句的策略的
// [min_discount, max_discount] 区间收敛后，一次性作用于规则阶段产出的价格。
// 子句优先级并列时取候选序靠前的策略（候选序本身确定）。
func (e *Engine) applyStrategyPass(strategies []Strategy, ctx Context, running decimal.Decimal, resolution *Resolution) decimal.Decimal {
	candidates, diagnostics := e.selector.selectStrategies(strategies, ctx)
	resolution.Diagnostics = append(resolution.Diagnostics, diagnostics...)
	if len(candidates) == 0 {
		return running
	}

	cumulative := decimal.Zero
	fired := 0
	var winner *Strategy
	winnerClausePriority := 0
	for i := range candidates {
		strategy := candidates[i]
		for _, clause := range strategy.Clauses {
			matched, err := e.evaluator.Matches(clause.Condition, ctx)
			if err != nil {
				resolution.Diagnostics = append(resolution.Diagnostics, Diagnostic{
					Kind:       diagnosticKind(err),
					StrategyID: strategy.ID,
					Message:    err.Error(),
				})
				continue
			}
			if !matched {
				continue
			}
			cumulative = cumulative.Add(clause.DiscountPercent)
			fired++
			if winner == nil || clause.Priority > winnerClausePriority {
				winner = &candidates[i]
				winnerClausePriority = clause.Priority
			}
		}
	}
	if winner == nil {
		return running
	}

	if winner.MinDiscountPercent.Cmp(winner.MaxDiscountPercent) > 0 {
		resolution.Diagnostics = append(resolution.Diagnostics, Diagnostic{
			Kind:       DiagMalformedClamp,
			StrategyID: winner.ID,
			Message:    "策略折扣区间起止颠倒，策略阶段未生效",
		})
		return running
	}

	applied := cumulative
	clamped := false
	if applied.Cmp(winner.MinDiscountPercent) < 0 {
		applied = winner.MinDiscountPercent
		clamped = true
	}
	if applied.Cmp(winner.MaxDiscountPercent) > 0 {
		applied = winner.MaxDiscountPercent
		clamped = true
	}

	resolution.Strategy = &StrategyOutcome{
		StrategyID:             winner.ID,
		StrategyType:           winner.StrategyType,
		FiredClauses:           fired,
		RawDiscountPercent:     cumulative,
		AppliedDiscountPercent: applied,
		Clamped:                clamped,
	}

	next := running.Mul(decimal.NewFromInt(1).Sub(applied.Div(oneHundred)))
	if next.IsNegative() {
		next = decimal.Zero
	}
	return next
}

func validateContext(ctx Context) error {
	if ctx.TenantID == 0 {
		return fmt.Errorf("%w: 缺少租户", ErrInvalidContext)
	}
	if !ctx.BasePrice.IsPositive() {
		return fmt.Errorf("%w: base_price 必须为正", ErrInvalidContext)
	}
	if ctx.EvaluatedAt.IsZero() {
		return fmt.Errorf("%w: 缺少评估时点", ErrInvalidContext)
	}
	return nil
}
