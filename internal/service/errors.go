package service

import "errors"

// 服务层业务错误
var (
	ErrAccountInvalid     = errors.New("账号或密码错误")
	ErrSiteNotFound       = errors.New("场地不存在")
	ErrBoxNotFound        = errors.New("仓位不存在")
	ErrBoxUnavailable     = errors.New("仓位当前不可租")
	ErrContractNotFound   = errors.New("合同不存在")
	ErrRuleNotFound       = errors.New("定价规则不存在")
	ErrRuleInvalid        = errors.New("定价规则参数无效")
	ErrStrategyNotFound   = errors.New("定价策略不存在")
	ErrStrategyInvalid    = errors.New("定价策略参数无效")
	ErrQuoteInvalid       = errors.New("报价请求参数无效")
	ErrCatalogUnavailable = errors.New("规则目录读取失败")
	ErrRepriceBusy        = errors.New("该场地重定价任务进行中")
)
