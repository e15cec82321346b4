package constants

// 定价规则类型常量
const (
	RuleTypeOccupationBased  = "occupation_based"
	RuleTypeSeasonal         = "seasonal"
	RuleTypeDurationDiscount = "duration_discount"
	RuleTypeSizeBased        = "size_based"
	RuleTypePromotional      = "promotional"
)

// RuleTypes 支持的规则类型集合
var RuleTypes = []string{
	RuleTypeOccupationBased,
	RuleTypeSeasonal,
	RuleTypeDurationDiscount,
	RuleTypeSizeBased,
	RuleTypePromotional,
}

// 调价方式常量
const (
	AdjustmentTypePercentage  = "percentage"
	AdjustmentTypeFixedAmount = "fixed_amount"
)

// 箱体规格分类常量
const (
	BoxSizeSmall  = "small"
	BoxSizeMedium = "medium"
	BoxSizeLarge  = "large"
	BoxSizeXL     = "xl"
)

// 箱体状态常量
const (
	BoxStatusAvailable   = "available"
	BoxStatusReserved    = "reserved"
	BoxStatusOccupied    = "occupied"
	BoxStatusMaintenance = "maintenance"
)

// 合同状态常量
const (
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
)

// 客户分层常量
const (
	CustomerSegmentNew       = "new"
	CustomerSegmentReturning = "returning"
	CustomerSegmentVIP       = "vip"
	CustomerSegmentBusiness  = "business"
)

// 价格计算来源常量
const (
	ResolutionSourceBooking   = "booking"
	ResolutionSourceRenewal   = "renewal"
	ResolutionSourceInvoice   = "invoice"
	ResolutionSourceRepricing = "repricing"
)

// 调价触发来源常量
const (
	AdjustmentTriggerRepricing = "repricing"
	AdjustmentTriggerManual    = "manual"
)

// 异步任务常量
const (
	TaskSiteReprice = "repricing:site"
	QueueDefault    = "default"
)
