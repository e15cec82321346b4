package repository

import "gorm.io/gorm"

// applyPagination 把分页参数落到 GORM 查询上。
// 规则、策略、合同等列表仓库共用，非法页码归一为首页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return query.Limit(pageSize).Offset(offset)
}
