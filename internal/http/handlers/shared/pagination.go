package shared

// NormalizePagination 归一化列表接口的分页参数。
// 解析日志与调价历史等大表接口依赖 100 的页长上限。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
