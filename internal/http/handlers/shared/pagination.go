package shared

import "github.com/gin-gonic/gin"

// NormalizePagination 归一化分页参数。
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

// PaginationFromQuery 从查询参数解析分页。
func PaginationFromQuery(c *gin.Context) (int, int) {
	page := ParseQueryInt(c, "page", 1)
	pageSize := ParseQueryInt(c, "page_size", 20)
	return NormalizePagination(page, pageSize)
}
