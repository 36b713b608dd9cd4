package shared

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ParseTimeNullable 解析时间字符串，空串返回 nil。
// 支持 RFC3339 与 "2006-01-02" 两种格式。
func ParseTimeNullable(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseTimeQuery 从查询参数解析时间，格式非法时返回错误。
func ParseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	return ParseTimeNullable(c.Query(name))
}
