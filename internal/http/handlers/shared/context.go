package shared

import (
	"strconv"

	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ActorContextKey 上下文中的操作者键名
const ActorContextKey = "actor"

// CurrentActor 从上下文读取操作者，缺失时统一返回 401。
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		response.Unauthorized(c, "authentication required")
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	if !ok {
		response.Internal(c, "invalid authentication context")
		return service.Actor{}, false
	}
	return actor, true
}

// RequestID 读取请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// ParseIDParam 解析路径中的数字 ID，非法时统一返回 400。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// ParseQueryUint 解析查询参数中的数字，缺省返回 0。
func ParseQueryUint(c *gin.Context, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// ParseQueryInt 解析查询参数中的整数，缺省返回默认值。
func ParseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
