package shared

import (
	"errors"

	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// MappedHandlerError 定义业务错误到接口错误响应的映射关系。
type MappedHandlerError struct {
	Target error
	Code   int
}

// RespondWithMappedError 按映射表返回错误响应，未命中时走兜底码并记录日志。
// 命中的业务错误消息原样透出。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			response.Error(c, rule.Code, err.Error())
			return
		}
	}
	RequestLog(c).Errorw("handler_error",
		"code", fallbackCode,
		"message", fallbackMsg,
		"error", err,
	)
	response.Error(c, fallbackCode, fallbackMsg)
}

// ConcatMappedHandlerErrors 合并多组错误映射。
func ConcatMappedHandlerErrors(groups ...[]MappedHandlerError) []MappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
