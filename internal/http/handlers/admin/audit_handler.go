package admin

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs 查询审计日志
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := shared.PaginationFromQuery(c)

	createdFrom, err := shared.ParseTimeQuery(c, "created_from")
	if err != nil {
		response.BadRequest(c, "invalid created_from")
		return
	}
	createdTo, err := shared.ParseTimeQuery(c, "created_to")
	if err != nil {
		response.BadRequest(c, "invalid created_to")
		return
	}

	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		ActorUserID: shared.ParseQueryUint(c, "actor_user_id"),
		MerchantID:  shared.ParseQueryUint(c, "merchant_id"),
		Action:      strings.TrimSpace(c.Query("action")),
		EntityType:  strings.TrimSpace(c.Query("entity_type")),
		EntityID:    shared.ParseQueryUint(c, "entity_id"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		shared.RequestLog(c).Errorw("audit_log_list_failed", "error", err)
		response.Internal(c, "audit log list failed")
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// Dashboard 平台运行概览
func (h *Handler) Dashboard(c *gin.Context) {
	counters, err := h.DashboardService.Counters()
	if err != nil {
		shared.RequestLog(c).Errorw("dashboard_counters_failed", "error", err)
		response.Internal(c, "dashboard fetch failed")
		return
	}
	response.Success(c, counters)
}
