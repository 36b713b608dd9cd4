package merchant

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var staffErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrEmailExists, Code: response.CodeConflict},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrPasswordTooWeak, Code: response.CodeBadRequest},
	{Target: service.ErrWarehouseNotFound, Code: response.CodeBadRequest},
	{Target: service.ErrUserLimitReached, Code: response.CodeBadRequest},
}

// CreateStaff 创建本商户员工
func (h *Handler) CreateStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	input.MerchantID = actor.MerchantID

	user, err := h.UserService.CreateUser(actor, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff creation failed")
		return
	}
	response.Created(c, user)
}

// ListStaff 查询本商户员工列表
func (h *Handler) ListStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)

	users, total, err := h.UserService.ListUsers(actor, repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     strings.TrimSpace(c.Query("role")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff list failed")
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetStaff 获取员工详情
func (h *Handler) GetStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.UserService.GetUser(actor, id)
	if err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff fetch failed")
		return
	}
	response.Success(c, user)
}

// UpdateStaff 更新员工资料
func (h *Handler) UpdateStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	user, err := h.UserService.UpdateUser(actor, id, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff update failed")
		return
	}
	response.Success(c, user)
}

// DeleteStaff 删除员工
func (h *Handler) DeleteStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff delete failed")
		return
	}
	response.SuccessWithMsg(c, "staff deleted", nil)
}

// DisableStaff 禁用员工并失效其会话
func (h *Handler) DisableStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.UserService.DisableUser(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, staffErrorRules, response.CodeInternal, "staff disable failed")
		return
	}
	response.SuccessWithMsg(c, "staff disabled", nil)
}
