package admin

import (
	"strings"

	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/repository"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

var userErrorRules = []shared.MappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound},
	{Target: service.ErrForbidden, Code: response.CodeForbidden},
	{Target: service.ErrEmailExists, Code: response.CodeConflict},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrPasswordTooWeak, Code: response.CodeBadRequest},
	{Target: service.ErrMerchantNotFound, Code: response.CodeBadRequest},
	{Target: service.ErrWarehouseNotFound, Code: response.CodeBadRequest},
	{Target: service.ErrUserLimitReached, Code: response.CodeBadRequest},
}

// CreateUser 创建任意租户的用户
func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}

	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	user, err := h.UserService.CreateUser(actor, input)
	if err != nil {
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user creation failed")
		return
	}
	response.Created(c, user)
}

// ListUsers 跨租户查询用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	page, pageSize := shared.PaginationFromQuery(c)

	users, total, err := h.UserService.ListUsers(actor, repository.UserListFilter{
		Page:       page,
		PageSize:   pageSize,
		MerchantID: shared.ParseQueryUint(c, "merchant_id"),
		Role:       strings.TrimSpace(c.Query("role")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user list failed")
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser 获取用户详情
func (h *Handler) GetUser(c *gin.Context) {
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
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user fetch failed")
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户资料
func (h *Handler) UpdateUser(c *gin.Context) {
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
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user update failed")
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user delete failed")
		return
	}
	response.SuccessWithMsg(c, "user deleted", nil)
}

// DisableUser 禁用用户并失效其会话
func (h *Handler) DisableUser(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.UserService.DisableUser(actor, id); err != nil {
		shared.RespondWithMappedError(c, err, userErrorRules, response.CodeInternal, "user disable failed")
		return
	}
	response.SuccessWithMsg(c, "user disabled", nil)
}
