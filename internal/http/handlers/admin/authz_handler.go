package admin

import (
	"github.com/fulfill-next/internal/http/handlers/shared"
	"github.com/fulfill-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RoleRequest 角色创建请求
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RolePolicyRequest 角色策略授予/回收请求
type RolePolicyRequest struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// UserRolesRequest 用户角色设置请求
type UserRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListRoles 查询全部角色
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		shared.RequestLog(c).Errorw("authz_list_roles_failed", "error", err)
		response.Internal(c, "role list failed")
		return
	}
	response.Success(c, roles)
}

// CreateRole 创建角色
func (h *Handler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, gin.H{"role": role})
}

// DeleteRole 删除角色及其策略
func (h *Handler) DeleteRole(c *gin.Context) {
	if err := h.AuthzService.DeleteRole(c.Param("role")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMsg(c, "role deleted", nil)
}

// GetRolePolicies 查询角色策略
func (h *Handler) GetRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, policies)
}

// GrantRolePolicy 授予角色策略
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := h.AuthzService.GrantRolePolicy(c.Param("role"), req.Object, req.Action); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMsg(c, "policy granted", nil)
}

// RevokeRolePolicy 回收角色策略
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(c.Param("role"), req.Object, req.Action); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMsg(c, "policy revoked", nil)
}

// GetUserRoles 查询用户角色
func (h *Handler) GetUserRoles(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetUserRoles(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, roles)
}

// SetUserRoles 覆盖用户角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req UserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := h.AuthzService.SetUserRoles(id, req.Roles); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMsg(c, "roles updated", nil)
}

// GetUserPolicies 查询用户生效策略
func (h *Handler) GetUserPolicies(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}

	policies, err := h.AuthzService.GetUserPolicies(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, policies)
}

// ReloadPolicies 重新加载策略
func (h *Handler) ReloadPolicies(c *gin.Context) {
	if err := h.AuthzService.ReloadPolicy(); err != nil {
		shared.RequestLog(c).Errorw("authz_reload_failed", "error", err)
		response.Internal(c, "policy reload failed")
		return
	}
	response.SuccessWithMsg(c, "policies reloaded", nil)
}
