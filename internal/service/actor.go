package service

import "github.com/fulfill-next/internal/constants"

// Actor 请求操作人上下文
// 由鉴权中间件解析 JWT 后填充，显式传入每个需要租户校验的服务调用。
type Actor struct {
	UserID      uint
	Email       string
	Role        string
	MerchantID  uint
	WarehouseID uint
}

// IsPlatformAdmin 判断是否为平台管理员
func (a Actor) IsPlatformAdmin() bool {
	return a.Role == constants.RolePlatformAdmin
}

// IsMerchantAdmin 判断是否为商户管理员
func (a Actor) IsMerchantAdmin() bool {
	return a.Role == constants.RoleMerchantAdmin
}

// CanAccessMerchant 判断是否可访问指定商户的数据
// 平台管理员跨租户放行，其余角色要求租户一致。
func (a Actor) CanAccessMerchant(merchantID uint) bool {
	if a.IsPlatformAdmin() {
		return true
	}
	return a.MerchantID != 0 && a.MerchantID == merchantID
}
