package service

import (
	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"
)

// DashboardService 平台总览统计服务
type DashboardService struct{}

// NewDashboardService 创建总览统计服务
func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// DashboardCounters 平台总览计数
type DashboardCounters struct {
	Merchants       int64 `json:"merchants"`
	ActiveMerchants int64 `json:"active_merchants"`
	Users           int64 `json:"users"`
	Orders          int64 `json:"orders"`
	PendingOrders   int64 `json:"pending_orders"`
	Returns         int64 `json:"returns"`
	PendingReturns  int64 `json:"pending_returns"`
}

// Counters 统计平台总览计数
func (s *DashboardService) Counters() (*DashboardCounters, error) {
	counters := &DashboardCounters{}
	db := models.DB

	if err := db.Model(&models.Merchant{}).Count(&counters.Merchants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Merchant{}).
		Where("status = ?", constants.MerchantStatusActive).
		Count(&counters.ActiveMerchants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&counters.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&counters.Orders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusPending).
		Count(&counters.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Return{}).Count(&counters.Returns).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Return{}).
		Where("status = ?", constants.ReturnStatusPending).
		Count(&counters.PendingReturns).Error; err != nil {
		return nil, err
	}
	return counters, nil
}
