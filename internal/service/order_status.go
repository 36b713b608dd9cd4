package service

import (
	"github.com/fulfill-next/internal/constants"
)

// fulfillmentChain 履约主链（按推进顺序）
var fulfillmentChain = []string{
	constants.OrderStatusPending,
	constants.OrderStatusConfirmed,
	constants.OrderStatusProcessing,
	constants.OrderStatusPicked,
	constants.OrderStatusPacked,
	constants.OrderStatusShipped,
	constants.OrderStatusOutForDelivery,
	constants.OrderStatusDelivered,
}

// allowedTransitions 订单状态流转表
// 主链上每个状态可以向前跳转到任意后续状态；非终态均可取消；
// 已送达订单可转为退货。不在表内的流转一律拒绝。
var allowedTransitions = buildOrderTransitions()

func buildOrderTransitions() map[string]map[string]bool {
	transitions := make(map[string]map[string]bool)
	for i, from := range fulfillmentChain {
		nexts := make(map[string]bool)
		for _, to := range fulfillmentChain[i+1:] {
			nexts[to] = true
		}
		if from != constants.OrderStatusDelivered {
			nexts[constants.OrderStatusCancelled] = true
		}
		transitions[from] = nexts
	}
	transitions[constants.OrderStatusDelivered][constants.OrderStatusReturned] = true
	return transitions
}

// isTerminalOrderStatus 判断是否终态
func isTerminalOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusCancelled, constants.OrderStatusReturned:
		return true
	}
	return false
}

// isOrderTransitionAllowed 判断状态流转是否合法
func isOrderTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}
