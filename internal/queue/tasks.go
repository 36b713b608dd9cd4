package queue

import (
	"encoding/json"

	"github.com/fulfill-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskReturnStatusNotify 退货处理结果通知任务
	TaskReturnStatusNotify = constants.TaskReturnStatusNotify
)

// OrderStatusNotifyPayload 订单状态通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// ReturnStatusNotifyPayload 退货处理通知任务载荷
type ReturnStatusNotifyPayload struct {
	ReturnID uint   `json:"return_id"`
	Status   string `json:"status"`
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewReturnStatusNotifyTask 创建退货处理通知任务
func NewReturnStatusNotifyTask(payload ReturnStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReturnStatusNotify, body), nil
}
