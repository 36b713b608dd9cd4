package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/provider"
	"github.com/fulfill-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskReturnStatusNotify, c.handleReturnStatusNotify)
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_not_found", "order_id", payload.OrderID)
		return nil
	}

	receiver := strings.TrimSpace(order.CustomerEmail)
	if receiver == "" {
		logger.Debugw("worker_order_status_notify_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}

	logger.Infow("order_status_notification_dispatched",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"merchant_id", order.MerchantID,
		"status", status,
		"receiver", receiver,
		"tracking_number", order.TrackingNumber,
	)
	return nil
}

func (c *Consumer) handleReturnStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_return_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReturnStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_return_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ReturnID == 0 {
		logger.Debugw("worker_return_status_notify_skip_invalid_payload", "return_id", payload.ReturnID)
		return nil
	}
	ret, err := c.ReturnRepo.GetByID(payload.ReturnID)
	if err != nil {
		logger.Warnw("worker_return_status_notify_fetch_failed", "return_id", payload.ReturnID, "error", err)
		return err
	}
	if ret == nil {
		logger.Debugw("worker_return_status_notify_skip_not_found", "return_id", payload.ReturnID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(ret.OrderID)
	if err != nil {
		logger.Warnw("worker_return_status_notify_fetch_order_failed", "return_id", ret.ID, "order_id", ret.OrderID, "error", err)
		return err
	}
	receiver := ""
	if order != nil {
		receiver = strings.TrimSpace(order.CustomerEmail)
	}
	if receiver == "" {
		logger.Debugw("worker_return_status_notify_skip_empty_receiver", "return_id", ret.ID, "return_no", ret.ReturnNo)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = ret.Status
	}

	logger.Infow("return_status_notification_dispatched",
		"return_id", ret.ID,
		"return_no", ret.ReturnNo,
		"merchant_id", ret.MerchantID,
		"status", status,
		"receiver", receiver,
	)
	return nil
}
