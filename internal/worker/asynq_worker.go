package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/provider"
	"github.com/haythemsaa/boxnew-sub008/internal/queue"
	"github.com/haythemsaa/boxnew-sub008/internal/service"

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
	mux.HandleFunc(queue.TaskSiteReprice, c.handleSiteReprice)
}

func (c *Consumer) handleSiteReprice(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_site_reprice_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SiteRepricePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_site_reprice_unmarshal_failed", "error", err)
		return err
	}
	if payload.TenantID == 0 || payload.SiteID == 0 {
		logger.Debugw("worker_site_reprice_skip_invalid_payload",
			"tenant_id", payload.TenantID, "site_id", payload.SiteID)
		return nil
	}

	summary, err := c.RepriceService.RepriceSite(ctx, payload.TenantID, payload.SiteID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRepriceBusy):
			logger.Debugw("worker_site_reprice_skip_busy", "site_id", payload.SiteID)
			return nil
		case errors.Is(err, service.ErrSiteNotFound):
			logger.Debugw("worker_site_reprice_skip_site_not_found",
				"tenant_id", payload.TenantID, "site_id", payload.SiteID)
			return nil
		default:
			logger.Warnw("worker_site_reprice_failed", "site_id", payload.SiteID, "error", err)
			return err
		}
	}
	logger.Infow("worker_site_reprice_finished",
		"tenant_id", payload.TenantID,
		"site_id", payload.SiteID,
		"total", summary.Total,
		"repriced", summary.Repriced,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"canceled", summary.Canceled,
	)
	return nil
}
