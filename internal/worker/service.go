package worker

import (
	"context"
	"errors"
	"time"

	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Config != nil && s.consumer.Config.Repricing.Enabled {
		go s.runRepriceScheduleLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runRepriceScheduleLoop 周期性为所有启用场地入队重定价任务
func (s *Service) runRepriceScheduleLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	interval := time.Duration(s.consumer.Config.Repricing.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueDueSites()
		}
	}
}

func (s *Service) enqueueDueSites() {
	if s.consumer.QueueClient == nil || !s.consumer.QueueClient.Enabled() {
		logger.Debugw("worker_reprice_schedule_skip_queue_disabled")
		return
	}
	sites, err := s.consumer.SiteRepo.ListAllActive()
	if err != nil {
		logger.Warnw("worker_reprice_schedule_list_sites_failed", "error", err)
		return
	}
	for _, site := range sites {
		payload := queue.SiteRepricePayload{TenantID: site.TenantID, SiteID: site.ID}
		if err := s.consumer.QueueClient.EnqueueSiteReprice(payload); err != nil {
			logger.Warnw("worker_reprice_schedule_enqueue_failed", "site_id", site.ID, "error", err)
			continue
		}
		logger.Debugw("worker_reprice_schedule_enqueued", "tenant_id", site.TenantID, "site_id", site.ID)
	}
}
