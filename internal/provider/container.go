package provider

import (
	"github.com/haythemsaa/boxnew-sub008/internal/cache"
	"github.com/haythemsaa/boxnew-sub008/internal/config"
	"github.com/haythemsaa/boxnew-sub008/internal/logger"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
	"github.com/haythemsaa/boxnew-sub008/internal/pricing"
	"github.com/haythemsaa/boxnew-sub008/internal/queue"
	"github.com/haythemsaa/boxnew-sub008/internal/repository"
	"github.com/haythemsaa/boxnew-sub008/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Engine      *pricing.Engine

	// Repositories
	AdminRepo           repository.AdminRepository
	SiteRepo            repository.SiteRepository
	BoxRepo             repository.BoxRepository
	ContractRepo        repository.ContractRepository
	PricingRuleRepo     repository.PricingRuleRepository
	PricingStrategyRepo repository.PricingStrategyRepository
	CatalogRepo         repository.CatalogRepository
	ResolutionLogRepo   repository.ResolutionLogRepository
	PriceAdjustmentRepo repository.PriceAdjustmentRepository

	// Services
	AuthService          *service.AuthService
	ContextService       *service.ContextService
	QuoteService         *service.QuoteService
	RepriceService       *service.RepriceService
	RuleAdminService     *service.PricingRuleAdminService
	StrategyAdminService *service.PricingStrategyAdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Engine:      pricing.NewEngine(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SiteRepo = repository.NewSiteRepository(db)
	c.BoxRepo = repository.NewBoxRepository(db)
	c.ContractRepo = repository.NewContractRepository(db)
	c.PricingRuleRepo = repository.NewPricingRuleRepository(db)
	c.PricingStrategyRepo = repository.NewPricingStrategyRepository(db)
	c.CatalogRepo = repository.NewCatalogRepository(db)
	c.ResolutionLogRepo = repository.NewResolutionLogRepository(db)
	c.PriceAdjustmentRepo = repository.NewPriceAdjustmentRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ContextService = service.NewContextService(c.BoxRepo)
	c.QuoteService = service.NewQuoteService(c.Config, c.Engine, c.ContextService, c.BoxRepo, c.CatalogRepo, c.ResolutionLogRepo)
	c.RepriceService = service.NewRepriceService(c.Config, models.DB, c.Engine, c.SiteRepo, c.BoxRepo, c.ContractRepo, c.CatalogRepo)
	c.RuleAdminService = service.NewPricingRuleAdminService(c.PricingRuleRepo)
	c.StrategyAdminService = service.NewPricingStrategyAdminService(c.PricingStrategyRepo)
}
