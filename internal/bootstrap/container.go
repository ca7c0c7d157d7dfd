package bootstrap

import (
	"context"
	"log"

	"mathdoc-be/internal/config"
	"mathdoc-be/internal/controller"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/internal/service"
	"mathdoc-be/pkg/events"
	"mathdoc-be/pkg/lexical"
	pktNats "mathdoc-be/pkg/nats"
	"mathdoc-be/pkg/rendercache"
	"mathdoc-be/pkg/site"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DirectoryController controller.IDirectoryController
	DocumentController  controller.IDocumentController
	ExportController    controller.IExportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ExportService   service.IExportService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	exportLogger := logger.NewIsolatedLogger(cfg.App.ExportLogFilePath)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS is optional; without it domain events are dropped.
	var eventPublisher events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger.Zap())
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	cacheOpts := []rendercache.Option{
		rendercache.WithErrorHandler(func(op string, err error) {
			sysLogger.Warn("RENDER_CACHE", "Redis operation failed", map[string]interface{}{
				"op":    op,
				"error": err.Error(),
			})
		}),
	}
	if cfg.Render.RedisCache && cfg.App.RedisURL != "" {
		rdb := newRedisClient(cfg.App.RedisURL)
		cacheOpts = append(cacheOpts, rendercache.WithRedis(rdb))
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	var renderCache *rendercache.Cache
	if cfg.Render.CacheEnabled {
		renderCache = rendercache.New(cfg.Render.CacheTTL, cacheOpts...)
	}

	// 4. Rendering
	assembler, err := NewAssembler(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load site config: %v", err)
	}

	// 5. Services
	var publisherService service.IPublisherService
	if cfg.Export.AutoExport {
		publisherService = service.NewPublisherService(cfg.Export.Topic, pubSub)
	}

	exportService := service.NewExportService(
		uowFactory,
		assembler,
		renderCache,
		service.ExportOptions{
			Root:    cfg.Export.Root,
			Workers: cfg.Export.Workers,
			Minify:  cfg.Export.Minify,
		},
		eventPublisher,
		exportLogger,
	)
	consumerService := service.NewExportConsumerService(
		pubSub,
		cfg.Export.Topic,
		exportService,
		exportLogger,
	)

	directoryService := service.NewDirectoryService(uowFactory)
	documentService := service.NewDocumentService(
		uowFactory,
		assembler,
		renderCache,
		publisherService,
		eventPublisher,
		sysLogger,
	)

	// 6. Controllers
	c.DirectoryController = controller.NewDirectoryController(directoryService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.ExportController = controller.NewExportController(exportService)
	c.ConsumerService = consumerService
	c.ExportService = exportService

	return c
}

// NewAssembler builds the page assembler from the render and site settings.
func NewAssembler(cfg *config.Config) (*site.Assembler, error) {
	shell, err := site.LoadShell(cfg.Export.SiteConfigPath)
	if err != nil {
		return nil, err
	}
	renderer := lexical.NewRenderer(lexical.WithMaxDepth(cfg.Render.MaxDepth))
	return site.NewAssembler(renderer, shell), nil
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
