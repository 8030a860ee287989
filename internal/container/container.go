package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/config"
	"ymm/catalog/internal/httpapi"
	"ymm/catalog/internal/proxy"
	"ymm/catalog/internal/queue"
	"ymm/catalog/internal/repository"
	"ymm/catalog/internal/search"
	"ymm/catalog/internal/service"
	"ymm/catalog/internal/state"
)

// Container holds all initialized components
type Container struct {
	Config *config.Config

	Taxonomy *service.TaxonomyService
	Settings *service.SettingsService
	Vehicles *service.VehicleService
	Searches *service.SearchService
	Cart     *service.CartService
	Activity *service.ActivityConsumer

	Server *http.Server

	pool  *pgxpool.Pool
	db    *sql.DB
	redis *redis.Client
	nats  *nats.Conn
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
	}

	if cfg.Database.MigrateOnStart {
		if err := repository.Migrate(cfg.Database.DSN()); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}

	c.pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.db = stdlib.OpenDBFromPool(c.pool)
	log.Info("✅ Connected to Postgres successfully")

	c.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := c.redis.Ping(ctx).Result(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(ctx, c.redis, cfg.Redis)
	if err != nil {
		c.Close()
		return nil, err
	}

	publisher, err := c.buildPublisher(redisQueue)
	if err != nil {
		c.Close()
		return nil, err
	}

	proxySupplier, err := proxy.NewProxySupplier(ctx, cfg.Fitment.Proxies, cfg.Fitment.BaseURL)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}

	categories := repository.NewCategoryRepository(c.db)
	subcategories := repository.NewSubcategoryRepository(c.db)
	partTypes := repository.NewPartTypeRepository(c.db)
	settings := repository.NewSettingsRepository(c.db)

	c.Settings = service.NewSettingsService(settings)
	fitment := client.NewFitmentClient(cfg.Fitment, c.Settings, proxySupplier)
	storefront := client.NewStorefrontClient(cfg.Storefront)

	sessionTTL := time.Duration(cfg.Redis.SessionTTL) * time.Second
	pipeline := search.NewPipeline(fitment, storefront, publisher, search.NewRegistry(), cfg.Search.PageSize, sessionTTL)

	c.Taxonomy = service.NewTaxonomyService(categories, subcategories, partTypes)
	c.Vehicles = service.NewVehicleService(fitment)
	c.Searches = service.NewSearchService(c.Vehicles, c.Taxonomy, pipeline, state.NewRedisSessionStore(c.redis, sessionTTL))
	c.Cart = service.NewCartService(storefront, publisher)
	c.Activity = service.NewActivityConsumer(
		redisQueue,
		state.NewRedisEventCounter(c.redis),
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MaxWorkers,
		cfg.Redis.MinIdleTime,
	)

	handler := httpapi.NewHandler(c.Taxonomy, c.Settings, c.Vehicles, c.Searches, c.Cart, c.Activity)
	c.Server = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           httpapi.NewRouter(cfg.Server, sessionTTL, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return c, nil
}

// buildPublisher picks the event sinks: the Redis stream unless disabled, plus NATS when configured
func (c *Container) buildPublisher(redisQueue *queue.RedisQueue) (queue.Publisher, error) {
	var sinks queue.Multi
	if c.Config.Events.RedisStream {
		sinks = append(sinks, redisQueue)
	}

	if c.Config.Events.NATSURL != "" {
		natsPublisher, conn, err := queue.ConnectNATS(c.Config.Events.NATSURL, c.Config.Events.SubjectPrefix)
		if err != nil {
			return nil, err
		}
		c.nats = conn
		sinks = append(sinks, natsPublisher)
		log.Infof("✅ Connected to NATS at %s", c.Config.Events.NATSURL)
	}

	switch len(sinks) {
	case 0:
		log.Warn("⚠️ Event publishing disabled")
		return queue.Nop{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

// Run serves HTTP and consumes the activity streams until ctx is cancelled, then shuts the server down
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		timeout := time.Duration(c.Config.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		log.Info("Shutting down HTTP server...")
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	})

	if c.Config.Events.RedisStream {
		g.Go(func() error {
			return c.Activity.Run(ctx)
		})
	}

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.nats != nil {
		if err := c.nats.Drain(); err != nil {
			log.Warnf("⚠️ Failed to drain NATS connection: %v", err)
		}
	}
	if c.redis != nil {
		c.redis.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
