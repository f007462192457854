package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/postnav/internal/config"
	"github.com/MrSnakeDoc/postnav/internal/httpserver"
	"github.com/MrSnakeDoc/postnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/redis"
	"github.com/MrSnakeDoc/postnav/internal/render"
	"github.com/MrSnakeDoc/postnav/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/postnav/internal/store/redis"
	"github.com/MrSnakeDoc/postnav/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.PostsReloader
	watcher     *scheduler.PostsWatcher
	gc          *scheduler.GarbageCollector
}

func New(cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: without it there is no render cache and no snapshot.
	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, running without render cache",
				logger.Error(err))
		} else {
			loggerClient.Info("Redis initialized successfully")
			redisClient = client
			store = redisstore.NewStore(client)
		}
	} else {
		loggerClient.Info("redis not configured, render cache disabled")
	}

	memIndex := index.NewMemoryIndex()

	// Interfaces below must stay nil when redis is off.
	var (
		cache       render.Cache
		postsStore  scheduler.PostsStore
		renderStore scheduler.RenderStore
	)
	if store != nil {
		cache, postsStore, renderStore = store, store, store

		// Restored list is served if the posts file cannot be read at startup
		syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
		if err := syncer.Sync(context.Background()); err != nil {
			loggerClient.Warn("failed to sync from redis on startup, will load from posts file",
				logger.Error(err))
		}
	}

	components, err := BuildComponents(cfg, cache, loggerClient)
	if err != nil {
		return nil, err
	}

	highlightCSS, err := render.StyleCSS(cfg.HighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTNAV_HIGHLIGHT_STYLE: %w", err)
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewPostsReloader(
		cfg.PostsFile,
		postsStore,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	var watcher *scheduler.PostsWatcher
	if cfg.Watch && cfg.PostsFile != "" {
		watcher = scheduler.NewPostsWatcher(cfg.PostsFile, reloadTrigger, loggerClient)
	}

	gc := scheduler.NewGarbageCollector(
		renderStore,
		components.Fetcher,
		memIndex,
		loggerClient,
		cfg.GCInterval,
		cfg.PageTTL,
	)
	gc.SetRenderKey(components.RenderKey)

	postsRoot := ""
	if cfg.FetchBaseURL == "" {
		postsRoot = cfg.PostsRoot
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateBurst:       cfg.RateBurst,
		RatePerMin:      cfg.RatePerMin,
		ClickRateBurst:  cfg.ClickRateBurst,
		ClickRatePerMin: cfg.ClickRatePerMin,
		HighlightCSS:    highlightCSS,
		PostsFile:       cfg.PostsFile,
		PostsRoot:       postsRoot,
		RedisClient:     redisClient,
		MemoryIndex:     memIndex,
		Fetcher:         components.Fetcher,
		Converter:       components.Converter,
		LoaderOptions:   components.Options,
		ReloadTrigger:   reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		watcher:     watcher,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting postnav v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("postnav %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads the post list and starts the periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start posts reloader: %w", err)
	}
	a.logger.Info("posts reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			// Periodic reload still covers changes
			a.logger.Warn("failed to start posts watcher", logger.Error(err))
			a.watcher = nil
		}
	}

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("page_ttl", a.cfg.PageTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ postnav stopped cleanly",
		logger.Int("pages", a.memIndex.PageCount()))
	_ = a.logger.Sync()
	return nil
}
