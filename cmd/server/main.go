package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkrelay/internal/config"
	"linkrelay/internal/credential"
	"linkrelay/internal/handler"
	"linkrelay/internal/model"
	"linkrelay/internal/mq"
	"linkrelay/internal/recorder"
	"linkrelay/internal/render"
	"linkrelay/internal/repository"
	"linkrelay/internal/rules"
	"linkrelay/internal/service"
	"linkrelay/internal/visitor"
	"linkrelay/pkg/middleware"
	"linkrelay/pkg/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout    = 10 * time.Second
	limiterSweepPeriod = time.Minute
	limiterIdleTTL     = 10 * time.Minute
)

// @title Link Relay API
// @version 1.0
// @description Short link resolution: redirects, interstitial pages, password unlocks
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.example.com/support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}

	log.Info().Msg("Server exited")
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize repositories
	store, err := repository.NewLinkRepository(&cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.AutoMigrate(ctx); err != nil {
		return err
	}

	var cache service.LinkCacheInterface
	if cfg.Database.Redis.Addr != "" {
		linkCache := repository.NewLinkCache(&cfg.Database.Redis, cfg.Cache.LinkTTL)
		defer linkCache.Close()
		cache = linkCache
	} else {
		log.Info().Msg("Redis address not set, link cache disabled")
	}

	// Visitor context
	var geo visitor.RegionLookup
	if cfg.GeoIP.DBPath != "" {
		lookup, err := visitor.OpenGeoIP(cfg.GeoIP.DBPath)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to open GeoIP database, geo targeting uses fallbacks")
		} else {
			defer lookup.Close()
			geo = lookup
		}
	}
	var visitorOpts []visitor.Option
	if cfg.GeoIP.TrustCountryHdr && cfg.GeoIP.CountryHeader != "" {
		visitorOpts = append(visitorOpts, visitor.WithCountryHeader(cfg.GeoIP.CountryHeader))
	}
	visitors := visitor.NewResolver(geo, visitorOpts...)

	// Click pipeline: RocketMQ when configured, direct store writes otherwise
	var sink recorder.Sink = recorder.NewStoreSink(store)
	var consumer mq.ConsumerInterface
	if cfg.RocketMQ.NameServer != "" {
		producer, err := mq.NewProducer(&cfg.RocketMQ)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize RocketMQ producer, writing clicks directly")
		} else {
			defer producer.Close()
			sink = producer

			c, err := mq.NewConsumer(&cfg.RocketMQ, clickHandler(store))
			if err != nil {
				log.Warn().Err(err).Msg("Failed to initialize RocketMQ consumer")
			} else {
				consumer = c
			}
		}
	}

	clicks := recorder.NewRecorder(sink, cfg.Recorder)

	// Initialize services
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}
	resolver := service.NewResolutionService(
		store,
		cache,
		credential.NewGuard(cfg.Credential.BcryptCost),
		rules.NewEvaluator(),
		renderer,
		clicks,
		cfg.Resolver,
	)

	unlockLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.UnlockRPS), cfg.RateLimit.UnlockBurst)

	router := setupRouter(cfg, resolver, renderer, visitors, clicks, unlockLimiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// stopped explicitly once the server has drained
	clicks.Start(context.Background())
	unlockLimiter.StartCleanup(gctx, limiterSweepPeriod, limiterIdleTTL)

	if consumer != nil {
		g.Go(func() error {
			if err := consumer.Subscribe(); err != nil {
				log.Error().Err(err).Msg("Failed to subscribe to RocketMQ")
				return nil
			}
			<-gctx.Done()
			return consumer.Close()
		})
	}

	g.Go(func() error {
		log.Info().Msgf("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		// requests are drained, flush the queued clicks
		clicks.Stop()
		if err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func setupRouter(
	cfg *config.Config,
	resolver service.ResolverInterface,
	renderer *render.Renderer,
	visitors *visitor.Resolver,
	clicks *recorder.Recorder,
	unlockLimiter *middleware.IPRateLimiter,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// the unlock limiter is keyed on ClientIP, so forwarded headers are only
	// honoured from configured proxies
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn().Err(err).Msg("Invalid trusted proxies, using the peer address")
		_ = router.SetTrustedProxies(nil)
	}

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	// Swagger documentation
	setupSwagger(router)

	// Health check
	healthHandler := handler.NewHealthHandler(clicks)
	router.GET("/health", healthHandler.Health)

	// Short codes
	resolveHandler := handler.NewResolveHandler(resolver, renderer, visitors, cfg.Session.Secure)
	links := router.Group("/", sessions.Sessions(cfg.Session.Name, newSessionStore(cfg.Session)))
	{
		links.GET("/:shortCode", middleware.RateLimitIf(unlockLimiter, handler.CarriesPassword), resolveHandler.Resolve)
		links.POST("/:shortCode/unlock", middleware.RateLimit(unlockLimiter), resolveHandler.Unlock)
	}

	return router
}

// newSessionStore builds the signed cookie store that remembers unlocks
func newSessionStore(cfg config.SessionConfig) sessions.Store {
	secret := cfg.Secret
	if secret == "" {
		log.Warn().Msg("Session secret not set, unlocks will not survive a restart")
		secret = util.GenerateUUID() + util.GenerateUUID()
	}

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// clickHandler persists consumed click events. Events for links that no
// longer exist are dropped instead of redelivered.
func clickHandler(store repository.LinkRepositoryInterface) mq.ClickEventHandler {
	return func(ctx context.Context, event *model.ClickEvent) error {
		err := store.RecordClick(ctx, event)
		if errors.Is(err, repository.ErrLinkNotFound) {
			return fmt.Errorf("%w: %w", mq.ErrInvalidMessage, err)
		}
		return err
	}
}

// setupLogger configures the logger
func setupLogger(mode string) {
	if mode == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	// Use console writer for pretty output
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

// setupSwagger sets up Swagger UI
func setupSwagger(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
