package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/gymstats/exercises"
	gymstatsmcp "github.com/2beens/fitdash/internal/gymstats/mcp"
	"github.com/2beens/fitdash/internal/gymstats/workouts"
	"github.com/2beens/fitdash/internal/health"
	"github.com/2beens/fitdash/internal/middleware"
	"github.com/2beens/fitdash/internal/sleep"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/weight"
	"github.com/2beens/fitdash/pkg"
)

const (
	maxRequestBodyBytes = 1 << 20
	readinessTimeout    = 3 * time.Second
)

// swapped in tests
var tracingSetup = tracing.HoneycombSetup

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	tokenService *auth.TokenService

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     cfg.PostgresPassword,
		DBSSLMode:      cfg.PostgresSSLMode,
		DBTimeZone:     cfg.PostgresTimeZone,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	// no point in serving a read-only API without its database
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitdash", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis, login rate limiting will fail: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracingSetup(params.HoneycombTracingEnabled, "fitdash-backend", rdb)
	if err != nil {
		if rdbErr := rdb.Close(); rdbErr != nil {
			log.Errorf("close redis client: %s", rdbErr)
		}
		dbPool.Close()
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	if cfg.AdminPasswordHash == "" {
		log.Errorln("ADMIN_PASSWORD_HASH not set, every login attempt will fail")
	}

	return &Server{
		config:       cfg,
		dbPool:       dbPool,
		redisClient:  rdb,
		rateLimiter:  redis_rate.NewLimiter(rdb),
		tokenService: auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	errWriter := pkg.NewErrorWriter(s.config.Environment)

	healthHandler := health.NewHandler(s.dbPool, s.redisClient, readinessTimeout)
	healthHandler.SetupRoutes(r)

	apiRouter := r.PathPrefix("/api").Subrouter()

	authHandler := auth.NewHandler(s.tokenService, s.config.AdminPasswordHash, s.metricsManager, errWriter)
	authHandler.SetupRoutes(apiRouter, s.rateLimiter, middleware.RateLimitParams{
		Name:    "login",
		Allowed: s.config.LoginRateLimitAllowed,
		Window:  s.config.LoginRateLimitWindow,
		Message: "Too many login attempts, please try again later",

		TrustProxyHeaders: s.config.TrustProxyHeaders,
	})

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workouts.NewHandler(workoutsRepo, errWriter).SetupRoutes(apiRouter)

	exercisesRepo := exercises.NewRepo(s.dbPool)
	exercises.NewHandler(exercisesRepo, errWriter).SetupRoutes(apiRouter)

	sleepRepo := sleep.NewRepo(s.dbPool)
	sleep.NewHandler(sleepRepo, errWriter).SetupRoutes(apiRouter)

	weightRepo := weight.NewRepo(s.dbPool)
	weight.NewHandler(weightRepo, errWriter).SetupRoutes(apiRouter)

	mcpServer := gymstatsmcp.NewServer(gymstatsmcp.Repos{
		Schema:    gymstatsmcp.NewPoolSchemaRepo(s.dbPool),
		Workouts:  workoutsRepo,
		Exercises: exercisesRepo,
		Sleep:     sleepRepo,
		Weight:    weightRepo,
	}, s.metricsManager)
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)).Name("mcp")

	// all the rest - unhandled paths
	notFoundHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSON(w, http.StatusNotFound, pkg.ErrorResponse{
			Error: "Route not found",
			Path:  r.URL.Path,
		})
	})
	methodNotAllowedHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSON(w, http.StatusMethodNotAllowed, pkg.ErrorResponse{
			Error: "Method not allowed",
			Path:  r.URL.Path,
		})
	})
	r.NotFoundHandler = notFoundHandler
	r.MethodNotAllowedHandler = methodNotAllowedHandler
	// mux resolves a miss inside a subrouter on that subrouter, never on the root
	if err := r.Walk(func(_ *mux.Route, router *mux.Router, _ []*mux.Route) error {
		router.NotFoundHandler = notFoundHandler
		router.MethodNotAllowedHandler = methodNotAllowedHandler
		return nil
	}); err != nil {
		log.Errorf("set unhandled path handlers: %s", err)
	}

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokenService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		// MCP streams responses, so no WriteTimeout
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the pool and redis go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
