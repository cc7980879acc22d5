package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/bikeshare-dashboard/api/handlers"
	"github.com/OldStager01/bikeshare-dashboard/api/middleware"
	"github.com/OldStager01/bikeshare-dashboard/api/websocket"
	"github.com/OldStager01/bikeshare-dashboard/internal/charts"
	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
)

// Routes that run the full clustering pipeline get their own tighter limit.
const heavyRouteLimit = 30

// Dependencies are the long-lived components the server reads from.
type Dependencies struct {
	Store   *session.Store
	Builder *dashboard.Builder
	Events  *events.EventBus
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.APIConfig
	deps       Dependencies
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
	limiter    *middleware.RateLimiter
	stop       context.CancelFunc
}

func NewServer(cfg config.APIConfig, wsCfg *config.WebSocketConfig, mode string, deps Dependencies) *Server {
	switch mode {
	case "development":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	wsHub := websocket.NewHub(wsCfg)

	s := &Server{
		router:  router,
		config:  cfg,
		deps:    deps,
		wsHub:   wsHub,
		limiter: middleware.NewRateLimiter(cfg.RateLimit, time.Minute),
	}

	s.setupMiddleware()
	s.setupRoutes()

	go wsHub.Run()

	// Dataset reloads and failures are pushed to open dashboards.
	if deps.Events != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, deps.Events.SubscribeAll())
		s.wsBridge.Start()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go s.cleanupLoop(ctx)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(middleware.CORSFromConfig(s.config.CORS)))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.RateLimit(s.limiter))
}

func (s *Server) setupRoutes() {
	s.router.SetHTMLTemplate(handlers.Templates())

	healthHandler := handlers.NewHealthHandler(s.deps.Store)
	dashboardHandler := handlers.NewDashboardHandler(s.deps.Builder)
	pageHandler := handlers.NewPageHandler(s.deps.Builder, charts.NewRenderer())

	heavy := middleware.NewEndpointRateLimiter()
	for _, path := range []string{"/", "/charts", "/api/v1/dashboard", "/api/v1/segments/rfm", "/api/v1/segments/hourly"} {
		heavy.AddEndpoint(path, heavyRouteLimit, time.Minute)
	}
	s.router.Use(heavy.Middleware())

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	s.router.GET("/", pageHandler.Index)
	s.router.GET("/charts", pageHandler.Charts)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/options", dashboardHandler.Options)
		v1.GET("/dashboard", dashboardHandler.Dashboard)
		v1.GET("/summary", dashboardHandler.Summary)
		v1.GET("/charts/weather", dashboardHandler.WeatherChart)
		v1.GET("/charts/daytype", dashboardHandler.DayTypeChart)
		v1.GET("/segments/rfm", dashboardHandler.RFM)
		v1.GET("/segments/hourly", dashboardHandler.Hourly)
		v1.GET("/map", dashboardHandler.Map)
	}
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Cleanup()
		}
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	idle := s.config.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.wsHub.Stop()
	s.stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
