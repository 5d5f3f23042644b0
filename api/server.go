package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/grid-fault-predictor/api/handlers"
	"github.com/OldStager01/grid-fault-predictor/api/middleware"
	"github.com/OldStager01/grid-fault-predictor/api/websocket"
	_ "github.com/OldStager01/grid-fault-predictor/docs"
	"github.com/OldStager01/grid-fault-predictor/internal/events"
	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/metrics"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	bus        *events.EventBus
	publisher  *events.Publisher
	predictor  handlers.Predictor
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
	wsCancel   context.CancelFunc
}

// NewServer wires the HTTP surface. The live feed subscribes to bus when
// websockets are enabled.
func NewServer(cfg *config.Config, predictor handlers.Predictor, bus *events.EventBus) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		router:    gin.New(),
		config:    cfg,
		bus:       bus,
		predictor: predictor,
	}
	if bus != nil {
		s.publisher = events.NewPublisher(bus)
	}

	if cfg.WebSocket.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		s.wsCancel = cancel
		s.wsHub = websocket.NewHub(&cfg.WebSocket)
		s.wsHub.Start(ctx)

		if bus != nil {
			s.wsBridge = websocket.NewEventBridge(s.wsHub, bus.SubscribeAll())
			s.wsBridge.Start()
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(s.recover))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(s.config.API.CORS))
	s.router.Use(middleware.RequestSizeLimit(s.config.API.MaxBodyBytes))

	if s.config.API.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(s.config.API.RateLimit, s.config.API.RateBurst)
		s.router.Use(middleware.RateLimit(limiter))
	}
}

func (s *Server) recover(c *gin.Context, recovered interface{}) {
	err := fmt.Errorf("panic: %v", recovered)
	logger.ErrorCtxf(c.Request.Context(), "Recovered from %v", err)
	if s.publisher != nil {
		s.publisher.WithTraceID(middleware.GetTraceID(c)).Error("request handler panicked", err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, handlers.ErrorResponse{Error: "internal server error"})
}

func (s *Server) setupRoutes() {
	checks := map[string]handlers.Check{}
	if s.wsHub != nil {
		checks["websocket"] = func(context.Context) error {
			if !s.wsHub.Running() {
				return errors.New("hub not running")
			}
			return nil
		}
	}
	healthHandler := handlers.NewHealthHandler(checks)
	predictHandler := handlers.NewPredictHandler(s.predictor, s.config.Validation)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.GET("/metrics", gin.WrapH(metrics.Get().Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/predict", predictHandler.Predict)
		api.GET("/model-info", handlers.GetModelInfo)
	}

	if s.wsHub != nil {
		s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub, websocket.OriginChecker(s.config.API.CORS.AllowedOrigins)))
	}

	if s.config.API.EnableDocs {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  s.config.API.IdleTimeout,
	}

	logger.Infof("API server listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	if s.wsCancel != nil {
		s.wsCancel()
		select {
		case <-s.wsHub.Done():
		case <-ctx.Done():
		}
	}

	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
