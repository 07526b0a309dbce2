package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"AINewsServer/internal/config"
	"AINewsServer/internal/infrastructure/auth"
)

// Server owns the gin engine and the HTTP listener lifecycle.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer builds the engine and registers every route.
func NewServer(cfg config.ServerConfig, handler *Handler, jwtManager *auth.JWTManager, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(CORS(cfg.CORSOrigins))

	registerRoutes(engine, handler, jwtManager)

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func registerRoutes(engine *gin.Engine, handler *Handler, jwtManager *auth.JWTManager) {
	api := engine.Group("/api")

	api.GET("", handler.Endpoints)
	api.GET("/health", handler.Health)
	api.GET("/test", handler.Health)
	api.GET("/ai-models", handler.AIModels)

	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)

	api.GET("/news", handler.News)
	api.POST("/news/refresh", handler.RefreshNews)

	user := api.Group("/user")
	user.Use(AuthRequired(jwtManager))
	user.PUT("/categories", handler.UpdateCategories)
	user.GET("/profile", handler.Profile)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
