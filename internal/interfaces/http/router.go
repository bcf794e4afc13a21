// Package http wires the federation endpoints onto a gin engine.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/fedicore/internal/config"
	"github.com/turtacn/fedicore/internal/domain/service"
	"github.com/turtacn/fedicore/internal/infrastructure/monitoring"
	"github.com/turtacn/fedicore/internal/interfaces/http/handlers"
	"github.com/turtacn/fedicore/internal/interfaces/http/middleware"
	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
	"github.com/turtacn/fedicore/pkg/logger"
	"github.com/turtacn/fedicore/pkg/utils"
)

// Router HTTP 路由器
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	logger           logger.Logger
	tracer           service.Tracer
	operatorAuth     service.OperatorAuthenticator
	metrics          *monitoring.Metrics
	gatherer         prometheus.Gatherer
	healthHandler    *handlers.HealthHandler
	actorHandler     *handlers.ActorHandler
	webFingerHandler *handlers.WebFingerHandler
	noteHandler      *handlers.NoteHandler
	server           *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	tracer service.Tracer,
	operatorAuth service.OperatorAuthenticator,
	metrics *monitoring.Metrics,
	gatherer prometheus.Gatherer,
	healthHandler *handlers.HealthHandler,
	actorHandler *handlers.ActorHandler,
	webFingerHandler *handlers.WebFingerHandler,
	noteHandler *handlers.NoteHandler,
) *Router {
	// 设置 Gin 模式
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:           gin.New(),
		config:           cfg,
		logger:           log.WithComponent("http"),
		tracer:           tracer,
		operatorAuth:     operatorAuth,
		metrics:          metrics,
		gatherer:         gatherer,
		healthHandler:    healthHandler,
		actorHandler:     actorHandler,
		webFingerHandler: webFingerHandler,
		noteHandler:      noteHandler,
	}
	r.setupRoutes()
	return r
}

// Handler exposes the engine, e.g. for httptest.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.RecoveryMiddleware(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.ObservabilityMiddleware(r.tracer, r.metrics))
	r.engine.Use(middleware.LoggingMiddleware(r.logger))

	// Discovery documents are fetched cross-origin by web clients.
	corsConfig := cors.Config{
		AllowOrigins:  r.config.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	r.engine.Use(cors.New(corsConfig))

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	if r.config.Metrics.Enabled {
		path := utils.DefaultString(r.config.Metrics.Path, "/metrics")
		r.engine.GET(path, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.Environment != "production" {
		pprof.Register(r.engine)
	}

	// ActivityPub / WebFinger
	r.engine.GET("/.well-known/webfinger", r.webFingerHandler.Resolve)
	users := r.engine.Group("/" + constants.UsersPathSegment)
	{
		users.GET("/:username", r.actorHandler.GetActor)
	}

	// The submit API signs as the named account, so it stays off unless operator tokens
	// are configured.
	if r.config.Operator.Enabled && r.operatorAuth != nil {
		users.POST("/:username/"+constants.NotesPathSegment+"/:note_id",
			middleware.RequireOperator(r.operatorAuth, r.logger),
			r.noteHandler.SubmitNote,
		)
	} else if r.config.Operator.Enabled {
		r.logger.Warn(context.Background(), "Operator API enabled without an authenticator; submit route not registered")
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errors.ToErrorResponse(errors.ErrNotFound))
	})
}

// Start 启动 HTTP 服务器并阻塞，直到 ctx 结束后优雅关闭
func (r *Router) Start(ctx context.Context) error {
	addr := r.config.Server.Address()
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    r.config.Server.ReadTimeout,
		WriteTimeout:   r.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	r.logger.Info(ctx, "Starting HTTP server", logger.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := utils.DefaultDuration(r.config.Server.ShutdownTimeout, constants.DefaultShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Stop(shutdownCtx)
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}

	r.logger.Info(ctx, "Stopping HTTP server...")
	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "Server forced to shutdown", err)
		return err
	}
	r.logger.Info(ctx, "HTTP server stopped")
	return nil
}
