package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/orderdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/orderdesk/internal/observability/metrics"
	"github.com/smallbiznis/orderdesk/internal/order"
	orderdomain "github.com/smallbiznis/orderdesk/internal/order/domain"
	"github.com/smallbiznis/orderdesk/internal/reference"
	referencedomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	reference.Module,
	order.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	db       *gorm.DB
	orderSvc orderdomain.Service
	refrepo  referencedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	DB       *gorm.DB
	OrderSvc orderdomain.Service
	Refrepo  referencedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		db:       p.DB,
		orderSvc: p.OrderSvc,
		refrepo:  p.Refrepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PUT("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.GET("/orders/:id/history", s.ListOrderChanges)

	api.GET("/completion-options", s.ListCompletionOptions)

	// -------- Reference data --------
	api.GET("/cities", s.ListCities)
	api.GET("/cities/:id/districts", s.ListDistrictsByCity)
	api.GET("/districts", s.ListDistricts)
	api.GET("/villages", s.ListVillages)
}
