package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lankaconnect/eventpricing/internal/config"
	"github.com/lankaconnect/eventpricing/internal/observability"
	obsmiddleware "github.com/lankaconnect/eventpricing/internal/observability/logger"
	obsmetrics "github.com/lankaconnect/eventpricing/internal/observability/metrics"
	obstracing "github.com/lankaconnect/eventpricing/internal/observability/tracing"
	"github.com/lankaconnect/eventpricing/internal/pricing"
	pricingdomain "github.com/lankaconnect/eventpricing/internal/pricing/domain"
	"github.com/lankaconnect/eventpricing/internal/ratelimit"
	"github.com/lankaconnect/eventpricing/internal/revenue"
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"github.com/lankaconnect/eventpricing/internal/taxrate"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	taxrate.Module,
	revenue.Module,
	pricing.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine     *gin.Engine
	pricingSvc pricingdomain.Service
	revenueSvc revenuedomain.Service
	taxRateSvc taxratedomain.Service
	quoteLimit ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	PricingSvc pricingdomain.Service
	RevenueSvc revenuedomain.Service
	TaxRateSvc taxratedomain.Service
	QuoteLimit ratelimit.Limiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		pricingSvc: p.PricingSvc,
		revenueSvc: p.RevenueSvc,
		taxRateSvc: p.TaxRateSvc,
		quoteLimit: p.QuoteLimit,
	}
	if svc.quoteLimit == nil {
		svc.quoteLimit = ratelimit.AllowAll()
	}
	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Pricing --------
	api.POST("/pricing/validate", s.ValidatePricing)
	api.PUT("/events/:event_id/pricing", s.SaveEventPricing)
	api.GET("/events/:event_id/pricing", s.GetEventPricing)
	api.POST("/events/:event_id/quote", s.rateLimitQuotes(), s.QuoteRegistration)

	// -------- Revenue --------
	api.POST("/revenue/breakdown", s.CalculateBreakdown)
	api.GET("/commission-settings", s.GetCommissionSettings)

	// -------- Tax rates --------
	api.GET("/tax-rates", s.ListTaxRates)
	api.GET("/tax-rates/:state", s.GetTaxRate)
}
