package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billhub/internal/auth"
	authdomain "github.com/smallbiznis/billhub/internal/auth/domain"
	"github.com/smallbiznis/billhub/internal/authorization"
	"github.com/smallbiznis/billhub/internal/bill"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/billimport"
	billimportdomain "github.com/smallbiznis/billhub/internal/billimport/domain"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/observability"
	obsmiddleware "github.com/smallbiznis/billhub/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/billhub/internal/observability/metrics"
	obstracing "github.com/smallbiznis/billhub/internal/observability/tracing"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	"github.com/smallbiznis/billhub/internal/subscriber"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func init() {
	// Amounts are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	subscriber.Module,
	ratelimit.Module,
	bill.Module,
	billimport.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, clk clock.Clock) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware(clk))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, clk clock.Clock) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, clk)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	authsvc       authdomain.Service
	authzSvc      authorization.Service
	billSvc       billdomain.Service
	importSvc     billimportdomain.Service
	subscriberSvc subscriberdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Authsvc       authdomain.Service
	AuthzSvc      authorization.Service
	BillSvc       billdomain.Service
	ImportSvc     billimportdomain.Service
	SubscriberSvc subscriberdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		authsvc:       p.Authsvc,
		authzSvc:      p.AuthzSvc,
		billSvc:       p.BillSvc,
		importSvc:     p.ImportSvc,
		subscriberSvc: p.SubscriberSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()
	svc.registerBankingRoutes()
	svc.registerMobileRoutes()
	svc.registerWebsiteRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/api/v1/auth")

	auth.POST("/login", s.Login)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/v1/admin")

	admin.POST("/add-bill", s.RequireRole(authorization.ObjectBill, authorization.ActionBillCreate), s.AddBill)
	admin.POST("/add-bill-batch", s.RequireRole(authorization.ObjectBill, authorization.ActionBillImport), s.AddBillBatch)
	admin.GET("/subscribers/:subscriberNo", s.RequireRole(authorization.ObjectSubscriber, authorization.ActionSubscriberView), s.GetSubscriber)
}

func (s *Server) registerBankingRoutes() {
	banking := s.engine.Group("/api/v1/banking")

	banking.GET("/query-bill", s.RequireRole(authorization.ObjectBill, authorization.ActionBillListUnpaid), s.QueryUnpaidBills)
}

func (s *Server) registerMobileRoutes() {
	mobile := s.engine.Group("/api/v1/mobile")

	mobile.GET("/query-bill", s.RequireRole(authorization.ObjectBill, authorization.ActionBillSummary), s.QueryBill)
	mobile.GET("/query-bill-detailed", s.RequireRole(authorization.ObjectBill, authorization.ActionBillDetail), s.QueryBillDetailed)
}

func (s *Server) registerWebsiteRoutes() {
	website := s.engine.Group("/api/v1/website")

	website.POST("/pay-bill", s.PayBill)
}
