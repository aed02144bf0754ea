package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/shopcore/internal/authorization"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/customer"
	"github.com/smallbiznis/shopcore/internal/inventory"
	inventorydomain "github.com/smallbiznis/shopcore/internal/inventory/domain"
	"github.com/smallbiznis/shopcore/internal/laborrate"
	laborratedomain "github.com/smallbiznis/shopcore/internal/laborrate/domain"
	"github.com/smallbiznis/shopcore/internal/observability"
	obsmiddleware "github.com/smallbiznis/shopcore/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/shopcore/internal/observability/metrics"
	obstracing "github.com/smallbiznis/shopcore/internal/observability/tracing"
	"github.com/smallbiznis/shopcore/internal/part"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"github.com/smallbiznis/shopcore/internal/partsearch"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	"github.com/smallbiznis/shopcore/internal/pricingrule"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	"github.com/smallbiznis/shopcore/internal/purchaseorder"
	purchaseorderdomain "github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	"github.com/smallbiznis/shopcore/internal/shop"
	"github.com/smallbiznis/shopcore/internal/shopsettings"
	settingsdomain "github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	"github.com/smallbiznis/shopcore/internal/vendors"
	"github.com/smallbiznis/shopcore/internal/workorder"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/internal/workorderpayment"
	paymentdomain "github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	shop.Module,
	authorization.Module,
	customer.Module,
	vendors.Module,
	pricingrule.Module,
	partsearch.Module,
	part.Module,
	inventory.Module,
	purchaseorder.Module,
	laborrate.Module,
	shopsettings.Module,
	pdf.Module,
	workorder.Module,
	workorderpayment.Module,
	ratelimit.Module,
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
	return NewEngine(obsCfg, httpMetrics)
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
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	engine       *gin.Engine
	validator    *RequestValidator
	authzSvc     authorization.Service
	partSvc      partdomain.Service
	searchSvc    searchdomain.Service
	pricingSvc   pricingdomain.Service
	inventorySvc inventorydomain.Service
	orderSvc     purchaseorderdomain.Service
	laborSvc     laborratedomain.Service
	settingsSvc  settingsdomain.Service
	workOrderSvc workorderdomain.Service
	paymentSvc   paymentdomain.Service
	writeLimiter *ratelimit.ShopWriteLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	AuthzSvc     authorization.Service       `optional:"true"`
	PartSvc      partdomain.Service
	SearchSvc    searchdomain.Service
	PricingSvc   pricingdomain.Service
	InventorySvc inventorydomain.Service
	OrderSvc     purchaseorderdomain.Service
	LaborSvc     laborratedomain.Service
	SettingsSvc  settingsdomain.Service
	WorkOrderSvc workorderdomain.Service
	PaymentSvc   paymentdomain.Service
	WriteLimiter *ratelimit.ShopWriteLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics         `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		validator:    NewRequestValidator(),
		authzSvc:     p.AuthzSvc,
		partSvc:      p.PartSvc,
		searchSvc:    p.SearchSvc,
		pricingSvc:   p.PricingSvc,
		inventorySvc: p.InventorySvc,
		orderSvc:     p.OrderSvc,
		laborSvc:     p.LaborSvc,
		settingsSvc:  p.SettingsSvc,
		workOrderSvc: p.WorkOrderSvc,
		paymentSvc:   p.PaymentSvc,
		writeLimiter: p.WriteLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", ShopScope(), s.ShopWriteRateLimit())

	// -------- Parts --------
	api.GET("/parts/search", s.RequirePermission(authorization.PermPartsView), s.SearchParts)
	api.POST("/parts", s.RequirePermission(authorization.PermPartsCreate), s.CreatePart)
	api.POST("/parts/reindex", s.RequirePermission(authorization.PermPartsEdit), s.ReindexParts)
	api.GET("/parts/:id", s.RequirePermission(authorization.PermPartsView), s.GetPart)
	api.PATCH("/parts/:id", s.RequirePermission(authorization.PermPartsEdit), s.UpdatePart)
	api.POST("/parts/:id/deactivate", s.RequirePermission(authorization.PermPartsDelete), s.DeactivatePart)
	api.GET("/parts/:id/movements", s.RequirePermission(authorization.PermPartsView), s.ListPartMovements)

	// -------- Pricing --------
	api.GET("/settings/pricing-rules", s.RequirePermission(authorization.PermPartsView), s.GetPricingRules)
	api.PUT("/settings/pricing-rules", s.RequirePermission(authorization.PermSettingsManageOrg), s.SavePricingRules)
	api.POST("/pricing/quote", s.RequirePermission(authorization.PermPartsView), s.QuotePrices)

	// -------- Work order settings --------
	api.GET("/settings/work-orders", s.RequirePermission(authorization.PermWorkOrdersView), s.GetWorkOrderSettings)
	api.PUT("/settings/work-orders", s.RequirePermission(authorization.PermSettingsManageOrg), s.SaveWorkOrderSettings)
	api.GET("/labor-rates", s.RequirePermission(authorization.PermWorkOrdersView), s.ListLaborRates)
	api.PUT("/labor-rates", s.RequirePermission(authorization.PermSettingsManageOrg), s.UpsertLaborRate)
	api.DELETE("/labor-rates/:code", s.RequirePermission(authorization.PermSettingsManageOrg), s.DeleteLaborRate)

	// -------- Purchase orders --------
	api.POST("/purchase-orders", s.RequirePermission(authorization.PermPurchaseOrdersCreate), s.CreatePurchaseOrder)
	api.GET("/purchase-orders", s.RequirePermission(authorization.PermPurchaseOrdersView), s.ListPurchaseOrders)
	api.GET("/purchase-orders/:id", s.RequirePermission(authorization.PermPurchaseOrdersView), s.GetPurchaseOrder)
	api.POST("/purchase-orders/:id/receive", s.RequirePermission(authorization.PermPurchaseOrdersReceive), s.ReceivePurchaseOrder)
	api.POST("/purchase-orders/:id/deactivate", s.RequirePermission(authorization.PermPurchaseOrdersCreate), s.DeactivatePurchaseOrder)

	// -------- Work orders --------
	api.POST("/work-orders", s.RequirePermission(authorization.PermWorkOrdersCreate), s.CreateWorkOrder)
	api.GET("/work-orders", s.RequirePermission(authorization.PermWorkOrdersView), s.ListWorkOrders)
	api.GET("/work-orders/:id", s.RequirePermission(authorization.PermWorkOrdersView), s.GetWorkOrder)
	api.PUT("/work-orders/:id", s.RequirePermission(authorization.PermWorkOrdersEdit), s.UpdateWorkOrder)
	api.POST("/work-orders/:id/recalculate", s.RequirePermission(authorization.PermWorkOrdersEdit), s.RecalculateWorkOrder)
	api.PUT("/work-orders/:id/status", s.RequirePermission(authorization.PermWorkOrdersChangeStatus), s.SetWorkOrderStatus)
	api.POST("/work-orders/:id/deactivate", s.RequirePermission(authorization.PermWorkOrdersDelete), s.DeactivateWorkOrder)
	api.GET("/work-orders/:id/invoice.pdf", s.RequirePermission(authorization.PermWorkOrdersView), s.WorkOrderInvoicePDF)

	// -------- Payments --------
	api.POST("/work-orders/:id/payments", s.RequirePermission(authorization.PermPaymentsCreate), s.RecordPayment)
	api.GET("/work-orders/:id/payments", s.RequirePermission(authorization.PermPaymentsView), s.GetWorkOrderBalance)
	api.GET("/payments", s.RequirePermission(authorization.PermPaymentsView), s.ListPayments)
	api.GET("/payments/:id/receipt.pdf", s.RequirePermission(authorization.PermPaymentsView), s.PaymentReceiptPDF)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
