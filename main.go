package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booking-service/checkout"
	"booking-service/clients"
	"booking-service/config"
	"booking-service/controllers"
	"booking-service/events"
	"booking-service/flow"
	"booking-service/gateway"
	"booking-service/logger"
	"booking-service/middleware"
	"booking-service/models"
	"booking-service/routes"
	"booking-service/vendorpay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[BookingService] Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatal("[BookingService] Failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	backend := clients.NewBackendClient(cfg.BackendBaseURL)

	resolver := vendorpay.NewResolver(backend, vendorpay.Options{
		Production:      cfg.Production(),
		PlatformLiveKey: cfg.StripePublishableLive,
		PlatformTestKey: cfg.StripePublishableTest,
		TTL:             cfg.VendorInfoTTL,
	}, zlog)

	store := flow.NewStore(backend, cfg.EventLoadTimeout, zlog)

	// Reconciliation failures go to the error topic when configured,
	// otherwise to structured logs only.
	var reporter events.Reporter = &events.LogReporter{Logger: zlog}
	if cfg.ErrorTopicARN != "" {
		snsReporter, err := events.NewSNSReporter(context.Background(), cfg.AWSRegion, cfg.ErrorTopicARN, zlog)
		if err != nil {
			zlog.Warn("SNS reporter unavailable, falling back to log-only reporting", zap.Error(err))
		} else {
			reporter = snsReporter
		}
	}

	orchestrator := checkout.NewOrchestrator(
		backend,
		gateway.NewStripeGateway(cfg.StripeSecretKey),
		reporter,
		zlog,
	)

	// The capability table is filtered once here; flows never see a
	// disabled method.
	methods := models.FilterPaymentMethods([]models.PaymentMethod{
		{ID: models.PaymentMethodCard, Label: "Card", Enabled: cfg.CardPaymentsEnabled, Recommended: true},
		{ID: models.PaymentMethodTest, Label: "Test payment", Enabled: cfg.TestPaymentsEnabled && !cfg.Production(), Warning: "No real charge is made"},
	})

	fc := &controllers.FlowController{
		Store:    store,
		Resolver: resolver,
		Coupons:  backend,
		Methods:  methods,
		Logger:   zlog,
	}
	cc := &controllers.CheckoutController{
		Store:        store,
		Orchestrator: orchestrator,
		Logger:       zlog,
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.RateLimit())

	routes.Register(r, fc, cc)

	zlog.Info("booking service running", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[BookingService] Server failed: ", err)
	}
}
