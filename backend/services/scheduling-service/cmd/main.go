// coins-control/services/scheduling-service/cmd/main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/Jepierre88/coins-control/backend/shared/go-middleware"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/app"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/controllers"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/routes"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/services"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize scheduling-service:", err)
	}
	defer application.Close()

	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendgridAPIKey)
	notifier := services.NewGuestAccessNotifier(cfg, sgClient, twClient)

	resolver := services.NewRequirementsResolver(application.Backend)
	store := services.NewSchedulingStore(application.Backend)
	authService := services.NewAuthService(cfg, application.Backend)
	dashboardService := services.NewDashboardService(application.Backend, store)
	apartmentService := services.NewApartmentService(application.Backend, resolver, application.Sciener)
	accessService := services.NewAccessService(application.Backend)
	exportService := services.NewSchedulingExportService(store)
	orchestrator := services.NewSchedulingOrchestrator(
		cfg,
		resolver,
		store,
		application.Sciener,
		application.Ledger,
		notifier,
	)

	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(cfg, authService)
	buildingsController := controllers.NewBuildingsController(authService, dashboardService)
	apartmentsController := controllers.NewApartmentsController(apartmentService)
	schedulingsController := controllers.NewSchedulingsController(orchestrator, store, exportService)
	accessController := controllers.NewAccessController(accessService)

	// per-client bucket for sign-in, generate and unlock
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartSweeper(ctx.Done())
	limited := middleware.RateLimitMiddleware(limiter)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.AuthSignIn, limited(http.HandlerFunc(authController.SignInHandler))).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthSignOut, authController.SignOutHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.SessionMiddleware(cfg.RSAPublicKey, cfg.SessionEncryptionKey))

	secured.HandleFunc(routes.AuthSession, authController.SessionHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Buildings, buildingsController.ListBuildingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetrics, buildingsController.MetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetricsMonthly, buildingsController.MonthlyMetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingMetricsApartments, buildingsController.ApartmentMetricsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Apartments, apartmentsController.ListApartmentsHandler).Methods(http.MethodGet)
	secured.Handle(routes.ApartmentUnlock, limited(http.HandlerFunc(apartmentsController.UnlockHandler))).Methods(http.MethodPost)

	secured.HandleFunc(routes.SchedulingsExport, schedulingsController.ExportSchedulingsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Schedulings, schedulingsController.ListSchedulingsHandler).Methods(http.MethodGet)
	secured.Handle(routes.Schedulings, limited(http.HandlerFunc(schedulingsController.GenerateSchedulingHandler))).Methods(http.MethodPost)
	secured.HandleFunc(routes.SchedulingAccess, accessController.AccessDataHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SchedulingAccessQR, accessController.QRImageHandler).Methods(http.MethodGet)

	c := cron.New()
	if application.Ledger != nil {
		reconciler := services.NewPasscodeReconciler(cfg, application.Ledger, application.Sciener)
		if _, err := reconciler.Schedule(c); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule passcode reconciliation cron")
		}
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			utils.Logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.Fatal("scheduling-service failed to start:", err)
	}
	notifier.Wait()
	utils.Logger.Info("scheduling-service stopped")
}
