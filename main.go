package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"safepulse/classifier"
	"safepulse/config"
	"safepulse/database"
	"safepulse/email"
	"safepulse/handlers"
	"safepulse/metrics"
	"safepulse/middleware"
	"safepulse/rabbitmq"
	"safepulse/services"
	"safepulse/sms"
	"safepulse/version"
)

const (
	EndPointHealth  = "/health"
	EndPointVersion = "/version"
	EndPointMetrics = "/metrics"

	EndPointUsers            = "/users"
	EndPointContacts         = "/contacts"
	EndPointContact          = "/contacts/:id"
	EndPointReports          = "/reports"
	EndPointReportsArea      = "/reports/area"
	EndPointReport           = "/reports/:id"
	EndPointReportVerify     = "/reports/:id/verify"
	EndPointReportSupport    = "/reports/:id/support"
	EndPointAlerts           = "/alerts"
	EndPointAlertsActive     = "/alerts/active"
	EndPointAlert            = "/alerts/:id"
	EndPointAlertVerify      = "/alerts/:id/verify"
	EndPointAlertResolve     = "/alerts/:id/resolve"
	EndPointJourneys         = "/journeys"
	EndPointJourney          = "/journeys/:id"
	EndPointJourneyLocation  = "/journeys/:id/location"
	EndPointJourneyEnd       = "/journeys/:id/end"
	EndPointJourneyEmergency = "/journeys/:id/emergency"
	EndPointSos              = "/sos"
	EndPointSosHistory       = "/sos/history"
	EndPointVolunteers       = "/volunteers"
	EndPointMapReports       = "/map/reports"
	EndPointMapHeat          = "/map/heat"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	log.Info("Starting the safepulse service...")

	// Create database connection
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create or verify the schema
	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	dbService := database.NewService(db)

	// Register prometheus collectors
	metrics.Register()

	// Outbound collaborators
	classifierClient := classifier.New(cfg.ClassifierProvider, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ClassifierTimeout)
	log.Infof("Classifier provider: %s", classifierClient.SourceName())

	smsSender := sms.NewSender(cfg.TwilioAccountSid, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.SmsTimeout)
	if smsSender.Simulated() {
		log.Warn("Twilio credentials not configured, SMS notifications run in simulation mode")
	}

	mailSender := email.NewSender(cfg.SendGridAPIKey, cfg.SendGridFromName, cfg.SendGridFromEmail)
	events := rabbitmq.NewEventBus(cfg.AmqpURL, cfg.AmqpExchange)

	// Domain services
	sosService := services.NewSosService(dbService, smsSender, events)
	reportService := services.NewReportService(dbService, classifierClient, mailSender, events)
	alertService := services.NewAlertService(dbService, classifierClient, smsSender, mailSender, events)
	journeyService := services.NewJourneyService(dbService, classifierClient, sosService, events)

	// Seed the active journeys gauge from persisted state
	if active, err := dbService.CountActiveJourneys(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to count active journeys")
	} else {
		metrics.JourneysActive.Set(float64(active))
	}

	h := handlers.NewSafetyHandler(dbService, reportService, alertService, journeyService, sosService)

	// Setup HTTP server
	router := setupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown the HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	events.Close()

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, h *handlers.SafetyHandler) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Add security headers
	router.Use(middleware.SecurityHeaders())

	// API routes
	api := router.Group("/api/v3")
	{
		api.POST(EndPointUsers, h.RegisterUser)
		api.POST(EndPointContacts, h.AddContact)
		api.GET(EndPointContacts, h.GetContacts)
		api.DELETE(EndPointContact, h.DeleteContact)

		// Submission endpoints share a per-IP rate limit
		submit := api.Group("/")
		submit.Use(middleware.SubmitRateLimit(cfg.SubmitRateLimitPerMinute))
		{
			submit.POST(EndPointReports, h.SubmitReport)
			submit.POST(EndPointAlerts, h.CreateAlert)
			submit.POST(EndPointSos, h.TriggerSos)
		}

		api.GET(EndPointReportsArea, h.GetReportsByArea)
		api.GET(EndPointReport, h.GetReport)
		api.POST(EndPointReportVerify, h.VerifyReport)
		api.GET(EndPointReportSupport, h.GetCommunitySupport)

		api.GET(EndPointAlertsActive, h.GetActiveAlerts)
		api.GET(EndPointAlert, h.GetAlert)
		api.POST(EndPointAlertVerify, h.VerifyAlert)
		api.POST(EndPointAlertResolve, h.ResolveAlert)

		api.POST(EndPointJourneys, h.StartJourney)
		api.GET(EndPointJourney, h.GetJourney)
		api.POST(EndPointJourneyLocation, h.UpdateJourneyLocation)
		api.POST(EndPointJourneyEnd, h.EndJourney)
		api.POST(EndPointJourneyEmergency, h.TriggerJourneyEmergency)

		api.GET(EndPointSosHistory, h.GetSosHistory)
		api.GET(EndPointVolunteers, h.GetVolunteers)

		api.GET(EndPointMapReports, h.GetMapReports)
		api.GET(EndPointMapHeat, h.GetMapHeat)
	}

	// Root health check
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointVersion, func(c *gin.Context) {
		c.JSON(200, version.Get("safepulse"))
	})
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	return router
}
