package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"rentiva/internal/api"
	"rentiva/internal/auth"
	"rentiva/internal/cache"
	"rentiva/internal/config"
	"rentiva/internal/logger"
	"rentiva/internal/pricing"
	"rentiva/internal/repository"
	"rentiva/internal/service"
)

func main() {
	godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	// The quote cache is optional: without a Redis address every search hits
	// the database.
	var quoteCache *cache.QuoteCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, search cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			quoteCache = cache.NewQuoteCache(rdb, cfg.SearchCacheTTL())
		}
		cancel()
	}

	orgRepo := repository.NewOrgRepository(db)
	carRepo := repository.NewCarRepository(db)
	extrasRepo := repository.NewExtrasRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	engine := pricing.NewEngine(pricingRepo)
	composer := pricing.NewComposer(pricingRepo)

	stripeSvc := service.NewStripeService(cfg.Stripe)
	senderSvc := service.NewSenderService(cfg.SendGrid, cfg.Twilio)

	searchSvc := service.NewSearchService(orgRepo, carRepo, extrasRepo, engine, composer, quoteCache, cfg.Search.ConcurrencyLimit, cfg.SearchCallTimeout())
	bookingSvc := service.NewBookingService(orgRepo, carRepo, extrasRepo, bookingRepo, engine, composer, stripeSvc, senderSvc)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWT)
	jobSvc := service.NewJobService(jobRepo)

	searchHandler := api.NewSearchHandler(searchSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(orgRepo, adminRepo)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)
	webhookHandler := api.NewStripeWebhookHandler(cfg.Stripe.WebhookSecret, bookingSvc)

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/orgs/{slug}/search", searchHandler.Search).Methods("POST")
	r.HandleFunc("/api/orgs/{slug}/cars/{id}/quote", searchHandler.GetCarQuote).Methods("GET")
	r.HandleFunc("/api/orgs/{slug}/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings/by-session", bookingHandler.GetBookingBySessionID).Methods("GET")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST")

	r.HandleFunc("/api/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWT.Secret))
	admin.HandleFunc("/users", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/orgs/{slug}/pricing-rules", adminHandler.ListPricingRules).Methods("GET")
	admin.HandleFunc("/orgs/{slug}/pricing-rules", adminHandler.CreatePricingRule).Methods("POST")
	admin.HandleFunc("/orgs/{slug}/pricing-rules/{id}", adminHandler.UpdatePricingRule).Methods("PUT")
	admin.HandleFunc("/orgs/{slug}/pricing-rules/{id}", adminHandler.DeletePricingRule).Methods("DELETE")
	admin.HandleFunc("/orgs/{slug}/locations/{id}/fees", adminHandler.UpdateLocationFees).Methods("PUT")
	admin.HandleFunc("/orgs/{slug}/bookings", adminHandler.ListBookings).Methods("GET")

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.Scheduler.FinishBookings, func() {
		if err := jobSvc.MarkFinishedBookings(context.Background()); err != nil {
			logger.Error("finish-bookings job failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule finish-bookings job: %v", err)
	}
	pendingMaxAge := time.Duration(cfg.Scheduler.PendingMaxAgeHours) * time.Hour
	if _, err := scheduler.AddFunc(cfg.Scheduler.PurgePendingAfter, func() {
		if err := jobSvc.PurgeStalePendingBookings(context.Background(), pendingMaxAge); err != nil {
			logger.Error("purge-pending job failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule purge-pending job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)(r)

	logger.Info("server starting", "addr", cfg.ServerAddress())
	log.Fatal(http.ListenAndServe(cfg.ServerAddress(), handlers.LoggingHandler(os.Stdout, corsHandler)))
}
