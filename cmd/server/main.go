package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashankshah/solace/internal/cache"
	"github.com/ashankshah/solace/internal/config"
	"github.com/ashankshah/solace/internal/interview"
	"github.com/ashankshah/solace/internal/repository"
	"github.com/ashankshah/solace/internal/service"
	"github.com/ashankshah/solace/internal/transport/rest"
	"github.com/ashankshah/solace/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Oracle config
	oracleCfg := config.DefaultOracleConfig()
	log.Printf("Oracle config:")
	log.Printf("  Model: %s", oracleCfg.Model)
	if oracleCfg.IsEnabled() {
		log.Println("  API key: configured")
	} else {
		log.Println("  API key: NOT SET (interviews will run on the fallback script)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories
	clinicRepo := repository.NewClinicRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	accountRepo := repository.NewAccountRepo(db)

	// Caches
	clinicCache := cache.NewClinicCache(rdb)
	sessionCache := cache.NewSessionCache(rdb)

	// Services
	authSvc := service.NewAuthService()
	clinicSvc := service.NewClinicService(clinicRepo, clinicCache)
	submissionSvc := service.NewSubmissionService(submissionRepo)
	oracle := interview.NewGeminiOracle(oracleCfg)
	intakeSvc := service.NewIntakeService(clinicSvc, submissionSvc, authSvc, sessionCache, oracle)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	intakeSvc.SetBroadcaster(wsHub)

	// Router
	container := &rest.Container{
		AuthService:       authSvc,
		ClinicService:     clinicSvc,
		IntakeService:     intakeSvc,
		SubmissionService: submissionSvc,
		AccountRepo:       accountRepo,
		WSHub:             wsHub,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/clinics")
		log.Println("  POST /v1/clinics/{code}/intake")
		log.Println("  GET/POST /v1/intake/{current,answers,back,skip}")
		log.Println("  GET  /v1/clinics/{code}/submissions")
		log.Println("  WS   /v1/ws/clinics/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
