package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/ashankshah/solace/internal/repository"
	"github.com/ashankshah/solace/internal/service"
	"github.com/ashankshah/solace/internal/transport/rest/handler"
	"github.com/ashankshah/solace/internal/transport/rest/middleware"
	"github.com/ashankshah/solace/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ClinicService     *service.ClinicService
	IntakeService     *service.IntakeService
	SubmissionService *service.SubmissionService
	AccountRepo       repository.AccountRepo
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	clinicHandler := handler.NewClinicHandler(c.ClinicService)
	intakeHandler := handler.NewIntakeHandler(c.IntakeService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)
	accountHandler := handler.NewAccountHandler(c.AccountRepo)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/clinics/{code}/intake", intakeHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/clinics/{code}", wsHandler.ClinicWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Clinician routes (require clinician auth)
	clinicianRoutes := v1.NewRoute().Subrouter()
	clinicianRoutes.Use(authMW.RequireClinician)

	clinicianRoutes.HandleFunc("/clinics", clinicHandler.Create).Methods("POST", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics", clinicHandler.List).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}", clinicHandler.Get).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}", clinicHandler.Update).Methods("PUT", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}", clinicHandler.Delete).Methods("DELETE", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}/layout", clinicHandler.UpdateLayout).Methods("PUT", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}/sessions", intakeHandler.Sessions).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/clinics/{code}/submissions", submissionHandler.ListByClinic).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/submissions/{id}", submissionHandler.Get).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/submissions/{id}", submissionHandler.Delete).Methods("DELETE", "OPTIONS")
	clinicianRoutes.HandleFunc("/accounts", accountHandler.Create).Methods("POST", "OPTIONS")
	clinicianRoutes.HandleFunc("/accounts", accountHandler.List).Methods("GET", "OPTIONS")
	clinicianRoutes.HandleFunc("/accounts/{id}", accountHandler.Update).Methods("PUT", "OPTIONS")
	clinicianRoutes.HandleFunc("/accounts/{id}", accountHandler.Delete).Methods("DELETE", "OPTIONS")

	// Patient routes (require session-scoped patient auth)
	patientRoutes := v1.NewRoute().Subrouter()
	patientRoutes.Use(authMW.RequirePatient)

	patientRoutes.HandleFunc("/intake/current", intakeHandler.Current).Methods("GET", "OPTIONS")
	patientRoutes.HandleFunc("/intake/answers", intakeHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	patientRoutes.HandleFunc("/intake/back", intakeHandler.Back).Methods("POST", "OPTIONS")
	patientRoutes.HandleFunc("/intake/skip", intakeHandler.Skip).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
