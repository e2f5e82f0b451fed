package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/NAMUCU/EduFlow-sub007/internal/auth"
	"github.com/NAMUCU/EduFlow-sub007/internal/database"
	"github.com/NAMUCU/EduFlow-sub007/internal/evaluator"
	"github.com/NAMUCU/EduFlow-sub007/internal/grading"
	"github.com/NAMUCU/EduFlow-sub007/internal/middleware"
	"github.com/NAMUCU/EduFlow-sub007/internal/problems"
	"github.com/NAMUCU/EduFlow-sub007/internal/submissions"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Grading engine + essay evaluator
	essayEvaluator := evaluator.NewAIEvaluator()
	engineOpts := []grading.Option{}
	if v := os.Getenv("ESSAY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			engineOpts = append(engineOpts, grading.WithEssayTimeout(time.Duration(n)*time.Second))
		}
	}
	engine := grading.NewEngine(essayEvaluator, engineOpts...)

	// Stores, services, handlers
	problemStore := problems.NewStore(db)
	problemHandler := problems.NewHandler(problemStore)

	submissionStore := submissions.NewStore(db)
	submissionService := submissions.NewService(submissionStore, problemStore, engine)
	submissionHandler := submissions.NewHandler(submissionService)

	authHandler := auth.NewHandler(db)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/problems", problemHandler.CreateProblem).Methods("POST")
	protected.HandleFunc("/problems", problemHandler.ListProblems).Methods("GET")
	protected.HandleFunc("/problems/{id}", problemHandler.GetProblem).Methods("GET")
	protected.HandleFunc("/problems/{id}", problemHandler.DeleteProblem).Methods("DELETE")

	protected.HandleFunc("/submissions", submissionHandler.CreateSubmission).Methods("POST")
	protected.HandleFunc("/submissions", submissionHandler.ListMySubmissions).Methods("GET")
	protected.HandleFunc("/submissions/{id}/grade", submissionHandler.GradeSubmission).Methods("POST")
	protected.HandleFunc("/submissions/{id}", submissionHandler.GetSubmissionResults).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
