package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jobhelper/backend/repository"
	ws "github.com/jobhelper/backend/websocket"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config *Config
	gormDB *repository.GORMRepository
	convDB *repository.ConversationRepository
	rawDB  interface{} // Raw GORM DB, kept for the health check

	geminiService    *GeminiService
	groqService      *GroqService
	extractorService *ExtractorService
	storageService   *StorageService

	interviewService *InterviewService
	trainingService  *TrainingService
	atsService       *ATSService
	analysisService  *AnalysisService
	examService      *ExamService
	examWorker       *ExamWorker

	authService        *AuthService
	authEndpoints      *AuthEndpoints
	profileEndpoints   *ProfileEndpoints
	interviewEndpoints *InterviewEndpoints
	trainingEndpoints  *TrainingEndpoints
	atsEndpoints       *ATSEndpoints
	analysisEndpoints  *AnalysisEndpoints
	examEndpoints      *ExamEndpoints

	websocketHandler *WebSocketHandler
	wsHub            *ws.Hub

	workerCancel context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{config: config}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *repository.GORMRepository, convDB *repository.ConversationRepository, rawDB interface{}) {
	s.gormDB = db
	s.convDB = convDB
	s.rawDB = rawDB
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	// AI gateways
	if s.config.AI.GeminiAPIKey != "" {
		s.geminiService = NewGeminiService(s.config.AI.GeminiAPIKey, s.config.AI.GeminiModel)
		slog.Info("Gemini service initialized", "model", s.config.AI.GeminiModel)
	}
	if s.config.AI.GroqAPIKey != "" {
		s.groqService = NewGroqService(s.config.AI.GroqAPIKey, s.config.AI.GroqBaseURL, s.config.AI.GroqModel)
		slog.Info("Groq service initialized", "model", s.config.AI.GroqModel)
	}

	// Resume intake
	s.extractorService = NewExtractorService()
	storage, err := NewStorageService(s.config.Storage.UploadDir)
	if err != nil {
		return err
	}
	s.storageService = storage

	// WebSocket hub runs regardless of AI availability
	s.wsHub = ws.NewHub()
	go s.wsHub.Run()

	// Conversation services
	if s.convDB != nil && s.geminiService != nil {
		s.interviewService = NewInterviewService(s.convDB, s.geminiService, s.wsHub)
		s.trainingService = NewTrainingService(s.convDB, s.geminiService, s.wsHub)
		slog.Info("Conversation services initialized")
	}

	// Resume scoring services
	if s.groqService != nil {
		s.atsService = NewATSService(s.groqService)
		s.analysisService = NewAnalysisService(s.groqService)
		slog.Info("Resume scoring services initialized")
	}

	// Exam pipeline
	if s.gormDB != nil && s.geminiService != nil {
		s.examService = NewExamService(s.gormDB, s.geminiService, s.config.Exam.QuestionsPerExam)
		s.examWorker = NewExamWorker(s.gormDB, s.examService, s.config.Exam.Workers)

		ctx, cancel := context.WithCancel(context.Background())
		s.workerCancel = cancel
		s.examWorker.Start(ctx)
		slog.Info("Exam pipeline initialized", "workers", s.config.Exam.Workers)
	}

	// Authentication and endpoint groups
	if s.config.JWT.Secret != "" && s.gormDB != nil {
		s.authService = NewAuthService(s.gormDB, s.config.JWT.Secret)
		s.authEndpoints = NewAuthEndpoints(s.authService)
		s.profileEndpoints = NewProfileEndpoints(s.gormDB, s.storageService, s.extractorService)
		if s.interviewService != nil {
			s.interviewEndpoints = NewInterviewEndpoints(s.gormDB, s.convDB, s.interviewService)
			s.trainingEndpoints = NewTrainingEndpoints(s.gormDB, s.convDB, s.trainingService)
		}
		if s.atsService != nil {
			s.atsEndpoints = NewATSEndpoints(s.gormDB, s.atsService)
			s.analysisEndpoints = NewAnalysisEndpoints(s.gormDB, s.analysisService)
		}
		if s.examService != nil {
			s.examEndpoints = NewExamEndpoints(s.gormDB, s.examService, s.examWorker)
		}
		slog.Info("Authentication service initialized")
	}

	if s.convDB != nil {
		s.websocketHandler = NewWebSocketHandler(s.convDB, s.wsHub, s.config.WebSocket.AllowedOrigins)
	}

	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		// Authentication routes
		if s.authEndpoints != nil {
			r.Route("/auth", func(r chi.Router) {
				// Public auth routes (no middleware)
				r.Post("/login", s.authEndpoints.LoginHandler)
				r.Post("/signup", s.authEndpoints.SignupHandler)
				r.Post("/refresh", s.authEndpoints.RefreshHandler)

				// Protected auth routes (with middleware)
				r.Group(func(r chi.Router) {
					r.Use(s.authService.Middleware)
					r.Post("/logout", s.authEndpoints.LogoutHandler)
					r.Get("/me", s.authEndpoints.MeHandler)
				})
			})
		}

		// Everything else requires a logged-in user
		if s.authService != nil {
			r.Group(func(r chi.Router) {
				r.Use(s.authService.Middleware)

				if s.websocketHandler != nil {
					r.Get("/ws", s.websocketHandler.TranscriptHandler)
				}
				if s.profileEndpoints != nil {
					s.profileEndpoints.RegisterRoutes(r)
				}
				if s.interviewEndpoints != nil {
					s.interviewEndpoints.RegisterRoutes(r)
					s.trainingEndpoints.RegisterRoutes(r)
				}
				if s.atsEndpoints != nil {
					s.atsEndpoints.RegisterRoutes(r)
					s.analysisEndpoints.RegisterRoutes(r)
				}
				if s.examEndpoints != nil {
					s.examEndpoints.RegisterRoutes(r)
				}
			})
		}
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	if s.examWorker != nil {
		s.examWorker.Stop()
	}
	if s.workerCancel != nil {
		s.workerCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	// If no allowed origins are configured, deny all requests for security
	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	// Parse allowed origins (comma-separated list)
	allowedOrigins := strings.Split(allowedOriginsStr, ",")

	// Trim whitespace from origins
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	// Check if origin is in allowed list
	for _, allowed := range allowedOrigins {
		if allowed == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.rawDB != nil {
		if gormDB, ok := s.rawDB.(*gorm.DB); ok {
			if sqlDB, err := gormDB.DB(); err == nil {
				if err := sqlDB.Ping(); err != nil {
					dbStatus = "down"
					status = "degraded"
				} else {
					dbStatus = "up"
				}
			} else {
				dbStatus = "down"
				status = "degraded"
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"API v1","version":"1.0.0"}`))
}
