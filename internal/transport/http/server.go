package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AndreyStartsev/heb-tes-project/internal/app"
)

// Server wires the quiz use cases into a chi router: REST endpoints for the
// lobby and session flow, plus a websocket endpoint for interactive play.
type Server struct {
	service *app.QuizService
	router  *chi.Mux
}

func NewServer(service *app.QuizService) *Server {
	s := &Server{service: service}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/quizzes", s.handleListQuizzes)
		r.Get("/quizzes/today", s.handleTodayQuiz)
		r.Get("/results", s.handleResults)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Post("/{sessionID}/attempts", s.handleEvaluate)
			r.Post("/{sessionID}/reset", s.handleReset)
		})
	})

	wsHandler := NewWSHandler(s.service)
	r.Get("/ws", wsHandler.ServeWS)

	s.router = r
}
