package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports whether a dependency such as the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	pinger Pinger,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	bracketHandler *handlers.BracketHandler,
	gameHandler *handlers.GameHandler,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler(pinger))

	router.Route("/teams", func(r chi.Router) {
		r.Post("/", teamHandler.CreateTeam)
		r.Get("/{teamID}", teamHandler.GetTeam)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.CreateMatch)
		r.Get("/", matchHandler.ListMatches)

		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Post("/bracket", bracketHandler.GenerateBracket)
			r.Get("/bracket", bracketHandler.GetBracket)
			r.Get("/standings", bracketHandler.GetStandings)
			r.Post("/swiss/rounds", bracketHandler.PairNextSwissRound)
		})
	})

	router.Route("/games/{gameID}", func(r chi.Router) {
		r.Post("/result", gameHandler.SubmitResult)
		r.Post("/start", gameHandler.StartGame)
		r.Put("/schedule", gameHandler.ScheduleGame)
	})
}

func healthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				status, code = "database unavailable", http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
