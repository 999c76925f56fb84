package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"swiss-tournament-system/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateTournamentHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/standings", tournamentHandler.StandingsHandler)
			r.Post("/rounds", tournamentHandler.BeginRoundHandler)
			r.Post("/results", tournamentHandler.ReportResultHandler)
			r.Post("/bye", tournamentHandler.ReportByeHandler)
			r.Post("/finish", tournamentHandler.FinishHandler)
			r.Delete("/", tournamentHandler.AbandonHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
