package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nicoavayu/Armado-Equipos-sub001/controller"
	"github.com/nicoavayu/Armado-Equipos-sub001/realtime"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, events *realtime.Manager, render *render.Render) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", rootHandler(ctrl, render))

	r.Route("/matches/{matchID:\\d+}", func(r chi.Router) {
		r.Get("/", getMatchHandler(ctrl, render))
		r.Post("/join", joinMatchHandler(ctrl, render))
		r.Get("/roster", getRosterHandler(ctrl, render))
		r.Get("/result", getResultHandler(ctrl, render))

		r.Post("/ballots", submitBallotsHandler(ctrl, render))
		r.Post("/surveys", submitSurveyHandler(ctrl, render))
		r.Get("/surveys/status", surveyStatusHandler(ctrl, render))
		r.Post("/absences", recordAbsenceHandler(ctrl, render))

		r.Get("/events", eventsHandler(events, render))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("armado", map[string]string{"admin": "pa55word"})) // TODO: read from config instead
		r.Use(middleware.Timeout(30 * time.Second))                                   // Set a longer timeout for /admin actions

		r.Post("/matches", createMatchHandler(ctrl, render))

		r.Route("/matches/{matchID:\\d+}", func(r chi.Router) {
			r.Post("/close-ratings", closeRatingsHandler(ctrl, render))
			r.Post("/finalize", finalizeOutcomeHandler(ctrl, render))
			r.Post("/snapshot-roster", snapshotRosterHandler(ctrl, render))
			r.Post("/snapshot-outcome", snapshotOutcomeHandler(ctrl, render))
			r.Get("/absences", evaluateAbsencesHandler(ctrl, render))
		})
	})

	return r
}
