package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"github.com/turhan-exe/Soccer-React-sub000/internal/config"
	"github.com/turhan-exe/Soccer-React-sub000/internal/httputil"
	"github.com/turhan-exe/Soccer-React-sub000/internal/middleware"
	"github.com/turhan-exe/Soccer-React-sub000/internal/service"
	"github.com/turhan-exe/Soccer-React-sub000/internal/store"
	"github.com/turhan-exe/Soccer-React-sub000/views"
	"golang.org/x/time/rate"
)

const previewSlug = "preview"

type application struct {
	tournaments  *service.TournamentService
	matches      *service.MatchService
	participants *service.ParticipantService
}

func newApplication(database *sqlx.DB, presets config.Presets, clock clockwork.Clock) *application {
	tournamentStore := store.NewTournamentStore(database)
	participants := service.NewParticipantService(database, store.NewStandingsStore(database), presets.Champions.QualifiersPerLeague)

	return &application{
		tournaments:  service.NewTournamentService(database, tournamentStore, participants, presets, clock),
		matches:      service.NewMatchService(database, tournamentStore),
		participants: participants,
	}
}

type routerConfig struct {
	AllowedOrigins []string
	// Shared across every client; nil disables write limiting
	WriteLimiter *rate.Limiter
}

func newRouter(app *application, cfg routerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimitWrites(cfg.WriteLimiter))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/preview", func(w http.ResponseWriter, r *http.Request) {
		var req knockoutRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		opts, err := req.options()
		if err != nil {
			writeServiceError(w, "Failed to preview bracket", err)
			return
		}
		if opts.Slug == "" {
			opts.Slug = previewSlug
		}

		b, err := app.tournaments.Preview(req.Participants, opts)
		if err != nil {
			writeServiceError(w, "Failed to preview bracket", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, b)
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := app.tournaments.List(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list tournaments", err)
				return
			}
			if tournaments == nil {
				tournaments = []store.Tournament{}
			}
			httputil.WriteJSON(w, http.StatusOK, tournaments)
		})

		r.Post("/knockout", func(w http.ResponseWriter, r *http.Request) {
			var req knockoutRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			opts, err := req.options()
			if err != nil {
				writeServiceError(w, "Failed to create tournament", err)
				return
			}

			data, err := app.tournaments.CreateKnockout(r.Context(), req.Participants, opts)
			if err != nil {
				writeServiceError(w, "Failed to create tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, newTournamentResponse(data))
		})

		r.Post("/champions", func(w http.ResponseWriter, r *http.Request) {
			var req championsRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			champions, err := req.toService()
			if err != nil {
				writeServiceError(w, "Failed to create champions tournament", err)
				return
			}

			data, err := app.tournaments.CreateChampions(r.Context(), champions)
			if err != nil {
				writeServiceError(w, "Failed to create champions tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, newTournamentResponse(data))
		})

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				data, err := app.tournaments.Get(r.Context(), chi.URLParam(r, "slug"))
				if err != nil {
					writeServiceError(w, "Failed to get tournament", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, newTournamentResponse(data))
			})

			r.Get("/view", func(w http.ResponseWriter, r *http.Request) {
				data, err := app.tournaments.Get(r.Context(), chi.URLParam(r, "slug"))
				if err != nil {
					writeServiceError(w, "Failed to get tournament", err)
					return
				}
				page := views.BracketPage(views.PrepareBracketData(data.Bracket, data.Results))
				if err := views.Render(w, r, http.StatusOK, page); err != nil {
					httputil.InternalServerError(w, "Failed to render bracket", err)
				}
			})

			r.Post("/results", func(w http.ResponseWriter, r *http.Request) {
				var result bracket.Result
				if err := httputil.DecodeJSON(w, r, &result); err != nil {
					httputil.BadRequest(w, err.Error(), err)
					return
				}

				slug := chi.URLParam(r, "slug")
				if err := app.matches.RecordResult(r.Context(), slug, result); err != nil {
					writeServiceError(w, "Failed to record result", err)
					return
				}
				httputil.WriteJSON(w, http.StatusCreated, result)
			})

			r.Post("/conference", func(w http.ResponseWriter, r *http.Request) {
				var req conferenceRequest
				if err := httputil.DecodeJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, err.Error(), err)
					return
				}
				opts, err := req.options()
				if err != nil {
					writeServiceError(w, "Failed to create conference tournament", err)
					return
				}

				data, err := app.tournaments.CreateConference(r.Context(), chi.URLParam(r, "slug"), opts)
				if err != nil {
					writeServiceError(w, "Failed to create conference tournament", err)
					return
				}
				httputil.WriteJSON(w, http.StatusCreated, newTournamentResponse(data))
			})
		})
	})

	r.Route("/leagues/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			data, err := app.participants.GetLeague(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeServiceError(w, "Failed to get league", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, leagueResponse{League: data.League, Standings: data.Standings})
		})

		r.Put("/", func(w http.ResponseWriter, r *http.Request) {
			var req leagueRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}

			league := &store.League{ID: chi.URLParam(r, "id"), Name: req.Name, State: req.State}
			if err := app.participants.SaveLeague(r.Context(), league, req.Standings); err != nil {
				writeServiceError(w, "Failed to save league", err)
				return
			}

			data, err := app.participants.GetLeague(r.Context(), league.ID)
			if err != nil {
				httputil.InternalServerError(w, "Failed to get league", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, leagueResponse{League: data.League, Standings: data.Standings})
		})
	})

	return r
}

// writeServiceError maps domain errors to HTTP statuses. Anything unrecognised is a 500.
func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrTournamentNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrLeagueNotFound):
		httputil.NotFound(w, err.Error(), err)
	case errors.Is(err, store.ErrSlugTaken),
		errors.Is(err, store.ErrResultExists):
		httputil.Conflict(w, err.Error(), err)
	case bracket.IsInputError(err),
		errors.Is(err, service.ErrInvalidResult),
		errors.Is(err, service.ErrInvalidLeague),
		errors.Is(err, service.ErrSlugRequired),
		errors.Is(err, errInvalidRequest):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}
