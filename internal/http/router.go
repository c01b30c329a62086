package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
	httpauth "github.com/MrJamesThe3rd/pocket/internal/http/auth"
	"github.com/MrJamesThe3rd/pocket/internal/http/backup"
	"github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pocket/internal/http/record"
	"github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	"github.com/MrJamesThe3rd/pocket/internal/http/views"
)

type Options struct {
	Timeout        time.Duration
	AllowedOrigins []string
	// Tokens enables bearer authentication on the API when set.
	Tokens *auth.TokenService
}

func New(
	opts Options,
	viewsV1 *views.Handler,
	transactionsV1 *transaction.Handler,
	recordsV1 *record.Handler,
	backupV1 *backup.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Tokens != nil {
			r.Use(httpauth.Require(opts.Tokens))
		}

		r.Route("/views", viewsV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
			recordsV1.Routes(r)
		})

		r.Route("/backup", backupV1.Routes)
		r.Route("/import", importV1.Routes)
	})

	return router
}
