package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/middleware"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

func NewRouter(
	verifier *identity.Verifier,
	timbraturaHandler TimbraturaHandler,
	tokenHandler TokenHandler,
	approvalHandler ApprovalHandler,
	reportHandler ReportHandler,
	env string,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presenze-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// All routes require an identity issued by the external auth
		// service.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(verifier.JWTAuth()))
			r.Use(middleware.AuthRequired(verifier.JWTAuth()))

			r.Route("/timbrature", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPunchOwn))
					r.Post("/entrata", timbraturaHandler.PunchIn)
					r.Post("/pausa/inizio", timbraturaHandler.PunchBreakStart)
					r.Post("/pausa/fine", timbraturaHandler.PunchBreakEnd)
					r.Post("/uscita", timbraturaHandler.PunchOut)
				})

				r.With(middleware.RequirePermission(user.PermissionPunchViewOwn)).
					Get("/me", timbraturaHandler.GetMyTimbrature)

				r.With(middleware.RequirePermission(user.PermissionPunchApprove)).
					Post("/{id}/approvazione", timbraturaHandler.Approve)

				r.With(middleware.RequirePermission(user.PermissionPunchDelete)).
					Delete("/{id}", timbraturaHandler.Delete)
			})

			r.Route("/tokens", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTokenIssue))
				r.Post("/", tokenHandler.Issue)
				r.Delete("/expired", tokenHandler.PurgeExpired)
			})

			r.Route("/richieste", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestCreate))
					r.Post("/ferie", approvalHandler.SubmitFerie)
					r.Post("/giustificazioni", approvalHandler.SubmitGiustificazione)
				})

				r.Get("/me", approvalHandler.GetMyRequests)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestDecide))
					r.Get("/pending", approvalHandler.GetPendingRequests)
					r.Post("/{id}/decisione", approvalHandler.Decide)
				})
			})

			r.With(middleware.RequirePermission(user.PermissionStatsViewOwn)).
				Get("/statistiche", reportHandler.GetStatistics)
			r.With(middleware.RequirePermission(user.PermissionStatsViewOwn)).
				Get("/statistiche/rollup", reportHandler.GetRollups)

			r.With(middleware.RequirePermission(user.PermissionReportExport)).
				Get("/export", reportHandler.ExportPeriod)
		})
	})

	return r
}
