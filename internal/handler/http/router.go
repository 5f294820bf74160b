package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/middleware"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/jwt"
)

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	logger *slog.Logger,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	bonusHandler BonusHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", authHandler.Logout)
			r.With(middleware.RequirePermission(auth.PermissionOperatorManage)).Post("/operators", authHandler.CreateOperator)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermissionAttendanceRecalc)).Post("/recalculate", attendanceHandler.Recalculate)
				r.With(middleware.RequirePermission(auth.PermissionAttendanceFinalize)).Post("/finalize", attendanceHandler.Finalize)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionAttendanceView))
					r.Get("/facts/{userID}", attendanceHandler.ListMonthFacts)
					r.Get("/facts/{userID}/{month}", attendanceHandler.GetMonthFact)
				})
			})

			r.Route("/bonuses", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermissionBonusView)).Get("/", bonusHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionBonusDecide))
					r.Post("/kpi", bonusHandler.EnsureKPICandidate)
					r.Post("/{id}/decision", bonusHandler.Decide)
					r.Put("/{id}/amount", bonusHandler.OverrideAmount)
				})
			})

			r.Route("/payroll/periods", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionPayrollRecalc))
					r.Post("/ensure", payrollHandler.EnsurePeriod)
					r.Post("/{id}/recalculate", payrollHandler.RecalculatePeriod)
				})

				r.With(middleware.RequirePermission(auth.PermissionPayrollStatus)).Put("/{id}/status", payrollHandler.UpdatePeriodStatus)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionPayrollView))
					r.Get("/{id}", payrollHandler.GetPeriod)
					r.Get("/{id}/checks", payrollHandler.ListChecks)
					r.Get("/{id}/checks/{userID}", payrollHandler.GetCheck)
				})
			})
		})
	})

	return r
}
