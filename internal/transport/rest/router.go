package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/attendance"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/auth"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/leave"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/organization"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/party"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/role"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/tourplan"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport/middleware"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport/swagger"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/user"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Dependencies carries everything the HTTP surface needs. Nil handlers are
// skipped, so partial wiring (tests, the standalone notifier) stays possible.
type Dependencies struct {
	DB     *sql.DB
	Redis  *redis.Client
	Logger *slog.Logger

	Guard *access.Guard

	Auth          *auth.Handler
	Users         *user.Handler
	Roles         *role.Handler
	Organizations *organization.Handler
	Leaves        *leave.Handler
	TourPlans     *tourplan.Handler
	Attendance    *attendance.Handler
	Parties       *party.Handler

	AllowedOrigins string
	MetricsPath    string                  // empty disables the scrape endpoint
	HTTPMetrics    *middleware.HTTPMetrics // nil skips request instrumentation
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB, deps.Redis)

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(deps.HTTPMetrics.Middleware)

	// OpenAPI document and UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.livenessHandler)
		r.Get("/ready", healthHandler.readinessHandler)

		if deps.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", deps.Auth.Login)
			sr.Post("/refresh", deps.Auth.RefreshToken)
			sr.Post("/logout", deps.Auth.Logout)
		})

		if deps.Guard == nil {
			return
		}
		guard := deps.Guard

		r.Group(func(pr chi.Router) {
			pr.Use(deps.Auth.AuthMiddleware)
			pr.Use(access.RequestCache())

			if deps.Users != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureView)).Get("/", deps.Users.ListUsers)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureCreate)).Post("/", deps.Users.CreateUser)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureView)).Get("/{id}", deps.Users.GetUser)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureEdit)).Patch("/{id}", deps.Users.UpdateUser)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureDelete)).Delete("/{id}", deps.Users.DeactivateUser)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureAssignRole)).Put("/{id}/role", deps.Users.AssignRole)
					ur.With(guard.RequireFeature(access.ModuleUsers, access.FeatureManageSupervisors)).Put("/{id}/supervisors", deps.Users.SetSupervisors)
				})
			}

			if deps.Roles != nil {
				pr.Route("/roles", func(rr chi.Router) {
					// The catalog feeds the role-builder UI, so anyone who can
					// view or author roles may read it.
					rr.With(guard.RequireAnyFeature(
						access.FeaturePair{Module: access.ModuleRoles, Feature: access.FeatureView},
						access.FeaturePair{Module: access.ModuleRoles, Feature: access.FeatureCreate},
						access.FeaturePair{Module: access.ModuleRoles, Feature: access.FeatureEdit},
					)).Get("/features", deps.Roles.FeatureCatalog)

					rr.With(guard.RequireFeature(access.ModuleRoles, access.FeatureView)).Get("/", deps.Roles.ListRoles)
					rr.With(guard.RequireFeature(access.ModuleRoles, access.FeatureCreate)).Post("/", deps.Roles.CreateRole)
					rr.With(guard.RequireFeature(access.ModuleRoles, access.FeatureView)).Get("/{id}", deps.Roles.GetRole)
					rr.With(guard.RequireFeature(access.ModuleRoles, access.FeatureEdit)).Patch("/{id}", deps.Roles.UpdateRole)
					rr.With(guard.RequireFeature(access.ModuleRoles, access.FeatureDelete)).Delete("/{id}", deps.Roles.DeleteRole)
				})
			}

			if deps.Organizations != nil {
				pr.Route("/organization", func(og chi.Router) {
					og.With(guard.RequireFeature(access.ModuleOrganization, access.FeatureView)).Get("/", deps.Organizations.GetProfile)
					og.With(guard.RequireFeature(access.ModuleOrganization, access.FeatureEdit)).Patch("/", deps.Organizations.UpdateProfile)
					og.With(guard.RequireFeature(access.ModuleOrganization, access.FeatureView)).Get("/plans", deps.Organizations.ListPlans)
				})
			}

			if deps.Leaves != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					lr.With(guard.RequireFeature(access.ModuleLeaves, access.FeatureCreate)).Post("/", deps.Leaves.CreateLeave)
					lr.With(guard.RequireFeature(access.ModuleLeaves, access.FeatureViewOwn)).Get("/", deps.Leaves.ListLeaves)
					lr.With(guard.RequireFeature(access.ModuleLeaves, access.FeatureViewOwn)).Get("/{id}", deps.Leaves.GetLeave)
					lr.With(guard.RequireFeature(access.ModuleLeaves, access.FeatureUpdateStatus)).Patch("/{id}/status", deps.Leaves.UpdateLeaveStatus)
				})
			}

			if deps.TourPlans != nil {
				pr.Route("/tourplans", func(tr chi.Router) {
					tr.With(guard.RequireFeature(access.ModuleTourPlans, access.FeatureCreate)).Post("/", deps.TourPlans.CreateTourPlan)
					tr.With(guard.RequireFeature(access.ModuleTourPlans, access.FeatureViewOwn)).Get("/", deps.TourPlans.ListTourPlans)
					tr.With(guard.RequireFeature(access.ModuleTourPlans, access.FeatureViewOwn)).Get("/{id}", deps.TourPlans.GetTourPlan)
					tr.With(guard.RequireFeature(access.ModuleTourPlans, access.FeatureUpdateStatus)).Patch("/{id}/status", deps.TourPlans.UpdateTourPlanStatus)
				})
			}

			if deps.Attendance != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.With(guard.RequireFeature(access.ModuleAttendance, access.FeatureCheckIn)).Post("/check-in", deps.Attendance.CheckIn)
					ar.With(guard.RequireFeature(access.ModuleAttendance, access.FeatureCheckOut)).Patch("/check-out", deps.Attendance.CheckOut)
					ar.With(guard.RequireFeature(access.ModuleAttendance, access.FeatureViewOwn)).Get("/", deps.Attendance.ListAttendance)
				})
			}

			if deps.Parties != nil {
				pr.Route("/parties", func(par chi.Router) {
					// The module gate covers reads through the base view
					// feature; writes add their own feature checks.
					par.Use(guard.RequireModule(access.ModuleParties))
					par.Get("/", deps.Parties.ListParties)
					par.Get("/{id}", deps.Parties.GetParty)
					par.With(guard.RequireFeature(access.ModuleParties, access.FeatureCreate)).Post("/", deps.Parties.CreateParty)
					par.With(guard.RequireFeature(access.ModuleParties, access.FeatureEdit)).Patch("/{id}", deps.Parties.UpdateParty)
				})
			}
		})
	})
}
