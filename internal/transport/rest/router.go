package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/autowerk/garage-management/internal/auth"
	"github.com/autowerk/garage-management/internal/customer"
	"github.com/autowerk/garage-management/internal/garage"
	"github.com/autowerk/garage-management/internal/gatepass"
	"github.com/autowerk/garage-management/internal/inventory"
	"github.com/autowerk/garage-management/internal/invoice"
	"github.com/autowerk/garage-management/internal/jobcard"
	"github.com/autowerk/garage-management/internal/transport/middleware"
	"github.com/autowerk/garage-management/internal/transport/swagger"
	"github.com/autowerk/garage-management/internal/vehicle"
)

// Handlers bundles everything RegisterAllRoutes wires up.
type Handlers struct {
	Auth      *auth.Handler
	Garage    *garage.Handler
	Customer  *customer.Handler
	Vehicle   *vehicle.Handler
	JobCard   *jobcard.Handler
	Inventory *inventory.Handler
	Invoice   *invoice.Handler
	GatePass  *gatepass.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, sessions Pinger, h Handlers, svc *auth.Service, authorizer *auth.Authorizer, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, sessions)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below needs a live session; state-changing requests
		// additionally need the CSRF header.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireLogin)
			pr.Use(middleware.RequireCSRF(svc))

			pr.Get("/auth/me", h.Auth.Me)
			pr.Get("/auth/csrf", h.Auth.CSRFToken)

			// Tenant administration is reserved for the platform operator.
			pr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.RequireRole(auth.RoleSuperAdmin))
				gr.Post("/garages", h.Garage.Create)
				gr.Get("/garages", h.Garage.List)
				gr.Get("/garages/{id}", h.Garage.Get)
				gr.Patch("/garages/{id}", h.Garage.Update)
			})

			pr.Group(func(gr chi.Router) {
				gr.Use(middleware.RequirePermission(authorizer, auth.ModuleReports, auth.ActionView))
				gr.Get("/dashboard", h.Garage.Dashboard)
			})

			pr.Route("/customers", func(cr chi.Router) {
				cr.With(middleware.RequirePermission(authorizer, auth.ModuleCustomers, auth.ActionView)).Get("/", h.Customer.List)
				cr.With(middleware.RequirePermission(authorizer, auth.ModuleCustomers, auth.ActionView)).Get("/{id}", h.Customer.Get)
				cr.With(middleware.RequirePermission(authorizer, auth.ModuleCustomers, auth.ActionCreate)).Post("/", h.Customer.Create)
				cr.With(middleware.RequirePermission(authorizer, auth.ModuleCustomers, auth.ActionEdit)).Patch("/{id}", h.Customer.Update)
				cr.With(middleware.RequirePermission(authorizer, auth.ModuleCustomers, auth.ActionDelete)).Delete("/{id}", h.Customer.Delete)
			})

			pr.Route("/vehicles", func(vr chi.Router) {
				vr.With(middleware.RequirePermission(authorizer, auth.ModuleVehicles, auth.ActionView)).Get("/", h.Vehicle.List)
				vr.With(middleware.RequirePermission(authorizer, auth.ModuleVehicles, auth.ActionView)).Get("/{id}", h.Vehicle.Get)
				vr.With(middleware.RequirePermission(authorizer, auth.ModuleVehicles, auth.ActionCreate)).Post("/", h.Vehicle.Create)
				vr.With(middleware.RequirePermission(authorizer, auth.ModuleVehicles, auth.ActionEdit)).Patch("/{id}", h.Vehicle.Update)
			})

			pr.Route("/job-cards", func(jr chi.Router) {
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionView)).Get("/", h.JobCard.List)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionView)).Get("/{id}", h.JobCard.Get)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionCreate)).Post("/", h.JobCard.Create)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionEdit)).Patch("/{id}/technician", h.JobCard.AssignTechnician)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionEdit)).Patch("/{id}/diagnosis", h.JobCard.UpdateDiagnosis)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionEdit)).Patch("/{id}/status", h.JobCard.UpdateStatus)
				jr.With(middleware.RequirePermission(authorizer, auth.ModuleJobCards, auth.ActionEdit)).Post("/{id}/items", h.JobCard.AddItem)
			})

			pr.Route("/parts", func(ir chi.Router) {
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInventory, auth.ActionView)).Get("/", h.Inventory.List)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInventory, auth.ActionView)).Get("/{id}", h.Inventory.Get)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInventory, auth.ActionCreate)).Post("/", h.Inventory.Create)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInventory, auth.ActionEdit)).Patch("/{id}", h.Inventory.Update)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInventory, auth.ActionEdit)).Post("/{id}/receive", h.Inventory.Receive)
			})

			pr.Route("/invoices", func(ir chi.Router) {
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInvoices, auth.ActionView)).Get("/", h.Invoice.List)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInvoices, auth.ActionView)).Get("/{id}", h.Invoice.Get)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInvoices, auth.ActionCreate)).Post("/", h.Invoice.Create)
				ir.With(middleware.RequirePermission(authorizer, auth.ModuleInvoices, auth.ActionEdit)).Post("/{id}/payments", h.Invoice.RecordPayment)
			})

			pr.Route("/gate-passes", func(gr chi.Router) {
				gr.With(middleware.RequirePermission(authorizer, auth.ModuleGatePass, auth.ActionView)).Get("/", h.GatePass.List)
				gr.With(middleware.RequirePermission(authorizer, auth.ModuleGatePass, auth.ActionView)).Get("/{id}", h.GatePass.Get)
				gr.With(middleware.RequirePermission(authorizer, auth.ModuleGatePass, auth.ActionCreate)).Post("/", h.GatePass.Issue)
				gr.With(middleware.RequirePermission(authorizer, auth.ModuleGatePass, auth.ActionEdit)).Post("/{id}/exit", h.GatePass.MarkExit)
			})
		})
	})
}
