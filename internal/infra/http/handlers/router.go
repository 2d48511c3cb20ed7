package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Tokens         middleware.TokenVerifier
	Health         *HealthHandler
	Auth           *AuthHandler
	Leads          *LeadHandler
	Export         *ExportHandler
	Organizations  *OrganizationHandler
	Packages       *PackageHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", cfg.Auth.HandleLogin)
	r.Post("/leads/capture", cfg.Leads.HandleCapture)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Tokens))

		r.Route("/leads", func(r chi.Router) {
			r.Use(middleware.RequireCapability(middleware.CapabilityLeads))

			r.Get("/", cfg.Leads.HandleList)
			r.Post("/", cfg.Leads.HandleCreate)
			r.Get("/export", cfg.Export.HandleExport)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.Leads.HandleGet)
				r.Delete("/", cfg.Leads.HandleDelete)
				r.Post("/notes", cfg.Leads.HandleAddNote)
				r.Post("/engagements", cfg.Leads.HandleLogEngagement)
				r.Put("/demo-status", cfg.Leads.HandleSetDemoStatus)
				r.Put("/demo-approval", cfg.Leads.HandleSetDemoApproval)
				r.Put("/quote-status", cfg.Leads.HandleSetQuoteStatus)
				r.Put("/status", cfg.Leads.HandleSetStatus)
				r.Put("/compliance-tags", cfg.Leads.HandleSetComplianceTags)
				r.Post("/trials", cfg.Leads.HandleLinkTrial)
				r.With(middleware.RequireCapability(middleware.CapabilityOrganizations)).
					Post("/convert", cfg.Leads.HandleConvert)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Use(middleware.RequireCapability(middleware.CapabilityOrganizations))

			r.Get("/", cfg.Organizations.HandleList)
			r.Post("/", cfg.Organizations.HandleCreate)
			r.Get("/{id}", cfg.Organizations.HandleGet)
			r.Post("/{id}/packages", cfg.Organizations.HandleAssignPackage)
		})

		r.Route("/packages", func(r chi.Router) {
			r.Use(middleware.RequireCapability(middleware.CapabilityPackages))

			r.Get("/", cfg.Packages.HandleList)
			r.Post("/", cfg.Packages.HandleCreate)
			r.Get("/{id}", cfg.Packages.HandleGet)
		})
	})

	return r
}
