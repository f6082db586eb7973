package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmorales-dev/tradeflow-backend/api/controllers"
	"github.com/dmorales-dev/tradeflow-backend/api/middleware"
	"github.com/dmorales-dev/tradeflow-backend/internal/clients"
	"github.com/dmorales-dev/tradeflow-backend/internal/contractors"
	"github.com/dmorales-dev/tradeflow-backend/internal/invoices"
	"github.com/dmorales-dev/tradeflow-backend/internal/jobs"
	"github.com/dmorales-dev/tradeflow-backend/internal/leads"
	"github.com/dmorales-dev/tradeflow-backend/internal/materials"
	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/db"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
	"github.com/dmorales-dev/tradeflow-backend/pkg/metrics"
	pkgredis "github.com/dmorales-dev/tradeflow-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	Redis          *pkgredis.Client
	RequestMetrics *metrics.RequestMetrics
	MetricsHandler http.Handler

	Contractors contractors.Service
	Clients     clients.Service
	Leads       leads.Service
	Jobs        jobs.Service
	Invoices    invoices.Service
	Materials   materials.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.HTTPMetrics(p.RequestMetrics),
	)

	var redisPinger pkgredis.Pinger
	if p.Redis != nil {
		redisPinger = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, redisPinger))
	})

	metricsHandler := p.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// Onboarding happens before a contractor context exists.
	r.Post("/api/v1/profile", controllers.ProfileCreate(p.Contractors, logg))

	var idemStore pkgredis.IdempotencyStore
	if p.Redis != nil {
		idemStore = p.Redis
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContractorContext(logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/profile", controllers.ProfileFetch(p.Contractors, logg))
		r.Put("/profile", controllers.ProfileUpdate(p.Contractors, logg))

		r.Post("/pricing/preview", controllers.JobPreviewTotals(p.Jobs, logg))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(p.Clients, logg))
			r.Post("/", controllers.ClientCreate(p.Clients, logg))
			r.Get("/{clientId}", controllers.ClientFetch(p.Clients, logg))
			r.Put("/{clientId}", controllers.ClientUpdate(p.Clients, logg))
			r.Delete("/{clientId}", controllers.ClientDelete(p.Clients, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadList(p.Leads, logg))
			r.Post("/", controllers.LeadCreate(p.Leads, logg))
			r.Get("/{leadId}", controllers.LeadFetch(p.Leads, logg))
			r.Patch("/{leadId}/status", controllers.LeadUpdateStatus(p.Leads, logg))
			r.Post("/{leadId}/convert", controllers.LeadConvert(p.Leads, logg))
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", controllers.JobList(p.Jobs, logg))
			r.Post("/", controllers.JobCreate(p.Jobs, logg))
			r.Get("/{jobId}", controllers.JobFetch(p.Jobs, logg))
			r.Put("/{jobId}", controllers.JobUpdate(p.Jobs, logg))
			r.Patch("/{jobId}/status", controllers.JobUpdateStatus(p.Jobs, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(p.Invoices, logg))
			r.Post("/", controllers.InvoiceCreate(p.Invoices, logg))
			r.Get("/{invoiceId}", controllers.InvoiceFetch(p.Invoices, logg))
			r.Get("/{invoiceId}/pdf", controllers.InvoicePDF(p.Invoices, p.Contractors, logg))
			r.Post("/{invoiceId}/send", controllers.InvoiceMarkSent(p.Invoices, logg))
			r.Post("/{invoiceId}/view", controllers.InvoiceMarkViewed(p.Invoices, logg))
			r.Post("/{invoiceId}/sign", controllers.InvoiceMarkSigned(p.Invoices, logg))
			r.Post("/{invoiceId}/payments", controllers.InvoiceRecordPayment(p.Invoices, logg))
		})

		r.Route("/materials", func(r chi.Router) {
			r.Post("/suggest", controllers.MaterialsSuggest(p.Materials, logg))
			r.Post("/search", controllers.MaterialsSearch(p.Materials, logg))
		})
	})

	return r
}
