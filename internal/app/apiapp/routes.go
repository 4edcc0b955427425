package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	auditsvc "github.com/ivankudzin/estate-backoffice/internal/services/audit"
	authsvc "github.com/ivankudzin/estate-backoffice/internal/services/auth"
	countersvc "github.com/ivankudzin/estate-backoffice/internal/services/counters"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
	reportsvc "github.com/ivankudzin/estate-backoffice/internal/services/reports"
	httperrors "github.com/ivankudzin/estate-backoffice/internal/transport/http/errors"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/handlers"
)

type Dependencies struct {
	Tokens          *authsvc.JWTManager
	ListingService  *listingsvc.Service
	ReportService   *reportsvc.Service
	CountersService *countersvc.Service
	AuditService    *auditsvc.Service
	Logger          *zap.Logger
}

// actionRoute binds an admin endpoint to the engine action its handler performs.
type actionRoute struct {
	action  enums.Action
	method  string
	pattern string
	handler http.HandlerFunc
}

func adminRoutes(
	listings *handlers.ListingsHandler,
	reports *handlers.ReportsHandler,
	complaints *handlers.ComplaintsHandler,
	dashboard *handlers.DashboardHandler,
) []actionRoute {
	return []actionRoute{
		{enums.ActionDashboardCounts, http.MethodGet, "/counts", dashboard.Counts},
		{enums.ActionAuditView, http.MethodGet, "/audit", dashboard.Audit},
		{enums.ActionAuditView, http.MethodGet, "/owners/{ownerID}/strikes", dashboard.OwnerStrikes},

		{enums.ActionListingView, http.MethodGet, "/listings", listings.List},
		{enums.ActionListingView, http.MethodGet, "/listings/{id}", listings.Get},
		{enums.ActionListingDelete, http.MethodDelete, "/listings/{id}", listings.Delete},
		{enums.ActionListingApprove, http.MethodPost, "/listings/{id}/approve", listings.Approve},
		{enums.ActionListingReject, http.MethodPost, "/listings/{id}/reject", listings.Reject},
		{enums.ActionListingReview, http.MethodPost, "/listings/{id}/review", listings.Review},
		{enums.ActionListingHide, http.MethodPost, "/listings/{id}/hide", listings.Hide},
		{enums.ActionListingShow, http.MethodPost, "/listings/{id}/show", listings.Show},
		{enums.ActionListingDealStatus, http.MethodPost, "/listings/{id}/deal-status", listings.SetDealStatus},

		{enums.ActionReportView, http.MethodGet, "/reports", reports.List},
		{enums.ActionReportView, http.MethodGet, "/reports/{id}", reports.Get},
		{enums.ActionReportReview, http.MethodPost, "/reports/{id}/review", reports.Review},
		{enums.ActionReportDismiss, http.MethodPost, "/reports/{id}/dismiss", reports.Dismiss},
		{enums.ActionReportClose, http.MethodPost, "/reports/{id}/close", reports.Close},
		{enums.ActionReportRestore, http.MethodPost, "/reports/{id}/restore", reports.Restore},
		{enums.ActionReportDeleteFinal, http.MethodPost, "/reports/{id}/delete-final", reports.DeleteFinal},

		{enums.ActionComplaintView, http.MethodGet, "/complaints", complaints.List},
		{enums.ActionComplaintView, http.MethodGet, "/complaints/{id}", complaints.Get},
		{enums.ActionComplaintReview, http.MethodPost, "/complaints/{id}/review", complaints.Review},
		{enums.ActionComplaintDismiss, http.MethodPost, "/complaints/{id}/dismiss", complaints.Dismiss},
		{enums.ActionComplaintClose, http.MethodPost, "/complaints/{id}/close", complaints.Close},
	}
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	listingsHandler := handlers.NewListingsHandler(deps.ListingService)
	reportsHandler := handlers.NewReportsHandler(deps.ReportService)
	complaintsHandler := handlers.NewComplaintsHandler(deps.ReportService)
	filingHandler := handlers.NewFilingHandler(deps.ReportService)
	dashboardHandler := handlers.NewDashboardHandler(deps.CountersService, deps.AuditService)

	r.Get("/healthz", handlers.Healthz)

	r.Group(func(public chi.Router) {
		public.Use(OptionalUserAuth(deps.Tokens, deps.Logger))
		public.Post("/reports", filingHandler.FileReport)
		public.Post("/complaints", filingHandler.FileComplaint)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(AuthMiddleware(deps.Tokens, deps.Logger))

		for _, route := range adminRoutes(listingsHandler, reportsHandler, complaintsHandler, dashboardHandler) {
			admin.Method(route.method, route.pattern, route.handler)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "NOT_FOUND", Message: "route not found"})
	})
}
