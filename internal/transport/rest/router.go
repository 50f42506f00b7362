package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/driveads/campaign-management/internal/campaign"
	userDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/user"
	"github.com/driveads/campaign-management/internal/enrollment"
	"github.com/driveads/campaign-management/internal/escrow"
	"github.com/driveads/campaign-management/internal/invoice"
	"github.com/driveads/campaign-management/internal/notification"
	"github.com/driveads/campaign-management/internal/payout"
	"github.com/driveads/campaign-management/internal/proof"
	"github.com/driveads/campaign-management/internal/transport/middleware"
	"github.com/driveads/campaign-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers bundles every domain handler the router mounts.
type Handlers struct {
	Campaign     *campaign.Handler
	Escrow       *escrow.Handler
	Enrollment   *enrollment.Handler
	Proof        *proof.Handler
	Payout       *payout.Handler
	Invoice      *invoice.Handler
	Notification *notification.Handler
}

// RegisterAllRoutes wires the full API surface onto the router. Routes are
// grouped by caller: business owners manage and fund campaigns, drivers enroll
// and submit proofs, admins decide everything.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, jwtSecret string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.JWTAuth(jwtSecret))

			// Anyone authenticated
			pr.Get("/campaigns/{id}", h.Campaign.GetCampaign)
			pr.Get("/campaigns/{id}/design", h.Campaign.GetDesign)
			pr.Get("/notifications", h.Notification.ListMyNotifications)
			pr.Patch("/notifications/{id}/read", h.Notification.MarkRead)
			pr.Post("/notifications/read-all", h.Notification.MarkAllRead)

			// Business owner surface
			pr.Group(func(or chi.Router) {
				or.Use(middleware.RequireRole(userDatamodel.RoleBusinessOwner))

				or.Post("/campaigns", h.Campaign.CreateCampaign)
				or.Get("/campaigns", h.Campaign.ListMyCampaigns)
				or.Patch("/campaigns/{id}/submit", h.Campaign.SubmitCampaign)
				or.Post("/campaigns/{id}/design", h.Campaign.UploadDesign)
				or.Patch("/campaigns/{id}/design", h.Campaign.UpdateDesign)
				or.Post("/campaigns/{id}/pay", h.Escrow.PayForCampaign)
				or.Get("/balances", h.Escrow.GetBalances)
				or.Get("/invoices", h.Invoice.ListMyInvoices)
				or.Get("/campaigns/{id}/applications", h.Enrollment.ListApplications)
			})

			// Owner or admin
			pr.Group(func(ir chi.Router) {
				ir.Use(middleware.RequireRole(userDatamodel.RoleBusinessOwner, userDatamodel.RoleAdmin))
				ir.Get("/invoices/{invoiceID}", h.Invoice.GetInvoice)
			})

			// Driver surface
			pr.Group(func(dr chi.Router) {
				dr.Use(middleware.RequireRole(userDatamodel.RoleDriver))

				dr.Get("/campaigns/available", h.Campaign.ListAvailableCampaigns)
				dr.Post("/campaigns/{id}/apply", h.Enrollment.Apply)
				dr.Get("/enrollments", h.Enrollment.ListMyEnrollments)
				dr.Post("/proofs/installment", h.Proof.SubmitInstallment)
				dr.Post("/proofs/weekly", h.Proof.SubmitWeekly)
				dr.Post("/payouts", h.Payout.RequestPayout)
				dr.Get("/earnings", h.Payout.ListMyEarnings)
				dr.Put("/bank-details", h.Payout.SaveBankDetail)
				dr.Get("/bank-details", h.Payout.GetMyBankDetail)
			})

			// Admin surface
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireRole(userDatamodel.RoleAdmin))

				ar.Get("/admin/campaigns", h.Campaign.ListAllCampaigns)
				ar.Patch("/admin/campaigns/{id}/design", h.Campaign.DecideDesign)
				ar.Patch("/admin/campaigns/{id}/approve", h.Campaign.ApproveCampaign)
				ar.Post("/admin/campaigns/complete", h.Campaign.CompleteCampaigns)
				ar.Patch("/admin/campaigns/{id}/enrollments", h.Enrollment.Decide)
				ar.Get("/admin/proofs/installments", h.Proof.ListInstallments)
				ar.Patch("/admin/campaigns/{id}/proofs/installment", h.Proof.DecideInstallment)
				ar.Get("/admin/proofs/weekly", h.Proof.ListWeekly)
				ar.Patch("/admin/proofs/weekly/{id}", h.Proof.DecideWeekly)
				ar.Post("/admin/payouts/initialize", h.Payout.InitializePayout)
				ar.Get("/admin/earnings", h.Payout.ListEarnings)
				ar.Get("/admin/invoices", h.Invoice.ListInvoices)
				ar.Get("/admin/transactions", h.Payout.ListTransactions)
				ar.Get("/admin/transactions/{id}", h.Payout.GetTransaction)
			})
		})
	})
}
