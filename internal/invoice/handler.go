package invoice

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	userDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/user"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListInvoices(q ListQuery) ([]*invoiceDatamodel.Invoice, error)
	GetInvoice(invoiceID string, userID int64) (*invoiceDatamodel.Invoice, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListMyInvoices lists the calling owner's invoices.
func (h *Handler) ListMyInvoices(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	invoices, err := h.Service.ListInvoices(ListQuery{
		UserID: userID,
		Status: r.URL.Query().Get("status"),
		Limit:  20,
	})
	if err != nil {
		h.Logger.Error("ListMyInvoices: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

// ListInvoices is the admin invoice listing with filters.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
	}
	if userStr := r.URL.Query().Get("user_id"); userStr != "" {
		if userID, err := strconv.ParseInt(userStr, 10, 64); err == nil {
			q.UserID = userID
		}
	}
	if campaignStr := r.URL.Query().Get("campaign_id"); campaignStr != "" {
		if campaignID, err := strconv.ParseInt(campaignStr, 10, 64); err == nil {
			q.CampaignID = campaignID
		}
	}

	invoices, err := h.Service.ListInvoices(q)
	if err != nil {
		h.Logger.Error("ListInvoices: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

// GetInvoice returns a single invoice by its public reference, scoped to the
// calling owner.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	if internal.RoleFromContext(r.Context()) == userDatamodel.RoleAdmin {
		userID = 0
	}

	inv, err := h.Service.GetInvoice(invoiceID, userID)
	if err != nil {
		h.Logger.Error("GetInvoice: service error", "error", err, "invoice_id", invoiceID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inv)
}
