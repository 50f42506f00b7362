package escrow

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	PayForCampaign(campaignID, ownerID int64) (*BalanceView, error)
	Balances(ownerID int64) (*BalanceView, error)
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

// PayForCampaign moves the campaign price from the owner's balance into
// pending escrow.
func (h *Handler) PayForCampaign(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.Logger.Error("PayForCampaign: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	campaignIDStr := chi.URLParam(r, "id")
	campaignID, err := strconv.ParseInt(campaignIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("PayForCampaign: invalid campaign ID", "id", campaignIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	balances, err := h.Service.PayForCampaign(campaignID, ownerID)
	if err != nil {
		h.Logger.Error("PayForCampaign: service error", "error", err, "campaign_id", campaignID, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("PayForCampaign: campaign funded",
		"campaign_id", campaignID,
		"owner_id", ownerID)

	h.WriteJSON(w, http.StatusOK, balances)
}

// GetBalances returns the owner's escrow dashboard figures.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.Logger.Error("GetBalances: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	balances, err := h.Service.Balances(ownerID)
	if err != nil {
		h.Logger.Error("GetBalances: service error", "error", err, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, balances)
}
