package payout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	earningDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/earning"
	"github.com/driveads/campaign-management/internal/transfer"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RequestPayout(driverID int64, dto *RequestPayoutDTO) (*earningDatamodel.Earning, error)
	InitializePayout(ctx context.Context, dto *InitializePayoutDTO) (*PayoutResult, error)
	ListEarnings(q EarningQuery) ([]*earningDatamodel.Earning, error)
	UpsertBankDetail(driverID int64, dto *BankDetailDTO) (*earningDatamodel.BankDetail, error)
	GetBankDetail(driverID int64) (*earningDatamodel.BankDetail, error)
	GetTransaction(ctx context.Context, id int64) (*transfer.TransactionResponse, error)
	ListTransactions(ctx context.Context, page, perPage int) (*transfer.TransactionListResponse, error)
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

// RequestPayout opens a payout request for the calling driver.
func (h *Handler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RequestPayoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RequestPayout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.RequestPayout(driverID, &dto)
	if err != nil {
		h.Logger.Error("RequestPayout: service error", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RequestPayout: earning opened", "earning_id", e.ID, "driver_id", driverID, "amount", e.Amount)
	h.WriteJSON(w, http.StatusCreated, e)
}

// InitializePayout is the admin resolution of a pending earning.
func (h *Handler) InitializePayout(w http.ResponseWriter, r *http.Request) {
	adminID := internal.UserIDFromContext(r.Context())
	if adminID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto InitializePayoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("InitializePayout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.InitializePayout(r.Context(), &dto)
	if err != nil {
		h.Logger.Error("InitializePayout: service error",
			"error", err,
			"earning_id", dto.EarningID,
			"driver_id", dto.UserID,
			"admin_id", adminID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("InitializePayout: payout resolved",
		"earning_id", dto.EarningID,
		"driver_id", dto.UserID,
		"approved", dto.Approve,
		"admin_id", adminID)

	h.WriteJSON(w, http.StatusOK, result)
}

// ListMyEarnings lists the calling driver's earnings.
func (h *Handler) ListMyEarnings(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	earnings, err := h.Service.ListEarnings(EarningQuery{
		UserID:        driverID,
		Approved:      r.URL.Query().Get("approved"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
		Limit:         20,
	})
	if err != nil {
		h.Logger.Error("ListMyEarnings: service error", "error", err, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"earnings": earnings})
}

// ListEarnings is the admin earning listing with filters.
func (h *Handler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	q := EarningQuery{
		Approved:      r.URL.Query().Get("approved"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
		Limit:         50,
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

	earnings, err := h.Service.ListEarnings(q)
	if err != nil {
		h.Logger.Error("ListEarnings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"earnings": earnings})
}

// SaveBankDetail stores the calling driver's payout destination.
func (h *Handler) SaveBankDetail(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BankDetailDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SaveBankDetail: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.UpsertBankDetail(driverID, &dto)
	if err != nil {
		h.Logger.Error("SaveBankDetail: service error", "error", err, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

// GetMyBankDetail returns the calling driver's payout destination.
func (h *Handler) GetMyBankDetail(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := h.Service.GetBankDetail(driverID)
	if err != nil {
		h.Logger.Error("GetMyBankDetail: service error", "error", err, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

// GetTransaction proxies a provider-side transaction lookup for the admin.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	resp, err := h.Service.GetTransaction(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetTransaction: service error", "error", err, "transaction_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ListTransactions proxies the provider's transaction history for the admin.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	resp, err := h.Service.ListTransactions(r.Context(), page, perPage)
	if err != nil {
		h.Logger.Error("ListTransactions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
