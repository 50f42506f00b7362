package proof

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SubmitInstallment(driverID int64, dto *SubmitInstallmentDTO) (*proofDatamodel.InstallmentProof, error)
	DecideInstallment(campaignID int64, dto *DecideProofDTO) (*proofDatamodel.InstallmentProof, error)
	SubmitWeekly(driverID int64, dto *SubmitWeeklyDTO) (*proofDatamodel.WeeklyProof, error)
	DecideWeekly(proofID int64, dto *DecideProofDTO) (*proofDatamodel.WeeklyProof, error)
	ListInstallments(campaignID int64, status string, limit, offset int) ([]*proofDatamodel.InstallmentProof, error)
	QueryWeekly(q WeeklyQuery) ([]*proofDatamodel.WeeklyProof, error)
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

func intQueryParam(r *http.Request, name string) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return 0
}

func int64QueryParam(r *http.Request, name string) int64 {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

func (h *Handler) SubmitInstallment(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitInstallmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitInstallment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.SubmitInstallment(driverID, &dto)
	if err != nil {
		h.Logger.Error("SubmitInstallment: service error", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitInstallment: proof submitted", "proof_id", p.ID, "driver_id", driverID)
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) DecideInstallment(w http.ResponseWriter, r *http.Request) {
	campaignIDStr := chi.URLParam(r, "id")
	campaignID, err := strconv.ParseInt(campaignIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return
	}

	var dto DecideProofDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DecideInstallment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.DecideInstallment(campaignID, &dto)
	if err != nil {
		h.Logger.Error("DecideInstallment: service error", "error", err, "campaign_id", campaignID, "driver_id", dto.DriverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DecideInstallment: proof decided",
		"campaign_id", campaignID,
		"driver_id", dto.DriverID,
		"decision", dto.Decision)

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) SubmitWeekly(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitWeeklyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitWeekly: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.SubmitWeekly(driverID, &dto)
	if err != nil {
		h.Logger.Error("SubmitWeekly: service error", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitWeekly: proof submitted", "proof_id", p.ID, "driver_id", driverID, "week", dto.WeekNumber)
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) DecideWeekly(w http.ResponseWriter, r *http.Request) {
	proofIDStr := chi.URLParam(r, "id")
	proofID, err := strconv.ParseInt(proofIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid proof ID")
		return
	}

	var dto DecideProofDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DecideWeekly: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.DecideWeekly(proofID, &dto)
	if err != nil {
		h.Logger.Error("DecideWeekly: service error", "error", err, "proof_id", proofID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DecideWeekly: proof decided", "proof_id", proofID, "decision", dto.Decision)
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit")
	if limit == 0 || limit > 100 {
		limit = 20
	}

	proofs, err := h.Service.ListInstallments(
		int64QueryParam(r, "campaign_id"),
		r.URL.Query().Get("status"),
		limit,
		intQueryParam(r, "offset"),
	)
	if err != nil {
		h.Logger.Error("ListInstallments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"proofs": proofs})
}

func (h *Handler) ListWeekly(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit")
	if limit == 0 || limit > 100 {
		limit = 20
	}

	q := WeeklyQuery{
		CampaignID: int64QueryParam(r, "campaign_id"),
		DriverID:   int64QueryParam(r, "driver_id"),
		Status:     r.URL.Query().Get("status"),
		WeekNumber: intQueryParam(r, "week_number"),
		Month:      intQueryParam(r, "month"),
		Year:       intQueryParam(r, "year"),
		Limit:      limit,
		Offset:     intQueryParam(r, "offset"),
	}

	proofs, err := h.Service.QueryWeekly(q)
	if err != nil {
		h.Logger.Error("ListWeekly: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"proofs": proofs})
}
