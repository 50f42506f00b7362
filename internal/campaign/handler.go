package campaign

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateCampaign(dto *CreateCampaignDTO, ownerID int64) (*campaignDatamodel.Campaign, error)
	GetCampaign(id int64) (*campaignDatamodel.Campaign, error)
	GetOwnedCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error)
	ListCampaigns(q ListQuery) ([]*campaignDatamodel.Campaign, error)
	ListOwnerCampaigns(ownerID int64, limit, offset int) ([]*campaignDatamodel.Campaign, error)
	ListAvailableCampaigns(limit, offset int) ([]*campaignDatamodel.Campaign, error)
	SubmitCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error)
	UploadDesign(campaignID, ownerID int64, dto *UploadDesignDTO) (*campaignDatamodel.CampaignDesign, error)
	UpdateDesign(campaignID, ownerID int64, dto *UploadDesignDTO) (*campaignDatamodel.CampaignDesign, error)
	GetDesign(campaignID int64) (*campaignDatamodel.CampaignDesign, error)
	DecideDesign(campaignID int64, dto *DecideDesignDTO) (*campaignDatamodel.CampaignDesign, error)
	ApproveCampaign(campaignID int64, dto *ApproveCampaignDTO) (*campaignDatamodel.Campaign, error)
	CompleteCampaigns() (*CompletionResult, error)
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

func paginationParams(r *http.Request) (int, int) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

func (h *Handler) campaignIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid campaign ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid campaign ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCampaignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCampaign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCampaign(&dto, ownerID)
	if err != nil {
		h.Logger.Error("CreateCampaign: service error", "error", err, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateCampaign: campaign created",
		"campaign_id", c.ID,
		"owner_id", ownerID)

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.Service.GetCampaign(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListMyCampaigns(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	campaigns, err := h.Service.ListOwnerCampaigns(ownerID, limit, offset)
	if err != nil {
		h.Logger.Error("ListMyCampaigns: service error", "error", err, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
		"limit":     limit,
		"offset":    offset,
	})
}

// ListAvailableCampaigns is the driver-facing listing of running campaigns.
func (h *Handler) ListAvailableCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	campaigns, err := h.Service.ListAvailableCampaigns(limit, offset)
	if err != nil {
		h.Logger.Error("ListAvailableCampaigns: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
		"limit":     limit,
		"offset":    offset,
	})
}

// ListAllCampaigns is the admin listing with optional status/active/owner
// filters.
func (h *Handler) ListAllCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	q := ListQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	if activeStr := r.URL.Query().Get("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			q.Active = &active
		}
	}
	if ownerStr := r.URL.Query().Get("owner_id"); ownerStr != "" {
		if ownerID, err := strconv.ParseInt(ownerStr, 10, 64); err == nil {
			q.OwnerID = ownerID
		}
	}

	campaigns, err := h.Service.ListCampaigns(q)
	if err != nil {
		h.Logger.Error("ListAllCampaigns: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) SubmitCampaign(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.Service.SubmitCampaign(id, ownerID)
	if err != nil {
		h.Logger.Error("SubmitCampaign: service error", "error", err, "campaign_id", id, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitCampaign: campaign submitted", "campaign_id", id, "owner_id", ownerID)
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UploadDesign(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	var dto UploadDesignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UploadDesign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.UploadDesign(id, ownerID, &dto)
	if err != nil {
		h.Logger.Error("UploadDesign: service error", "error", err, "campaign_id", id, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	ownerID := internal.UserIDFromContext(r.Context())
	if ownerID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	var dto UploadDesignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateDesign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.UpdateDesign(id, ownerID, &dto)
	if err != nil {
		h.Logger.Error("UpdateDesign: service error", "error", err, "campaign_id", id, "owner_id", ownerID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) GetDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	d, err := h.Service.GetDesign(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DecideDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	var dto DecideDesignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DecideDesign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.DecideDesign(id, &dto)
	if err != nil {
		h.Logger.Error("DecideDesign: service error", "error", err, "campaign_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DecideDesign: design decided", "campaign_id", id, "decision", dto.Decision)
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) ApproveCampaign(w http.ResponseWriter, r *http.Request) {
	adminID := internal.UserIDFromContext(r.Context())
	if adminID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	var dto ApproveCampaignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ApproveCampaign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.ApproveCampaign(id, &dto)
	if err != nil {
		h.Logger.Error("ApproveCampaign: service error", "error", err, "campaign_id", id, "admin_id", adminID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ApproveCampaign: campaign settled",
		"campaign_id", id,
		"admin_id", adminID,
		"decision", dto.Decision)

	h.WriteJSON(w, http.StatusOK, c)
}

// CompleteCampaigns is the manual admin trigger for the completion sweep.
func (h *Handler) CompleteCampaigns(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.CompleteCampaigns()
	if err != nil {
		h.Logger.Error("CompleteCampaigns: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CompleteCampaigns: sweep finished", "count", result.Count)
	h.WriteJSON(w, http.StatusOK, result)
}
