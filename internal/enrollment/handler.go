package enrollment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Apply(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error)
	Decide(campaignID int64, dto *DecideEnrollmentDTO) (*enrollmentDatamodel.DriverCampaign, error)
	ListApplications(campaignID int64, status string, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error)
	ListDriverEnrollments(driverID int64, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error)
	GetEnrollment(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error)
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

// Apply enrolls the calling driver into a campaign.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	campaignID, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	e, err := h.Service.Apply(campaignID, driverID)
	if err != nil {
		h.Logger.Error("Apply: service error", "error", err, "campaign_id", campaignID, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Apply: driver applied", "campaign_id", campaignID, "driver_id", driverID)
	h.WriteJSON(w, http.StatusCreated, e)
}

// Decide records the admin's verdict on a driver application.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

	var dto DecideEnrollmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Decide: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Decide(campaignID, &dto)
	if err != nil {
		h.Logger.Error("Decide: service error", "error", err, "campaign_id", campaignID, "driver_id", dto.DriverID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Decide: enrollment decided",
		"campaign_id", campaignID,
		"driver_id", dto.DriverID,
		"decision", dto.Decision)

	h.WriteJSON(w, http.StatusOK, e)
}

// ListApplications lists a campaign's enrollments for the admin, optionally
// filtered by status.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.campaignIDParam(w, r)
	if !ok {
		return
	}

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

	enrollments, err := h.Service.ListApplications(campaignID, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.Logger.Error("ListApplications: service error", "error", err, "campaign_id", campaignID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enrollments": enrollments,
		"limit":       limit,
		"offset":      offset,
	})
}

// ListMyEnrollments lists the calling driver's enrollments.
func (h *Handler) ListMyEnrollments(w http.ResponseWriter, r *http.Request) {
	driverID := internal.UserIDFromContext(r.Context())
	if driverID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

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

	enrollments, err := h.Service.ListDriverEnrollments(driverID, limit, offset)
	if err != nil {
		h.Logger.Error("ListMyEnrollments: service error", "error", err, "driver_id", driverID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enrollments": enrollments,
		"limit":       limit,
		"offset":      offset,
	})
}
