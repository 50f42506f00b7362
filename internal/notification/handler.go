package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/driveads/campaign-management/internal"
	notificationDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/notification"
	"github.com/driveads/campaign-management/internal/transport"
	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListNotifications(q ListQuery) ([]*notificationDatamodel.Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id, userID int64) error
	MarkAllRead(userID int64) (int64, error)
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

// ListMyNotifications lists the calling user's notifications, newest first.
func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notifications, err := h.Service.ListNotifications(ListQuery{
		UserID:   userID,
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Limit:    20,
	})
	if err != nil {
		h.Logger.Error("ListMyNotifications: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	unread, err := h.Service.CountUnread(userID)
	if err != nil {
		h.Logger.Error("ListMyNotifications: unread count error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead flips a single notification to read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(id, userID); err != nil {
		h.Logger.Error("MarkRead: service error", "error", err, "notification_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead flips every unread notification for the calling user.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.Service.MarkAllRead(userID)
	if err != nil {
		h.Logger.Error("MarkAllRead: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"marked_read": count})
}
