package notification

import (
	"log/slog"

	notificationDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/notification"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify persists an in-app message for the user. Delivery is fire-and-forget:
// a storage failure is logged and swallowed so it never rolls back the
// operation that triggered it.
func (s *Service) Notify(userID int64, title, message, category string) {
	n := &notificationDatamodel.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
		Variant:  notificationDatamodel.VariantInfo,
		Status:   notificationDatamodel.StatusUnread,
	}
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to store notification",
			"error", err,
			"user_id", userID,
			"title", title)
		return
	}

	s.logger.Debug("notification stored", "notification_id", n.ID, "user_id", userID, "category", category)
}

func (s *Service) ListNotifications(q ListQuery) ([]*notificationDatamodel.Notification, error) {
	return s.repo.List(q)
}

func (s *Service) CountUnread(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead flips a single notification to read, scoped to its recipient.
func (s *Service) MarkRead(id, userID int64) error {
	rows, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification for the user and returns how
// many were touched.
func (s *Service) MarkAllRead(userID int64) (int64, error) {
	return s.repo.MarkAllRead(userID)
}
