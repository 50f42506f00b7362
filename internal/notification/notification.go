package notification

import (
	"github.com/driveads/campaign-management/internal"
	notificationDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/notification"
)

var ErrNotificationNotFound = internal.NewNotFoundError("Notification not found", internal.ErrCodeNotificationNotFound)

// ListQuery carries the optional filters for notification listings.
type ListQuery struct {
	UserID   int64
	Status   string
	Category string
	Limit    int
	Offset   int
}

// Repository is the notification data access contract.
type Repository interface {
	Create(n *notificationDatamodel.Notification) error
	List(q ListQuery) ([]*notificationDatamodel.Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id, userID int64) (int64, error)
	MarkAllRead(userID int64) (int64, error)
}
