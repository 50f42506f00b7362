package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/core/common/query"
	notificationDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/notification"
	"github.com/driveads/campaign-management/internal/notification"
	"gorm.io/gorm"
)

// NotificationRepository implements notification.Repository using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notificationDatamodel.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) List(q notification.ListQuery) ([]*notificationDatamodel.Notification, error) {
	spec := query.NewSpec().
		WhereIf(q.UserID != 0, "user_id", q.UserID).
		WhereIf(q.Status != "", "status", q.Status).
		WhereIf(q.Category != "", "category", q.Category).
		Paginate(q.Limit, q.Offset)

	var notifications []*notificationDatamodel.Notification
	err := spec.Apply(r.db.Model(&notificationDatamodel.Notification{})).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND status = ?", userID, notificationDatamodel.StatusUnread).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id, userID int64) (int64, error) {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, notificationDatamodel.StatusUnread).
		Updates(map[string]interface{}{
			"status":     notificationDatamodel.StatusRead,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(userID int64) (int64, error) {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND status = ?", userID, notificationDatamodel.StatusUnread).
		Updates(map[string]interface{}{
			"status":     notificationDatamodel.StatusRead,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
