package notification

import "time"

const (
	CategoryCampaign = "campaign"
	CategoryPayout   = "payout"
	CategoryProof    = "proof"
)

const (
	VariantInfo    = "info"
	VariantSuccess = "success"
	VariantError   = "error"
)

const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Notification is a persisted in-app message for a driver or business owner.
// Delivery is fire-and-forget; failures never roll back the triggering
// operation.
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null" json:"user_id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	Category  string    `gorm:"column:category" json:"category"`
	Variant   string    `gorm:"column:variant" json:"variant"`
	Priority  string    `gorm:"column:priority" json:"priority"`
	Status    string    `gorm:"column:status;default:unread" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
