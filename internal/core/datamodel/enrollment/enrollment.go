package enrollment

import "time"

// Enrollment statuses: pending_approval -> approved -> completed, with
// rejected terminal from either of the first two.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusCompleted       = "completed"
)

// DriverCampaign is a driver's enrollment in a campaign. At most one row
// exists per (campaign, driver) pair.
type DriverCampaign struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	CampaignID     int64      `gorm:"column:campaign_id;not null;uniqueIndex:idx_campaign_driver" json:"campaign_id"`
	UserID         int64      `gorm:"column:user_id;not null;uniqueIndex:idx_campaign_driver" json:"user_id"`
	CampaignStatus string     `gorm:"column:campaign_status;default:pending_approval" json:"campaign_status"`
	Active         bool       `gorm:"column:active;default:false" json:"active"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	Paid           bool       `gorm:"column:paid;default:false" json:"paid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DriverCampaign) TableName() string {
	return "driver_campaigns"
}
