package campaign

import "time"

// Campaign statuses progress draft -> pending -> approved/rejected -> completed.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Payment status only ever moves forward: "" -> pending -> spent.
const (
	PaymentStatusNone    = ""
	PaymentStatusPending = "pending"
	PaymentStatusSpent   = "spent"
)

const (
	DesignApprove = "APPROVE"
	DesignReject  = "REJECT"
)

type Campaign struct {
	ID                int64      `gorm:"primaryKey" json:"id"`
	UserID            int64      `gorm:"column:user_id;not null" json:"user_id"`
	CampaignName      string     `gorm:"column:campaign_name;not null" json:"campaign_name"`
	Description       string     `gorm:"column:description" json:"description"`
	State             string     `gorm:"column:state" json:"state"`
	StatusType        string     `gorm:"column:status_type;default:draft" json:"status_type"`
	Active            bool       `gorm:"column:active;default:false" json:"active"`
	PaymentStatus     string     `gorm:"column:payment_status;default:''" json:"payment_status"`
	Duration          int        `gorm:"column:duration" json:"duration"`
	Price             int64      `gorm:"column:price" json:"price"`
	EarningPerDriver  int64      `gorm:"column:earning_per_driver" json:"earning_per_driver"`
	NoOfDrivers       int        `gorm:"column:no_of_drivers" json:"no_of_drivers"`
	StartDate         *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate           *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	PrintHousePhoneNo *string    `gorm:"column:print_house_phone_no" json:"print_house_phone_no,omitempty"`
	SpentAt           *time.Time `gorm:"column:spent_at" json:"spent_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignDesign is the banner artwork uploaded for a campaign. A campaign
// carries at most one design; its approval status gates campaign approval.
type CampaignDesign struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	CampaignID     int64     `gorm:"column:campaign_id;not null;uniqueIndex" json:"campaign_id"`
	DesignURL      string    `gorm:"column:design_url" json:"design_url"`
	Comment        *string   `gorm:"column:comment" json:"comment,omitempty"`
	ApprovalStatus string    `gorm:"column:approval_status" json:"approval_status"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CampaignDesign) TableName() string {
	return "campaign_designs"
}
