package proof

import "time"

const (
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusFlagged       = "flagged"
)

// InstallmentProof is the one-time installation proof a driver submits after
// enrollment approval. Its approval starts the driver's earning window.
type InstallmentProof struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	CampaignID      int64     `gorm:"column:campaign_id;not null;uniqueIndex:idx_installment_campaign_driver" json:"campaign_id"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex:idx_installment_campaign_driver" json:"user_id"`
	MediaURL        string    `gorm:"column:media_url" json:"media_url"`
	StatusType      string    `gorm:"column:status_type;default:pending_review" json:"status_type"`
	RejectionReason *string   `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InstallmentProof) TableName() string {
	return "installment_proofs"
}

// WeeklyProof is the recurring compliance proof; the count of approved weekly
// proofs feeds the payout calculator.
type WeeklyProof struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	CampaignID      int64     `gorm:"column:campaign_id;not null" json:"campaign_id"`
	UserID          int64     `gorm:"column:user_id;not null" json:"user_id"`
	MediaURL        string    `gorm:"column:media_url" json:"media_url"`
	WeekNumber      int       `gorm:"column:week_number" json:"week_number"`
	Month           int       `gorm:"column:month" json:"month"`
	Year            int       `gorm:"column:year" json:"year"`
	StatusType      string    `gorm:"column:status_type;default:pending_review" json:"status_type"`
	RejectionReason *string   `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	Comment         *string   `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WeeklyProof) TableName() string {
	return "weekly_proofs"
}
