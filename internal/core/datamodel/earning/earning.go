package earning

import "time"

const (
	ApprovalUnapproved = "UNAPPROVED"
	ApprovalApproved   = "APPROVED"
	ApprovalRejected   = "REJECTED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusUnpaid  = "UNPAID"
)

// Earning is a driver's payout request for a campaign. It is created
// unapproved and resolved by admin action.
type Earning struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	CampaignID      int64     `gorm:"column:campaign_id;not null" json:"campaign_id"`
	UserID          int64     `gorm:"column:user_id;not null" json:"user_id"`
	Amount          int64     `gorm:"column:amount;not null" json:"amount"`
	Approved        string    `gorm:"column:approved;default:UNAPPROVED" json:"approved"`
	PaymentStatus   string    `gorm:"column:payment_status;default:PENDING" json:"payment_status"`
	RejectionReason *string   `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	Reference       string    `gorm:"column:reference" json:"reference"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Earning) TableName() string {
	return "earnings"
}

// BankDetail stores the driver's payout destination; RecipientCode is the
// transfer collaborator's recipient handle.
type BankDetail struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BankName      string    `gorm:"column:bank_name" json:"bank_name"`
	AccountNumber string    `gorm:"column:account_number" json:"account_number"`
	RecipientCode *string   `gorm:"column:recipient_code" json:"recipient_code,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BankDetail) TableName() string {
	return "bank_details"
}
