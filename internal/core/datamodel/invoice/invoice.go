package invoice

import "time"

const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Invoice struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	InvoiceID  string     `gorm:"column:invoice_id;not null;uniqueIndex" json:"invoice_id"`
	CampaignID int64      `gorm:"column:campaign_id;not null" json:"campaign_id"`
	UserID     int64      `gorm:"column:user_id;not null" json:"user_id"`
	Amount     int64      `gorm:"column:amount;not null" json:"amount"`
	Status     string     `gorm:"column:status;default:PENDING" json:"status"`
	Date       time.Time  `gorm:"column:date" json:"date"`
	DueDate    *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}
