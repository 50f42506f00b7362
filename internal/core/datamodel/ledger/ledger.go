package ledger

import "time"

// BusinessOwnerLedger holds an owner's escrow balances in integer minor
// units. Balance and pending must never go negative; money leaves the ledger
// only when a campaign's payment status reaches "spent".
type BusinessOwnerLedger struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BusinessName string    `gorm:"column:business_name" json:"business_name"`
	Balance      int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	Pending      int64     `gorm:"column:pending;not null;default:0" json:"pending"`
	TotalSpent   int64     `gorm:"column:total_spent;not null;default:0" json:"total_spent"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BusinessOwnerLedger) TableName() string {
	return "business_owner_ledgers"
}
