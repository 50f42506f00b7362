package payout

import (
	"github.com/driveads/campaign-management/internal"
	earningDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/earning"
	"gorm.io/gorm"
)

var (
	ErrEarningNotFound  = internal.NewNotFoundError("Earning not found", internal.ErrCodeEarningNotFound)
	ErrBankInfoNotFound = internal.NewNotFoundError("Bank details not found for this driver", internal.ErrCodeBankInfoNotFound)
	ErrNoProofFound     = internal.NewNotFoundError("No approved proof found for this campaign", internal.ErrCodeProofNotFound)
	ErrTooManyProofs    = internal.NewConflictError("More approved proofs than the campaign duration allows", internal.ErrCodeTooManyProofs)
	ErrPayoutPending    = internal.NewConflictError("A payout request for this campaign is already awaiting review", internal.ErrCodePayoutAlreadyPending)
	ErrMissingRate      = internal.NewValidationError("Campaign duration or earning rate is not set", internal.ErrCodeInvalidAmount)
)

// EarningQuery carries the optional filters for earning listings.
type EarningQuery struct {
	UserID        int64
	CampaignID    int64
	Approved      string
	PaymentStatus string
	Limit         int
	Offset        int
}

// Repository is the earning and bank detail data access contract.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateEarning(e *earningDatamodel.Earning) error
	GetEarning(id int64) (*earningDatamodel.Earning, error)
	GetUnapprovedEarning(id, userID int64) (*earningDatamodel.Earning, error)
	HasUnapprovedEarning(campaignID, userID int64) (bool, error)
	ListEarnings(q EarningQuery) ([]*earningDatamodel.Earning, error)
	ApproveEarning(id int64, reference string, amount int64) (int64, error)
	RejectEarning(id int64, reason string) (int64, error)
	SetPaymentStatus(id int64, status string) error

	GetBankDetail(userID int64) (*earningDatamodel.BankDetail, error)
	UpsertBankDetail(d *earningDatamodel.BankDetail) error
}
