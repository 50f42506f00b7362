package campaign

import (
	"time"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound    = internal.NewNotFoundError("Campaign not found", internal.ErrCodeCampaignNotFound)
	ErrDesignNotFound      = internal.NewNotFoundError("Design not found for this campaign", internal.ErrCodeDesignNotFound)
	ErrDesignNotApproved   = internal.NewStateError("Campaign design has not been approved", internal.ErrCodeDesignNotApproved)
	ErrDesignAlreadyExists = internal.NewConflictError("A design already exists for this campaign", internal.ErrCodeDesignAlreadyExists)
	ErrCampaignActive      = internal.NewStateError("Campaign is already active", internal.ErrCodeInvalidCampaignState)
	ErrNotSubmittable      = internal.NewStateError("Only draft campaigns can be submitted for review", internal.ErrCodeInvalidCampaignState)
	ErrNotFunded           = internal.NewStateError("Campaign has not been funded into escrow", internal.ErrCodeInvalidCampaignState)
)

// ListQuery carries the optional filters for admin campaign listings.
type ListQuery struct {
	Status  string
	Active  *bool
	OwnerID int64
	Limit   int
	Offset  int
}

// Repository is the campaign data access contract. Status transitions are
// conditional UPDATEs: the WHERE clause carries the precondition and callers
// inspect the affected row count instead of re-reading state first.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(c *campaignDatamodel.Campaign) error
	GetByID(id int64) (*campaignDatamodel.Campaign, error)
	GetOwned(id, ownerID int64) (*campaignDatamodel.Campaign, error)
	List(q ListQuery) ([]*campaignDatamodel.Campaign, error)
	ListForOwner(ownerID int64, limit, offset int) ([]*campaignDatamodel.Campaign, error)
	ListAvailable(limit, offset int) ([]*campaignDatamodel.Campaign, error)

	Submit(id, ownerID int64) (int64, error)
	MarkPaymentPending(id int64) (int64, error)
	SetEarningPerDriver(id, amount int64) error
	FinalizeApproval(id int64, statusType, printHousePhoneNo string, spentAt time.Time) (int64, error)

	ActivateDue(now time.Time) (int64, error)
	FindExpired(now time.Time) ([]*campaignDatamodel.Campaign, error)
	MarkCompleted(ids []int64) (int64, error)

	CreateDesign(d *campaignDatamodel.CampaignDesign) error
	GetDesignByCampaign(campaignID int64) (*campaignDatamodel.CampaignDesign, error)
	UpdateDesignStatus(campaignID int64, status string, comment *string) (int64, error)
	ReplaceDesignURL(campaignID int64, designURL string) (int64, error)
}

// TxManager runs a function inside a single database transaction.
type TxManager interface {
	InTransaction(fn func(tx *gorm.DB) error) error
}

// CompletionResult is what the manual completion sweep reports back.
type CompletionResult struct {
	Count     int64                         `json:"count"`
	Campaigns []*campaignDatamodel.Campaign `json:"campaigns"`
}
