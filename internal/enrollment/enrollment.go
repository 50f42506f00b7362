package enrollment

import (
	"github.com/driveads/campaign-management/internal"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	"gorm.io/gorm"
)

var (
	ErrAlreadyApplied     = internal.NewConflictError("Driver has already applied to this campaign", internal.ErrCodeAlreadyApplied)
	ErrEnrollmentNotFound = internal.NewNotFoundError("Enrollment not found", internal.ErrCodeEnrollmentNotFound)
	ErrNotPending         = internal.NewStateError("Enrollment is not awaiting approval", internal.ErrCodeEnrollmentNotFound)
	ErrNotPartOfCampaign  = internal.NewStateError("Driver is not an approved member of this campaign", internal.ErrCodeEnrollmentNotFound)
)

// Repository is the enrollment data access contract. The state transitions
// are conditional UPDATEs; zero affected rows means the precondition failed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(e *enrollmentDatamodel.DriverCampaign) error
	GetByCampaignAndDriver(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error)
	ListForCampaign(campaignID int64, status string, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error)
	ListForDriver(driverID int64, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error)

	Approve(campaignID, driverID int64) (int64, error)
	Reject(campaignID, driverID int64) (int64, error)
	Start(campaignID, driverID int64) (int64, error)
	CompleteForCampaigns(campaignIDs []int64) (int64, error)
}

// Completer exposes transactional enrollment completion to the campaign
// lifecycle without pulling in the full service and its campaign dependency.
type Completer struct {
	repo Repository
}

func NewCompleter(repo Repository) *Completer {
	return &Completer{repo: repo}
}

func (c *Completer) CompleteForCampaigns(tx *gorm.DB, campaignIDs []int64) (int64, error) {
	repo := c.repo
	if tx != nil {
		repo = c.repo.WithTx(tx)
	}
	return repo.CompleteForCampaigns(campaignIDs)
}
