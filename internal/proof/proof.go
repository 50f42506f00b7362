package proof

import (
	"github.com/driveads/campaign-management/internal"
	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
	"gorm.io/gorm"
)

var (
	ErrProofNotFound      = internal.NewNotFoundError("Proof not found", internal.ErrCodeProofNotFound)
	ErrInstallmentExists  = internal.NewConflictError("An installation proof was already submitted for this campaign", internal.ErrCodeTooManyProofs)
	ErrAlreadyDecided     = internal.NewStateError("Proof has already been decided", internal.ErrCodeInvalidProofState)
	ErrEnrollmentInactive = internal.NewStateError("Driver has no active enrollment in this campaign", internal.ErrCodeEnrollmentNotFound)
	ErrEnrollmentNotReady = internal.NewStateError("Enrollment has not been approved yet", internal.ErrCodeEnrollmentNotFound)
)

// WeeklyQuery carries the admin's optional filters for weekly proof listings.
type WeeklyQuery struct {
	CampaignID int64
	DriverID   int64
	Status     string
	WeekNumber int
	Month      int
	Year       int
	Limit      int
	Offset     int
}

// Repository is the proof data access contract. Decisions are conditional
// UPDATEs guarded on pending_review.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateInstallment(p *proofDatamodel.InstallmentProof) error
	GetInstallment(campaignID, driverID int64) (*proofDatamodel.InstallmentProof, error)
	DecideInstallment(campaignID, driverID int64, status string, reason *string) (int64, error)
	ListInstallments(campaignID int64, status string, limit, offset int) ([]*proofDatamodel.InstallmentProof, error)

	CreateWeekly(p *proofDatamodel.WeeklyProof) error
	GetWeeklyByID(id int64) (*proofDatamodel.WeeklyProof, error)
	DecideWeekly(id int64, status string, reason *string) (int64, error)
	ListWeekly(q WeeklyQuery) ([]*proofDatamodel.WeeklyProof, error)
	CountApprovedWeekly(campaignID, driverID int64) (int64, error)
}

// TxManager runs a function inside a single database transaction.
type TxManager interface {
	InTransaction(fn func(tx *gorm.DB) error) error
}
