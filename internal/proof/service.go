package proof

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driveads/campaign-management/internal"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
	"github.com/driveads/campaign-management/internal/core/events"
	"gorm.io/gorm"
)

// EnrollmentGateway is the slice of the enrollment module proof handling
// needs: submission checks and the one-shot campaign start on first
// installment approval.
type EnrollmentGateway interface {
	GetEnrollment(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error)
	StartDriverCampaign(tx *gorm.DB, campaignID, driverID int64) error
}

type Notifier interface {
	Notify(userID int64, title, message, category string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	enrollments EnrollmentGateway
	tx          TxManager
	notifier    Notifier
	eventBus    EventPublisher
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	enrollments EnrollmentGateway,
	tx TxManager,
	notifier Notifier,
	eventBus EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		enrollments: enrollments,
		tx:          tx,
		notifier:    notifier,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// SubmitInstallment records the one-time installation proof. One per
// (campaign, driver); resubmission is a conflict.
func (s *Service) SubmitInstallment(driverID int64, dto *SubmitInstallmentDTO) (*proofDatamodel.InstallmentProof, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.enrollments.GetEnrollment(dto.CampaignID, driverID)
	if err != nil {
		return nil, err
	}
	if e.CampaignStatus != enrollmentDatamodel.StatusApproved {
		return nil, ErrEnrollmentNotReady
	}

	if _, err := s.repo.GetInstallment(dto.CampaignID, driverID); err == nil {
		return nil, ErrInstallmentExists
	} else if _, ok := internal.IsAppError(err); !ok {
		return nil, err
	}

	p := &proofDatamodel.InstallmentProof{
		CampaignID: dto.CampaignID,
		UserID:     driverID,
		MediaURL:   dto.MediaURL,
		StatusType: proofDatamodel.StatusPendingReview,
	}
	if err := s.repo.CreateInstallment(p); err != nil {
		s.logger.Error("failed to create installment proof", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		return nil, fmt.Errorf("failed to create installment proof: %w", err)
	}

	s.logger.Info("installment proof submitted", "campaign_id", dto.CampaignID, "driver_id", driverID)
	return p, nil
}

// DecideInstallment records the admin verdict on an installation proof.
// Approval also starts the driver's campaign clock, in the same transaction:
// if the driver turns out not to be an approved member, the whole decision
// fails and the proof stays pending.
func (s *Service) DecideInstallment(campaignID int64, dto *DecideProofDTO) (*proofDatamodel.InstallmentProof, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Decision == proofDatamodel.StatusApproved {
		err := s.tx.InTransaction(func(tx *gorm.DB) error {
			if err := s.enrollments.StartDriverCampaign(tx, campaignID, dto.DriverID); err != nil {
				return err
			}

			rows, err := s.repo.WithTx(tx).DecideInstallment(campaignID, dto.DriverID, proofDatamodel.StatusApproved, nil)
			if err != nil {
				return err
			}
			if rows == 0 {
				return s.installmentDecisionFailure(campaignID, dto.DriverID)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("installment approval failed", "error", err, "campaign_id", campaignID, "driver_id", dto.DriverID)
			return nil, err
		}
	} else {
		rows, err := s.repo.DecideInstallment(campaignID, dto.DriverID, proofDatamodel.StatusRejected, dto.Reason)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, s.installmentDecisionFailure(campaignID, dto.DriverID)
		}
	}

	s.logger.Info("installment proof decided",
		"campaign_id", campaignID,
		"driver_id", dto.DriverID,
		"decision", dto.Decision)

	s.notifyDecision(dto, "Installation Proof")

	p, err := s.repo.GetInstallment(campaignID, dto.DriverID)
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(context.Background(), events.NewProofDecidedEvent(
		p.ID, campaignID, dto.DriverID, "installment", dto.Decision, reasonOrEmpty(dto.Reason),
	)); err != nil {
		s.logger.Error("failed to publish proof decided event", "error", err, "proof_id", p.ID)
	}

	return p, nil
}

// SubmitWeekly records a periodic compliance proof. The driver's enrollment
// must have started, which implies the installation proof was approved.
func (s *Service) SubmitWeekly(driverID int64, dto *SubmitWeeklyDTO) (*proofDatamodel.WeeklyProof, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.enrollments.GetEnrollment(dto.CampaignID, driverID)
	if err != nil {
		return nil, err
	}
	if e.CampaignStatus != enrollmentDatamodel.StatusApproved || e.StartDate == nil {
		return nil, ErrEnrollmentInactive
	}

	p := &proofDatamodel.WeeklyProof{
		CampaignID: dto.CampaignID,
		UserID:     driverID,
		MediaURL:   dto.MediaURL,
		WeekNumber: dto.WeekNumber,
		Month:      dto.Month,
		Year:       dto.Year,
		StatusType: proofDatamodel.StatusPendingReview,
	}
	if err := s.repo.CreateWeekly(p); err != nil {
		s.logger.Error("failed to create weekly proof", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		return nil, fmt.Errorf("failed to create weekly proof: %w", err)
	}

	s.logger.Info("weekly proof submitted",
		"campaign_id", dto.CampaignID,
		"driver_id", driverID,
		"week", dto.WeekNumber)

	return p, nil
}

// DecideWeekly records the admin verdict on a weekly proof. Approving one
// moves no money; it only grows the count the payout calculator reads.
func (s *Service) DecideWeekly(proofID int64, dto *DecideProofDTO) (*proofDatamodel.WeeklyProof, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetWeeklyByID(proofID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DecideWeekly(proofID, dto.Decision, dto.Reason)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyDecided
	}

	s.logger.Info("weekly proof decided",
		"proof_id", proofID,
		"campaign_id", p.CampaignID,
		"driver_id", p.UserID,
		"decision", dto.Decision)

	decision := &DecideProofDTO{DriverID: p.UserID, Decision: dto.Decision, Reason: dto.Reason}
	s.notifyDecision(decision, "Weekly Proof")

	if err := s.eventBus.Publish(context.Background(), events.NewProofDecidedEvent(
		proofID, p.CampaignID, p.UserID, "weekly", dto.Decision, reasonOrEmpty(dto.Reason),
	)); err != nil {
		s.logger.Error("failed to publish proof decided event", "error", err, "proof_id", proofID)
	}

	return s.repo.GetWeeklyByID(proofID)
}

func (s *Service) ListInstallments(campaignID int64, status string, limit, offset int) ([]*proofDatamodel.InstallmentProof, error) {
	return s.repo.ListInstallments(campaignID, status, limit, offset)
}

func (s *Service) QueryWeekly(q WeeklyQuery) ([]*proofDatamodel.WeeklyProof, error) {
	return s.repo.ListWeekly(q)
}

// CountApprovedWeekly is the figure the payout calculator consumes.
func (s *Service) CountApprovedWeekly(campaignID, driverID int64) (int64, error) {
	return s.repo.CountApprovedWeekly(campaignID, driverID)
}

// installmentDecisionFailure distinguishes a missing proof from one that was
// already decided.
func (s *Service) installmentDecisionFailure(campaignID, driverID int64) error {
	if _, err := s.repo.GetInstallment(campaignID, driverID); err != nil {
		return err
	}
	return ErrAlreadyDecided
}

func (s *Service) notifyDecision(dto *DecideProofDTO, kind string) {
	if dto.Decision == proofDatamodel.StatusApproved {
		s.notifier.Notify(dto.DriverID, kind+" Approved", "Your "+kind+" has been approved.", "proof")
		return
	}
	s.notifier.Notify(dto.DriverID, kind+" Rejected",
		fmt.Sprintf("Your %s was rejected: %s", kind, reasonOrEmpty(dto.Reason)), "proof")
}

func reasonOrEmpty(reason *string) string {
	if reason == nil {
		return ""
	}
	return *reason
}
