package enrollment

import (
	"fmt"
	"log/slog"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	"gorm.io/gorm"
)

// CampaignReader is the slice of the campaign module enrollment needs to
// check what a driver is applying to.
type CampaignReader interface {
	GetCampaign(id int64) (*campaignDatamodel.Campaign, error)
}

type Notifier interface {
	Notify(userID int64, title, message, category string)
}

type Service struct {
	repo      Repository
	campaigns CampaignReader
	notifier  Notifier
	logger    *slog.Logger
}

func NewService(repo Repository, campaigns CampaignReader, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		notifier:  notifier,
		logger:    logger,
	}
}

// Apply enrolls a driver into a campaign. A driver can hold at most one
// enrollment per campaign; a second application is a conflict.
func (s *Service) Apply(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error) {
	c, err := s.campaigns.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if c.StatusType != campaignDatamodel.StatusApproved {
		return nil, internal.NewStateError("Campaign is not open for applications", internal.ErrCodeInvalidCampaignState)
	}

	if _, err := s.repo.GetByCampaignAndDriver(campaignID, driverID); err == nil {
		return nil, ErrAlreadyApplied
	} else if _, ok := internal.IsAppError(err); !ok {
		return nil, err
	}

	e := &enrollmentDatamodel.DriverCampaign{
		CampaignID:     campaignID,
		UserID:         driverID,
		CampaignStatus: enrollmentDatamodel.StatusPendingApproval,
	}
	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create enrollment", "error", err, "campaign_id", campaignID, "driver_id", driverID)
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("driver applied to campaign", "campaign_id", campaignID, "driver_id", driverID)
	return e, nil
}

// Decide records the admin's verdict on a pending application.
func (s *Service) Decide(campaignID int64, dto *DecideEnrollmentDTO) (*enrollmentDatamodel.DriverCampaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var rows int64
	var err error
	if dto.Decision == enrollmentDatamodel.StatusApproved {
		rows, err = s.repo.Approve(campaignID, dto.DriverID)
	} else {
		rows, err = s.repo.Reject(campaignID, dto.DriverID)
	}
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.repo.GetByCampaignAndDriver(campaignID, dto.DriverID); err != nil {
			return nil, err
		}
		return nil, ErrNotPending
	}

	s.logger.Info("enrollment decided",
		"campaign_id", campaignID,
		"driver_id", dto.DriverID,
		"decision", dto.Decision)

	if dto.Decision == enrollmentDatamodel.StatusApproved {
		s.notifier.Notify(dto.DriverID,
			"Campaign Approved",
			"Your application was approved. Please provide an installation proof within 24 hours.",
			"enrollment")
	} else {
		s.notifier.Notify(dto.DriverID,
			"Campaign Application Rejected",
			fmt.Sprintf("Your application was rejected: %s", *dto.Reason),
			"enrollment")
	}

	return s.repo.GetByCampaignAndDriver(campaignID, dto.DriverID)
}

// StartDriverCampaign opens the driver's earning window. It fires exactly
// once, on the first installment proof approval, and only for an approved
// enrollment; anything else means the driver is not actually part of the
// campaign.
func (s *Service) StartDriverCampaign(tx *gorm.DB, campaignID, driverID int64) error {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	rows, err := repo.Start(campaignID, driverID)
	if err != nil {
		return err
	}
	if rows == 0 {
		e, err := repo.GetByCampaignAndDriver(campaignID, driverID)
		if err != nil {
			return err
		}
		// Already started: the first proof approval has been recorded before.
		if e.StartDate != nil {
			return nil
		}
		return ErrNotPartOfCampaign
	}

	s.logger.Info("driver campaign started", "campaign_id", campaignID, "driver_id", driverID)
	return nil
}

func (s *Service) ListApplications(campaignID int64, status string, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	return s.repo.ListForCampaign(campaignID, status, limit, offset)
}

func (s *Service) ListDriverEnrollments(driverID int64, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	return s.repo.ListForDriver(driverID, limit, offset)
}

func (s *Service) GetEnrollment(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error) {
	return s.repo.GetByCampaignAndDriver(campaignID, driverID)
}

// CompleteForCampaigns flips every approved enrollment of the given
// campaigns to completed. Called from the campaign completion sweep.
func (s *Service) CompleteForCampaigns(tx *gorm.DB, campaignIDs []int64) (int64, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	return repo.CompleteForCampaigns(campaignIDs)
}
