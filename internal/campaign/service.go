package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	"github.com/driveads/campaign-management/internal/core/events"
	"github.com/driveads/campaign-management/internal/escrow"
	"gorm.io/gorm"
)

// Notifier delivers in-app notifications. Delivery failures never roll back
// the operation that triggered them.
type Notifier interface {
	Notify(userID int64, title, message, category string)
}

// InvoiceStore is the slice of the invoice module the campaign lifecycle
// needs: one invoice per funded campaign, flipped to SUCCESS on approval.
type InvoiceStore interface {
	CreateForCampaign(tx *gorm.DB, c *campaignDatamodel.Campaign) (*invoiceDatamodel.Invoice, error)
	MarkSuccessForCampaign(tx *gorm.DB, campaignID int64) (*invoiceDatamodel.Invoice, error)
}

// EnrollmentCompleter flips a campaign's enrollments to completed when the
// campaign's run ends.
type EnrollmentCompleter interface {
	CompleteForCampaigns(tx *gorm.DB, campaignIDs []int64) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	ledger      escrow.Repository
	invoices    InvoiceStore
	enrollments EnrollmentCompleter
	tx          TxManager
	notifier    Notifier
	eventBus    EventPublisher
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	ledger escrow.Repository,
	invoices InvoiceStore,
	enrollments EnrollmentCompleter,
	tx TxManager,
	notifier Notifier,
	eventBus EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		ledger:      ledger,
		invoices:    invoices,
		enrollments: enrollments,
		tx:          tx,
		notifier:    notifier,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateCampaign registers a new draft campaign for the owner. The end date
// is derived from the start date plus the duration in days.
func (s *Service) CreateCampaign(dto *CreateCampaignDTO, ownerID int64) (*campaignDatamodel.Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	endDate := dto.StartDate.AddDate(0, 0, dto.Duration)
	c := &campaignDatamodel.Campaign{
		UserID:       ownerID,
		CampaignName: dto.CampaignName,
		Description:  dto.Description,
		State:        dto.State,
		StatusType:   campaignDatamodel.StatusDraft,
		Duration:     dto.Duration,
		Price:        dto.Price,
		NoOfDrivers:  dto.NoOfDrivers,
		StartDate:    &dto.StartDate,
		EndDate:      &endDate,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create campaign", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.Info("campaign created",
		"campaign_id", c.ID,
		"owner_id", ownerID,
		"price", c.Price,
		"duration", c.Duration)

	return c, nil
}

func (s *Service) GetCampaign(id int64) (*campaignDatamodel.Campaign, error) {
	return s.repo.GetByID(id)
}

// GetOwnedCampaign returns the campaign only if it belongs to the owner.
func (s *Service) GetOwnedCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error) {
	return s.repo.GetOwned(campaignID, ownerID)
}

func (s *Service) ListCampaigns(q ListQuery) ([]*campaignDatamodel.Campaign, error) {
	return s.repo.List(q)
}

func (s *Service) ListOwnerCampaigns(ownerID int64, limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	return s.repo.ListForOwner(ownerID, limit, offset)
}

// ListAvailableCampaigns returns the running campaigns drivers can apply to.
func (s *Service) ListAvailableCampaigns(limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	return s.repo.ListAvailable(limit, offset)
}

// SubmitCampaign moves a draft campaign into review.
func (s *Service) SubmitCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error) {
	rows, err := s.repo.Submit(campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.repo.GetOwned(campaignID, ownerID); err != nil {
			return nil, err
		}
		return nil, ErrNotSubmittable
	}

	s.logger.Info("campaign submitted for review", "campaign_id", campaignID, "owner_id", ownerID)
	return s.repo.GetByID(campaignID)
}

// UploadDesign attaches the banner artwork to an owned campaign. A campaign
// carries at most one design.
func (s *Service) UploadDesign(campaignID, ownerID int64, dto *UploadDesignDTO) (*campaignDatamodel.CampaignDesign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetOwned(campaignID, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetDesignByCampaign(campaignID); err == nil {
		return nil, ErrDesignAlreadyExists
	} else if _, ok := internal.IsAppError(err); !ok {
		return nil, err
	}

	d := &campaignDatamodel.CampaignDesign{
		CampaignID: campaignID,
		DesignURL:  dto.DesignURL,
	}
	if err := s.repo.CreateDesign(d); err != nil {
		s.logger.Error("failed to create design", "error", err, "campaign_id", campaignID)
		return nil, fmt.Errorf("failed to create design: %w", err)
	}

	s.logger.Info("design uploaded", "campaign_id", campaignID, "design_id", d.ID)
	return d, nil
}

// UpdateDesign replaces the artwork on an owned campaign, typically after a
// rejection. The new version loses any previous verdict and must be reviewed
// again.
func (s *Service) UpdateDesign(campaignID, ownerID int64, dto *UploadDesignDTO) (*campaignDatamodel.CampaignDesign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetOwned(campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	if c.StatusType == campaignDatamodel.StatusApproved || c.StatusType == campaignDatamodel.StatusCompleted {
		return nil, internal.NewStateError("Campaign design can no longer be changed", internal.ErrCodeInvalidCampaignState)
	}

	rows, err := s.repo.ReplaceDesignURL(campaignID, dto.DesignURL)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrDesignNotFound
	}

	s.logger.Info("design replaced", "campaign_id", campaignID, "owner_id", ownerID)
	return s.repo.GetDesignByCampaign(campaignID)
}

func (s *Service) GetDesign(campaignID int64) (*campaignDatamodel.CampaignDesign, error) {
	return s.repo.GetDesignByCampaign(campaignID)
}

// DecideDesign records the admin's verdict on a campaign design.
func (s *Service) DecideDesign(campaignID int64, dto *DecideDesignDTO) (*campaignDatamodel.CampaignDesign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.UpdateDesignStatus(campaignID, dto.Decision, dto.Comment)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrDesignNotFound
	}

	s.logger.Info("design decided", "campaign_id", campaignID, "decision", dto.Decision)
	return s.repo.GetDesignByCampaign(campaignID)
}

// ApproveCampaign finalizes a funded campaign: it settles the escrowed money
// and records the admin's verdict in one transaction.
//
// Preconditions checked up front: the campaign has a design and that design
// is approved. Inside the transaction: the campaign must not be active yet
// and must have its price sitting in the owner's pending escrow. Any step
// failing rolls the whole thing back so partial money movement is never
// observable.
func (s *Service) ApproveCampaign(campaignID int64, dto *ApproveCampaignDTO) (*campaignDatamodel.Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	design, err := s.repo.GetDesignByCampaign(campaignID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeDesignNotFound {
			return nil, ErrDesignNotApproved
		}
		return nil, err
	}
	if design.ApprovalStatus != campaignDatamodel.DesignApprove {
		return nil, ErrDesignNotApproved
	}

	var approved *campaignDatamodel.Campaign
	var inv *invoiceDatamodel.Invoice

	err = s.tx.InTransaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		c, err := repo.GetByID(campaignID)
		if err != nil {
			return err
		}
		if c.Active {
			return ErrCampaignActive
		}
		if c.PaymentStatus != campaignDatamodel.PaymentStatusPending {
			return ErrNotFunded
		}

		if dto.PricePerDriver > 0 {
			if err := repo.SetEarningPerDriver(campaignID, dto.PricePerDriver); err != nil {
				return err
			}
		}

		if err := s.ledger.WithTx(tx).MovePendingToSpent(c.UserID, c.Price); err != nil {
			return err
		}

		rows, err := repo.FinalizeApproval(campaignID, dto.Decision, dto.PrintHousePhoneNo, time.Now())
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFunded
		}

		inv, err = s.invoices.MarkSuccessForCampaign(tx, campaignID)
		if err != nil {
			return err
		}

		approved, err = repo.GetByID(campaignID)
		return err
	})
	if err != nil {
		s.logger.Error("campaign approval failed",
			"campaign_id", campaignID,
			"decision", dto.Decision,
			"error", err)
		return nil, err
	}

	s.logger.Info("campaign approval settled",
		"campaign_id", campaignID,
		"decision", dto.Decision,
		"invoice_id", inv.InvoiceID,
		"amount", approved.Price)

	s.notifier.Notify(approved.UserID,
		"Campaign "+dto.Decision,
		fmt.Sprintf("Your campaign %q has been %s. Invoice %s settled for %d.",
			approved.CampaignName, dto.Decision, inv.InvoiceID, approved.Price),
		"campaign")

	if err := s.eventBus.Publish(context.Background(), events.NewCampaignApprovedEvent(
		approved.ID, approved.UserID, inv.InvoiceID, approved.CampaignName,
		approved.Price, approved.NoOfDrivers, approved.StatusType,
		approved.StartDate, approved.EndDate,
	)); err != nil {
		s.logger.Error("failed to publish campaign approved event", "error", err, "campaign_id", campaignID)
	}

	return approved, nil
}

// ActivateDueCampaigns flips approved campaigns whose window has opened to
// active. Idempotent: re-running matches nothing new.
func (s *Service) ActivateDueCampaigns() (int64, error) {
	rows, err := s.repo.ActivateDue(time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to activate due campaigns: %w", err)
	}
	if rows > 0 {
		s.logger.Info("campaigns activated", "count", rows)
	}
	return rows, nil
}

// CompleteCampaigns finishes every campaign whose window has closed and
// completes its enrollments. Used by both the scheduler and the manual
// admin trigger.
func (s *Service) CompleteCampaigns() (*CompletionResult, error) {
	expired, err := s.repo.FindExpired(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to find expired campaigns: %w", err)
	}
	if len(expired) == 0 {
		return &CompletionResult{Count: 0, Campaigns: []*campaignDatamodel.Campaign{}}, nil
	}

	ids := make([]int64, 0, len(expired))
	for _, c := range expired {
		ids = append(ids, c.ID)
	}

	var completed int64
	err = s.tx.InTransaction(func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).MarkCompleted(ids)
		if err != nil {
			return err
		}
		completed = rows

		_, err = s.enrollments.CompleteForCampaigns(tx, ids)
		return err
	})
	if err != nil {
		s.logger.Error("campaign completion sweep failed", "error", err, "count", len(ids))
		return nil, err
	}

	s.logger.Info("campaigns completed", "count", completed)

	for _, c := range expired {
		if err := s.eventBus.Publish(context.Background(), events.NewCampaignCompletedEvent(c.ID, c.CampaignName)); err != nil {
			s.logger.Error("failed to publish campaign completed event", "error", err, "campaign_id", c.ID)
		}
	}

	return &CompletionResult{Count: completed, Campaigns: expired}, nil
}

// MarkPaymentPending flips the campaign into payment processing, guarded on
// the campaign still awaiting review payment.
func (s *Service) MarkPaymentPending(tx *gorm.DB, campaignID int64) (int64, error) {
	return s.repo.WithTx(tx).MarkPaymentPending(campaignID)
}

// CreateInvoice opens the escrow invoice for a freshly funded campaign.
func (s *Service) CreateInvoice(tx *gorm.DB, c *campaignDatamodel.Campaign) error {
	_, err := s.invoices.CreateForCampaign(tx, c)
	return err
}
