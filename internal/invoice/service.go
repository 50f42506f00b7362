package invoice

import (
	"fmt"
	"log/slog"
	"time"

	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	"github.com/driveads/campaign-management/pkg/reference"
	"gorm.io/gorm"
)

// Grace period between funding a campaign and the invoice falling due.
const dueAfter = 7 * 24 * time.Hour

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateForCampaign opens a pending invoice for a freshly funded campaign,
// inside the funding transaction.
func (s *Service) CreateForCampaign(tx *gorm.DB, c *campaignDatamodel.Campaign) (*invoiceDatamodel.Invoice, error) {
	now := time.Now()
	due := now.Add(dueAfter)

	inv := &invoiceDatamodel.Invoice{
		InvoiceID:  reference.NewInvoiceID(),
		CampaignID: c.ID,
		UserID:     c.UserID,
		Amount:     c.Price,
		Status:     invoiceDatamodel.StatusPending,
		Date:       now,
		DueDate:    &due,
	}
	if err := s.repo.WithTx(tx).Create(inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice opened",
		"invoice_id", inv.InvoiceID,
		"campaign_id", c.ID,
		"amount", c.Price)

	return inv, nil
}

// MarkSuccessForCampaign settles the campaign's pending invoice inside the
// approval transaction.
func (s *Service) MarkSuccessForCampaign(tx *gorm.DB, campaignID int64) (*invoiceDatamodel.Invoice, error) {
	repo := s.repo.WithTx(tx)

	inv, err := repo.GetPendingForCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	rows, err := repo.MarkSuccess(inv.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvoiceNotFound
	}

	inv.Status = invoiceDatamodel.StatusSuccess
	return inv, nil
}

// MarkFailedForCampaign voids the campaign's pending invoice, used when the
// funding is rolled back out of band.
func (s *Service) MarkFailedForCampaign(tx *gorm.DB, campaignID int64) (*invoiceDatamodel.Invoice, error) {
	repo := s.repo.WithTx(tx)

	inv, err := repo.GetPendingForCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	rows, err := repo.MarkFailed(inv.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvoiceNotFound
	}

	inv.Status = invoiceDatamodel.StatusFailed
	return inv, nil
}

func (s *Service) ListInvoices(q ListQuery) ([]*invoiceDatamodel.Invoice, error) {
	return s.repo.List(q)
}

// GetInvoice looks an invoice up by its public reference. A zero userID skips
// the ownership check, for admin access.
func (s *Service) GetInvoice(invoiceID string, userID int64) (*invoiceDatamodel.Invoice, error) {
	inv, err := s.repo.GetByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && inv.UserID != userID {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}
