package escrow

import (
	"log/slog"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	"gorm.io/gorm"
)

// CampaignFunder is the slice of the campaign store that escrow needs when an
// owner pays a campaign into escrow.
type CampaignFunder interface {
	GetOwnedCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error)
	MarkPaymentPending(tx *gorm.DB, campaignID int64) (int64, error)
	CreateInvoice(tx *gorm.DB, c *campaignDatamodel.Campaign) error
}

type Service struct {
	repo      Repository
	campaigns CampaignFunder
	tx        TxManager
	logger    *slog.Logger
}

func NewService(repo Repository, campaigns CampaignFunder, tx TxManager, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		tx:        tx,
		logger:    logger,
	}
}

// PayForCampaign moves the campaign price from the owner's balance into
// pending and marks the campaign as payment pending. Everything happens in
// one transaction: either the money, the campaign and the invoice all move,
// or none of them do.
func (s *Service) PayForCampaign(campaignID, ownerID int64) (*BalanceView, error) {
	c, err := s.campaigns.GetOwnedCampaign(campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	if c.Price <= 0 {
		return nil, internal.NewStateError("Campaign has no price set", internal.ErrCodeInvalidCampaignState)
	}

	err = s.tx.InTransaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.MoveBalanceToPending(ownerID, c.Price); err != nil {
			return err
		}

		rows, err := s.campaigns.MarkPaymentPending(tx, campaignID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return internal.NewStateError("Campaign is not awaiting payment", internal.ErrCodeInvalidCampaignState)
		}

		return s.campaigns.CreateInvoice(tx, c)
	})
	if err != nil {
		s.logger.Error("campaign payment failed",
			"campaign_id", campaignID,
			"owner_id", ownerID,
			"error", err)
		return nil, err
	}

	s.logger.Info("campaign funded into escrow",
		"campaign_id", campaignID,
		"owner_id", ownerID,
		"amount", c.Price)

	return s.Balances(ownerID)
}

// Balances returns the owner's current escrow balances.
func (s *Service) Balances(ownerID int64) (*BalanceView, error) {
	l, err := s.repo.GetLedger(ownerID)
	if err != nil {
		return nil, err
	}
	return &BalanceView{Balance: l.Balance, Pending: l.Pending, TotalSpent: l.TotalSpent}, nil
}
