package payout

import (
	"context"
	"fmt"
	"log/slog"

	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	earningDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/earning"
	"github.com/driveads/campaign-management/internal/core/events"
	"github.com/driveads/campaign-management/internal/transfer"
	"github.com/driveads/campaign-management/pkg/reference"
)

// CampaignReader provides the duration and rate the calculator needs.
type CampaignReader interface {
	GetCampaign(id int64) (*campaignDatamodel.Campaign, error)
}

// ProofCounter reports how many weekly proofs have been approved for a
// (campaign, driver) pair.
type ProofCounter interface {
	CountApprovedWeekly(campaignID, driverID int64) (int64, error)
}

// TransferGateway is the external payment provider.
type TransferGateway interface {
	InitiateTransfer(ctx context.Context, req *transfer.TransferRequest) (*transfer.TransferResponse, error)
	GetTransaction(ctx context.Context, id int64) (*transfer.TransactionResponse, error)
	ListTransactions(ctx context.Context, page, perPage int) (*transfer.TransactionListResponse, error)
}

type Notifier interface {
	Notify(userID int64, title, message, category string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// PayoutResult is returned from payout initialization: the resolved earning
// plus, on the approval path, the provider's response verbatim.
type PayoutResult struct {
	Earning  *earningDatamodel.Earning  `json:"earning"`
	Transfer *transfer.TransferResponse `json:"transfer,omitempty"`
}

type Service struct {
	repo      Repository
	campaigns CampaignReader
	proofs    ProofCounter
	transfers TransferGateway
	notifier  Notifier
	eventBus  EventPublisher
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	campaigns CampaignReader,
	proofs ProofCounter,
	transfers TransferGateway,
	notifier Notifier,
	eventBus EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		proofs:    proofs,
		transfers: transfers,
		notifier:  notifier,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// RequestPayout opens an unapproved earning for the driver. The calculator
// runs here too, so a driver with nothing to withdraw finds out immediately
// instead of after an admin round-trip.
func (s *Service) RequestPayout(driverID int64, dto *RequestPayoutDTO) (*earningDatamodel.Earning, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	open, err := s.repo.HasUnapprovedEarning(dto.CampaignID, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open payout requests: %w", err)
	}
	if open {
		return nil, ErrPayoutPending
	}

	amount, err := s.computeWithdrawable(dto.CampaignID, driverID)
	if err != nil {
		return nil, err
	}

	e := &earningDatamodel.Earning{
		CampaignID:    dto.CampaignID,
		UserID:        driverID,
		Amount:        amount,
		Approved:      earningDatamodel.ApprovalUnapproved,
		PaymentStatus: earningDatamodel.PaymentStatusPending,
	}
	if err := s.repo.CreateEarning(e); err != nil {
		s.logger.Error("failed to create earning", "error", err, "campaign_id", dto.CampaignID, "driver_id", driverID)
		return nil, fmt.Errorf("failed to create earning: %w", err)
	}

	s.logger.Info("payout requested",
		"earning_id", e.ID,
		"campaign_id", dto.CampaignID,
		"driver_id", driverID,
		"amount", amount)

	return e, nil
}

// InitializePayout resolves a pending earning. Declining marks it rejected
// with the admin's reason. Approving recomputes the withdrawable amount from
// the current approved proof count, marks the earning approved and invokes
// the transfer provider; the provider's response is returned verbatim and a
// provider failure propagates without local retry.
func (s *Service) InitializePayout(ctx context.Context, dto *InitializePayoutDTO) (*PayoutResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	earning, err := s.repo.GetUnapprovedEarning(dto.EarningID, dto.UserID)
	if err != nil {
		return nil, err
	}

	if !dto.Approve {
		rows, err := s.repo.RejectEarning(earning.ID, *dto.Reason)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, ErrEarningNotFound
		}

		s.logger.Info("payout declined",
			"earning_id", earning.ID,
			"driver_id", dto.UserID,
			"reason", *dto.Reason)

		s.notifier.Notify(dto.UserID,
			"Payout Declined",
			fmt.Sprintf("Your payout request was declined: %s", *dto.Reason),
			"payout")

		resolved, err := s.repo.GetEarning(earning.ID)
		if err != nil {
			return nil, err
		}
		return &PayoutResult{Earning: resolved}, nil
	}

	bank, err := s.repo.GetBankDetail(dto.UserID)
	if err != nil {
		return nil, err
	}
	if bank.RecipientCode == nil || *bank.RecipientCode == "" {
		return nil, ErrBankInfoNotFound
	}

	amount, err := s.computeWithdrawable(dto.CampaignID, dto.UserID)
	if err != nil {
		return nil, err
	}

	ref := reference.NewTransferRef()
	rows, err := s.repo.ApproveEarning(earning.ID, ref, amount)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrEarningNotFound
	}

	resp, err := s.transfers.InitiateTransfer(ctx, &transfer.TransferRequest{
		Amount:    amount,
		Recipient: *bank.RecipientCode,
		Reason:    "Campaign driver payout",
		Reference: ref,
	})
	if err != nil {
		if statusErr := s.repo.SetPaymentStatus(earning.ID, earningDatamodel.PaymentStatusUnpaid); statusErr != nil {
			s.logger.Error("failed to mark earning unpaid after transfer failure", "error", statusErr, "earning_id", earning.ID)
		}
		s.logger.Error("transfer failed",
			"earning_id", earning.ID,
			"driver_id", dto.UserID,
			"amount", amount,
			"error", err)
		return nil, err
	}

	if err := s.repo.SetPaymentStatus(earning.ID, earningDatamodel.PaymentStatusPaid); err != nil {
		s.logger.Error("failed to mark earning paid", "error", err, "earning_id", earning.ID)
	}

	s.logger.Info("payout initiated",
		"earning_id", earning.ID,
		"driver_id", dto.UserID,
		"amount", amount,
		"reference", ref)

	s.notifier.Notify(dto.UserID,
		"Payout Approved",
		fmt.Sprintf("Your payout of %d has been initiated.", amount),
		"payout")

	if err := s.eventBus.Publish(ctx, events.NewPayoutInitiatedEvent(
		earning.ID, dto.CampaignID, dto.UserID, amount, ref,
	)); err != nil {
		s.logger.Error("failed to publish payout initiated event", "error", err, "earning_id", earning.ID)
	}

	resolved, err := s.repo.GetEarning(earning.ID)
	if err != nil {
		return nil, err
	}
	return &PayoutResult{Earning: resolved, Transfer: resp}, nil
}

func (s *Service) ListEarnings(q EarningQuery) ([]*earningDatamodel.Earning, error) {
	return s.repo.ListEarnings(q)
}

func (s *Service) GetEarning(id int64) (*earningDatamodel.Earning, error) {
	return s.repo.GetEarning(id)
}

// UpsertBankDetail stores or replaces the driver's payout destination.
func (s *Service) UpsertBankDetail(driverID int64, dto *BankDetailDTO) (*earningDatamodel.BankDetail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &earningDatamodel.BankDetail{
		UserID:        driverID,
		BankName:      dto.BankName,
		AccountNumber: dto.AccountNumber,
		RecipientCode: dto.RecipientCode,
	}
	if err := s.repo.UpsertBankDetail(d); err != nil {
		s.logger.Error("failed to upsert bank detail", "error", err, "driver_id", driverID)
		return nil, fmt.Errorf("failed to save bank details: %w", err)
	}

	return d, nil
}

func (s *Service) GetBankDetail(driverID int64) (*earningDatamodel.BankDetail, error) {
	return s.repo.GetBankDetail(driverID)
}

func (s *Service) GetTransaction(ctx context.Context, id int64) (*transfer.TransactionResponse, error) {
	return s.transfers.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, page, perPage int) (*transfer.TransactionListResponse, error) {
	return s.transfers.ListTransactions(ctx, page, perPage)
}

func (s *Service) computeWithdrawable(campaignID, driverID int64) (int64, error) {
	c, err := s.campaigns.GetCampaign(campaignID)
	if err != nil {
		return 0, err
	}

	count, err := s.proofs.CountApprovedWeekly(campaignID, driverID)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved proofs: %w", err)
	}

	return Withdrawable(c.Duration, c.EarningPerDriver, count)
}
