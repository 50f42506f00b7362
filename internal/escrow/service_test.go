package escrow_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	"github.com/driveads/campaign-management/internal/escrow"
)

func TestEscrowService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Escrow Service Suite")
}

type mockLedgerRepository struct {
	ledgers          map[int64]*ledgerDatamodel.BusinessOwnerLedger
	moveToPendingErr error
	moveToSpentErr   error
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{
		ledgers: make(map[int64]*ledgerDatamodel.BusinessOwnerLedger),
	}
}

func (m *mockLedgerRepository) WithTx(tx *gorm.DB) escrow.Repository {
	return m
}

func (m *mockLedgerRepository) GetLedger(userID int64) (*ledgerDatamodel.BusinessOwnerLedger, error) {
	l, exists := m.ledgers[userID]
	if !exists {
		return nil, escrow.ErrOwnerNotFound
	}
	return l, nil
}

func (m *mockLedgerRepository) MoveBalanceToPending(userID, amount int64) error {
	if m.moveToPendingErr != nil {
		return m.moveToPendingErr
	}
	l, exists := m.ledgers[userID]
	if !exists || l.Balance < amount {
		return escrow.ErrInsufficientBalance
	}
	l.Balance -= amount
	l.Pending += amount
	return nil
}

func (m *mockLedgerRepository) MovePendingToSpent(userID, amount int64) error {
	if m.moveToSpentErr != nil {
		return m.moveToSpentErr
	}
	l, exists := m.ledgers[userID]
	if !exists || l.Pending < amount {
		return escrow.ErrInsufficientPending
	}
	l.Pending -= amount
	l.TotalSpent += amount
	return nil
}

type mockCampaignFunder struct {
	campaigns          map[int64]*campaignDatamodel.Campaign
	markPendingRows    int64
	markPendingErr     error
	createInvoiceErr   error
	invoicesCreated    int
	markPendingCalled  int
	notOwnedOrNotFound error
}

func newMockCampaignFunder() *mockCampaignFunder {
	return &mockCampaignFunder{
		campaigns:       make(map[int64]*campaignDatamodel.Campaign),
		markPendingRows: 1,
	}
}

func (m *mockCampaignFunder) GetOwnedCampaign(campaignID, ownerID int64) (*campaignDatamodel.Campaign, error) {
	if m.notOwnedOrNotFound != nil {
		return nil, m.notOwnedOrNotFound
	}
	c, exists := m.campaigns[campaignID]
	if !exists || c.UserID != ownerID {
		return nil, internal.NewNotFoundError("Campaign not found", internal.ErrCodeCampaignNotFound)
	}
	return c, nil
}

func (m *mockCampaignFunder) MarkPaymentPending(tx *gorm.DB, campaignID int64) (int64, error) {
	m.markPendingCalled++
	if m.markPendingErr != nil {
		return 0, m.markPendingErr
	}
	return m.markPendingRows, nil
}

func (m *mockCampaignFunder) CreateInvoice(tx *gorm.DB, c *campaignDatamodel.Campaign) error {
	if m.createInvoiceErr != nil {
		return m.createInvoiceErr
	}
	m.invoicesCreated++
	return nil
}

type mockTxManager struct {
	err error
}

func (m *mockTxManager) InTransaction(fn func(tx *gorm.DB) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

var _ = Describe("EscrowService", func() {
	var (
		repo      *mockLedgerRepository
		campaigns *mockCampaignFunder
		service   *escrow.Service
	)

	BeforeEach(func() {
		repo = newMockLedgerRepository()
		campaigns = newMockCampaignFunder()
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = escrow.NewService(repo, campaigns, &mockTxManager{}, testLogger)
	})

	Describe("PayForCampaign", func() {
		BeforeEach(func() {
			repo.ledgers[1] = &ledgerDatamodel.BusinessOwnerLedger{UserID: 1, Balance: 500000, Pending: 0}
			campaigns.campaigns[10] = &campaignDatamodel.Campaign{
				ID:         10,
				UserID:     1,
				StatusType: campaignDatamodel.StatusPending,
				Price:      200000,
			}
		})

		It("should move the price into pending and create an invoice", func() {
			balances, err := service.PayForCampaign(10, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(balances.Balance).To(Equal(int64(300000)))
			Expect(balances.Pending).To(Equal(int64(200000)))
			Expect(campaigns.invoicesCreated).To(Equal(1))
		})

		It("should reject when the balance cannot cover the price", func() {
			repo.ledgers[1].Balance = 100000

			balances, err := service.PayForCampaign(10, 1)
			Expect(err).To(Equal(escrow.ErrInsufficientBalance))
			Expect(balances).To(BeNil())

			Expect(repo.ledgers[1].Balance).To(Equal(int64(100000)))
			Expect(repo.ledgers[1].Pending).To(Equal(int64(0)))
		})

		It("should reject when the campaign is not owned by the caller", func() {
			_, err := service.PayForCampaign(10, 2)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCampaignNotFound))
			Expect(campaigns.markPendingCalled).To(Equal(0))
		})

		It("should reject when the campaign has no price", func() {
			campaigns.campaigns[10].Price = 0

			_, err := service.PayForCampaign(10, 1)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeState))
		})

		It("should reject when the campaign already left the pending state", func() {
			campaigns.markPendingRows = 0

			_, err := service.PayForCampaign(10, 1)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidCampaignState))
		})
	})

	Describe("Balances", func() {
		It("should return the owner's balances", func() {
			repo.ledgers[1] = &ledgerDatamodel.BusinessOwnerLedger{UserID: 1, Balance: 750000, Pending: 250000, TotalSpent: 400000}

			balances, err := service.Balances(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(balances.Balance).To(Equal(int64(750000)))
			Expect(balances.Pending).To(Equal(int64(250000)))
			Expect(balances.TotalSpent).To(Equal(int64(400000)))
		})

		It("should return ErrOwnerNotFound for an unknown owner", func() {
			_, err := service.Balances(99)
			Expect(err).To(Equal(escrow.ErrOwnerNotFound))
		})
	})
})
