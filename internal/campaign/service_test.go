package campaign_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/driveads/campaign-management/internal"
	"github.com/driveads/campaign-management/internal/campaign"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	"github.com/driveads/campaign-management/internal/core/events"
	"github.com/driveads/campaign-management/internal/escrow"
)

func TestCampaignService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Campaign Service Suite")
}

type mockCampaignRepository struct {
	campaigns map[int64]*campaignDatamodel.Campaign
	designs   map[int64]*campaignDatamodel.CampaignDesign
	nextID    int64
	createErr error
}

func newMockCampaignRepository() *mockCampaignRepository {
	return &mockCampaignRepository{
		campaigns: make(map[int64]*campaignDatamodel.Campaign),
		designs:   make(map[int64]*campaignDatamodel.CampaignDesign),
		nextID:    1,
	}
}

func (m *mockCampaignRepository) WithTx(tx *gorm.DB) campaign.Repository { return m }

func (m *mockCampaignRepository) Create(c *campaignDatamodel.Campaign) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = m.nextID
	m.nextID++
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepository) GetByID(id int64) (*campaignDatamodel.Campaign, error) {
	c, exists := m.campaigns[id]
	if !exists {
		return nil, campaign.ErrCampaignNotFound
	}
	return c, nil
}

func (m *mockCampaignRepository) GetOwned(id, ownerID int64) (*campaignDatamodel.Campaign, error) {
	c, exists := m.campaigns[id]
	if !exists || c.UserID != ownerID {
		return nil, campaign.ErrCampaignNotFound
	}
	return c, nil
}

func (m *mockCampaignRepository) List(q campaign.ListQuery) ([]*campaignDatamodel.Campaign, error) {
	var out []*campaignDatamodel.Campaign
	for _, c := range m.campaigns {
		if q.Status != "" && c.StatusType != q.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCampaignRepository) ListForOwner(ownerID int64, limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	var out []*campaignDatamodel.Campaign
	for _, c := range m.campaigns {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCampaignRepository) ListAvailable(limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	var out []*campaignDatamodel.Campaign
	for _, c := range m.campaigns {
		if c.StatusType == campaignDatamodel.StatusApproved && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCampaignRepository) Submit(id, ownerID int64) (int64, error) {
	c, exists := m.campaigns[id]
	if !exists || c.UserID != ownerID || c.StatusType != campaignDatamodel.StatusDraft {
		return 0, nil
	}
	c.StatusType = campaignDatamodel.StatusPending
	return 1, nil
}

func (m *mockCampaignRepository) MarkPaymentPending(id int64) (int64, error) {
	c, exists := m.campaigns[id]
	if !exists || c.StatusType != campaignDatamodel.StatusPending || c.PaymentStatus != campaignDatamodel.PaymentStatusNone {
		return 0, nil
	}
	c.PaymentStatus = campaignDatamodel.PaymentStatusPending
	return 1, nil
}

func (m *mockCampaignRepository) SetEarningPerDriver(id, amount int64) error {
	if c, exists := m.campaigns[id]; exists {
		c.EarningPerDriver = amount
	}
	return nil
}

func (m *mockCampaignRepository) FinalizeApproval(id int64, statusType, printHousePhoneNo string, spentAt time.Time) (int64, error) {
	c, exists := m.campaigns[id]
	if !exists || c.PaymentStatus != campaignDatamodel.PaymentStatusPending {
		return 0, nil
	}
	c.StatusType = statusType
	c.PaymentStatus = campaignDatamodel.PaymentStatusSpent
	c.SpentAt = &spentAt
	if printHousePhoneNo != "" {
		c.PrintHousePhoneNo = &printHousePhoneNo
	}
	return 1, nil
}

func (m *mockCampaignRepository) ActivateDue(now time.Time) (int64, error) {
	var rows int64
	for _, c := range m.campaigns {
		if c.StatusType == campaignDatamodel.StatusApproved && !c.Active &&
			c.StartDate != nil && !c.StartDate.After(now) &&
			c.EndDate != nil && c.EndDate.After(now) {
			c.Active = true
			rows++
		}
	}
	return rows, nil
}

func (m *mockCampaignRepository) FindExpired(now time.Time) ([]*campaignDatamodel.Campaign, error) {
	var out []*campaignDatamodel.Campaign
	for _, c := range m.campaigns {
		if c.EndDate != nil && !c.EndDate.After(now) &&
			c.StatusType != campaignDatamodel.StatusCompleted &&
			c.StatusType != campaignDatamodel.StatusDraft &&
			c.StatusType != campaignDatamodel.StatusRejected {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCampaignRepository) MarkCompleted(ids []int64) (int64, error) {
	var rows int64
	for _, id := range ids {
		if c, exists := m.campaigns[id]; exists && c.StatusType != campaignDatamodel.StatusCompleted {
			c.StatusType = campaignDatamodel.StatusCompleted
			c.Active = false
			rows++
		}
	}
	return rows, nil
}

func (m *mockCampaignRepository) CreateDesign(d *campaignDatamodel.CampaignDesign) error {
	d.ID = m.nextID
	m.nextID++
	m.designs[d.CampaignID] = d
	return nil
}

func (m *mockCampaignRepository) GetDesignByCampaign(campaignID int64) (*campaignDatamodel.CampaignDesign, error) {
	d, exists := m.designs[campaignID]
	if !exists {
		return nil, campaign.ErrDesignNotFound
	}
	return d, nil
}

func (m *mockCampaignRepository) UpdateDesignStatus(campaignID int64, status string, comment *string) (int64, error) {
	d, exists := m.designs[campaignID]
	if !exists {
		return 0, nil
	}
	d.ApprovalStatus = status
	d.Comment = comment
	return 1, nil
}

func (m *mockCampaignRepository) ReplaceDesignURL(campaignID int64, designURL string) (int64, error) {
	d, exists := m.designs[campaignID]
	if !exists {
		return 0, nil
	}
	d.DesignURL = designURL
	d.ApprovalStatus = ""
	d.Comment = nil
	return 1, nil
}

type mockEscrowRepo struct {
	pending        map[int64]int64
	moveToSpentErr error
}

func newMockEscrowRepo() *mockEscrowRepo {
	return &mockEscrowRepo{pending: make(map[int64]int64)}
}

func (m *mockEscrowRepo) WithTx(tx *gorm.DB) escrow.Repository { return m }

func (m *mockEscrowRepo) GetLedger(userID int64) (*ledgerDatamodel.BusinessOwnerLedger, error) {
	return nil, escrow.ErrOwnerNotFound
}

func (m *mockEscrowRepo) MoveBalanceToPending(userID, amount int64) error { return nil }

func (m *mockEscrowRepo) MovePendingToSpent(userID, amount int64) error {
	if m.moveToSpentErr != nil {
		return m.moveToSpentErr
	}
	if m.pending[userID] < amount {
		return escrow.ErrInsufficientPending
	}
	m.pending[userID] -= amount
	return nil
}

type mockInvoiceStore struct {
	created       int
	markedSuccess int
	markErr       error
}

func (m *mockInvoiceStore) CreateForCampaign(tx *gorm.DB, c *campaignDatamodel.Campaign) (*invoiceDatamodel.Invoice, error) {
	m.created++
	return &invoiceDatamodel.Invoice{CampaignID: c.ID, UserID: c.UserID, Amount: c.Price}, nil
}

func (m *mockInvoiceStore) MarkSuccessForCampaign(tx *gorm.DB, campaignID int64) (*invoiceDatamodel.Invoice, error) {
	if m.markErr != nil {
		return nil, m.markErr
	}
	m.markedSuccess++
	return &invoiceDatamodel.Invoice{InvoiceID: "INV-deadbeef", CampaignID: campaignID, Status: invoiceDatamodel.StatusSuccess}, nil
}

type mockEnrollmentCompleter struct {
	completedCampaigns []int64
}

func (m *mockEnrollmentCompleter) CompleteForCampaigns(tx *gorm.DB, campaignIDs []int64) (int64, error) {
	m.completedCampaigns = append(m.completedCampaigns, campaignIDs...)
	return int64(len(campaignIDs)), nil
}

type mockTxManager struct{}

func (m *mockTxManager) InTransaction(fn func(tx *gorm.DB) error) error { return fn(nil) }

type mockNotifier struct {
	notifications []string
}

func (m *mockNotifier) Notify(userID int64, title, message, category string) {
	m.notifications = append(m.notifications, title)
}

type mockEventBus struct {
	published []events.Event
}

func (m *mockEventBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("CampaignService", func() {
	var (
		repo        *mockCampaignRepository
		ledger      *mockEscrowRepo
		invoices    *mockInvoiceStore
		enrollments *mockEnrollmentCompleter
		notifier    *mockNotifier
		eventBus    *mockEventBus
		service     *campaign.Service
	)

	BeforeEach(func() {
		repo = newMockCampaignRepository()
		ledger = newMockEscrowRepo()
		invoices = &mockInvoiceStore{}
		enrollments = &mockEnrollmentCompleter{}
		notifier = &mockNotifier{}
		eventBus = &mockEventBus{}
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = campaign.NewService(repo, ledger, invoices, enrollments, &mockTxManager{}, notifier, eventBus, testLogger)
	})

	Describe("CreateCampaign", func() {
		It("should create a draft campaign with a derived end date", func() {
			start := time.Now().AddDate(0, 0, 7)
			c, err := service.CreateCampaign(&campaign.CreateCampaignDTO{
				CampaignName: "City wraps Q3",
				Duration:     28,
				Price:        400000,
				NoOfDrivers:  10,
				StartDate:    start,
			}, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.StatusType).To(Equal(campaignDatamodel.StatusDraft))
			Expect(c.EndDate.Sub(*c.StartDate)).To(Equal(28 * 24 * time.Hour))
		})

		It("should reject a campaign without a name", func() {
			_, err := service.CreateCampaign(&campaign.CreateCampaignDTO{
				Duration:    28,
				Price:       400000,
				NoOfDrivers: 10,
				StartDate:   time.Now().AddDate(0, 0, 7),
			}, 1)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a duration shorter than one week", func() {
			_, err := service.CreateCampaign(&campaign.CreateCampaignDTO{
				CampaignName: "Too short",
				Duration:     3,
				Price:        400000,
				NoOfDrivers:  10,
				StartDate:    time.Now().AddDate(0, 0, 7),
			}, 1)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("SubmitCampaign", func() {
		It("should move a draft into review", func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{ID: 1, UserID: 1, StatusType: campaignDatamodel.StatusDraft}

			c, err := service.SubmitCampaign(1, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.StatusType).To(Equal(campaignDatamodel.StatusPending))
		})

		It("should refuse to submit a campaign already in review", func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{ID: 1, UserID: 1, StatusType: campaignDatamodel.StatusPending}

			_, err := service.SubmitCampaign(1, 1)
			Expect(err).To(Equal(campaign.ErrNotSubmittable))
		})

		It("should hide other owners' campaigns", func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{ID: 1, UserID: 2, StatusType: campaignDatamodel.StatusDraft}

			_, err := service.SubmitCampaign(1, 1)
			Expect(err).To(Equal(campaign.ErrCampaignNotFound))
		})
	})

	Describe("UploadDesign", func() {
		BeforeEach(func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{ID: 1, UserID: 1, StatusType: campaignDatamodel.StatusPending}
		})

		It("should attach a design to the campaign", func() {
			d, err := service.UploadDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/banner.png"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.CampaignID).To(Equal(int64(1)))
		})

		It("should refuse a second design for the same campaign", func() {
			_, err := service.UploadDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/a.png"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UploadDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/b.png"})
			Expect(err).To(Equal(campaign.ErrDesignAlreadyExists))
		})
	})

	Describe("UpdateDesign", func() {
		BeforeEach(func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{ID: 1, UserID: 1, StatusType: campaignDatamodel.StatusPending}
			comment := "logo is blurry"
			repo.designs[1] = &campaignDatamodel.CampaignDesign{
				ID:             5,
				CampaignID:     1,
				DesignURL:      "https://cdn.example.com/v1.png",
				ApprovalStatus: campaignDatamodel.DesignReject,
				Comment:        &comment,
			}
		})

		It("should replace the artwork and clear the previous verdict", func() {
			d, err := service.UpdateDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/v2.png"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.DesignURL).To(Equal("https://cdn.example.com/v2.png"))
			Expect(d.ApprovalStatus).To(BeEmpty())
			Expect(d.Comment).To(BeNil())
		})

		It("should refuse once the campaign is approved", func() {
			repo.campaigns[1].StatusType = campaignDatamodel.StatusApproved

			_, err := service.UpdateDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/v2.png"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeState))
		})

		It("should fail when the campaign has no design yet", func() {
			delete(repo.designs, 1)

			_, err := service.UpdateDesign(1, 1, &campaign.UploadDesignDTO{DesignURL: "https://cdn.example.com/v2.png"})
			Expect(err).To(Equal(campaign.ErrDesignNotFound))
		})
	})

	Describe("DecideDesign", func() {
		BeforeEach(func() {
			repo.designs[1] = &campaignDatamodel.CampaignDesign{ID: 5, CampaignID: 1, ApprovalStatus: ""}
		})

		It("should approve a design", func() {
			d, err := service.DecideDesign(1, &campaign.DecideDesignDTO{Decision: campaignDatamodel.DesignApprove})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ApprovalStatus).To(Equal(campaignDatamodel.DesignApprove))
		})

		It("should require a comment when rejecting", func() {
			_, err := service.DecideDesign(1, &campaign.DecideDesignDTO{Decision: campaignDatamodel.DesignReject})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should forbid a comment when approving", func() {
			comment := "looks fine"
			_, err := service.DecideDesign(1, &campaign.DecideDesignDTO{Decision: campaignDatamodel.DesignApprove, Comment: &comment})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ApproveCampaign", func() {
		var dto *campaign.ApproveCampaignDTO

		BeforeEach(func() {
			repo.campaigns[1] = &campaignDatamodel.Campaign{
				ID:            1,
				UserID:        1,
				CampaignName:  "City wraps Q3",
				StatusType:    campaignDatamodel.StatusPending,
				PaymentStatus: campaignDatamodel.PaymentStatusPending,
				Price:         400000,
				NoOfDrivers:   10,
			}
			repo.designs[1] = &campaignDatamodel.CampaignDesign{ID: 5, CampaignID: 1, ApprovalStatus: campaignDatamodel.DesignApprove}
			ledger.pending[1] = 400000
			dto = &campaign.ApproveCampaignDTO{
				PricePerDriver:    40000,
				PrintHousePhoneNo: "+2348000000000",
				Decision:          campaignDatamodel.StatusApproved,
			}
		})

		It("should settle the campaign and release the escrowed money", func() {
			c, err := service.ApproveCampaign(1, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.StatusType).To(Equal(campaignDatamodel.StatusApproved))
			Expect(c.PaymentStatus).To(Equal(campaignDatamodel.PaymentStatusSpent))
			Expect(c.EarningPerDriver).To(Equal(int64(40000)))
			Expect(c.SpentAt).NotTo(BeNil())
			Expect(ledger.pending[1]).To(Equal(int64(0)))
			Expect(invoices.markedSuccess).To(Equal(1))
			Expect(notifier.notifications).To(HaveLen(1))
			Expect(eventBus.published).To(HaveLen(1))
		})

		It("should fail when no design exists", func() {
			delete(repo.designs, 1)

			_, err := service.ApproveCampaign(1, dto)
			Expect(err).To(Equal(campaign.ErrDesignNotApproved))
		})

		It("should fail when the design is not approved", func() {
			repo.designs[1].ApprovalStatus = campaignDatamodel.DesignReject

			_, err := service.ApproveCampaign(1, dto)
			Expect(err).To(Equal(campaign.ErrDesignNotApproved))
		})

		It("should fail when the campaign is already active", func() {
			repo.campaigns[1].Active = true

			_, err := service.ApproveCampaign(1, dto)
			Expect(err).To(Equal(campaign.ErrCampaignActive))
		})

		It("should fail when the campaign was never funded", func() {
			repo.campaigns[1].PaymentStatus = campaignDatamodel.PaymentStatusNone

			_, err := service.ApproveCampaign(1, dto)
			Expect(err).To(Equal(campaign.ErrNotFunded))
			Expect(invoices.markedSuccess).To(Equal(0))
		})

		It("should fail when pending escrow cannot cover the price", func() {
			ledger.pending[1] = 100000

			_, err := service.ApproveCampaign(1, dto)
			Expect(err).To(Equal(escrow.ErrInsufficientPending))
			Expect(invoices.markedSuccess).To(Equal(0))
		})

		It("should record a rejection without requiring pricing", func() {
			rejection := &campaign.ApproveCampaignDTO{Decision: campaignDatamodel.StatusRejected}

			c, err := service.ApproveCampaign(1, rejection)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.StatusType).To(Equal(campaignDatamodel.StatusRejected))
			Expect(c.PaymentStatus).To(Equal(campaignDatamodel.PaymentStatusSpent))
		})
	})

	Describe("ActivateDueCampaigns", func() {
		It("should activate approved campaigns inside their window", func() {
			start := time.Now().Add(-time.Hour)
			end := time.Now().Add(24 * time.Hour)
			repo.campaigns[1] = &campaignDatamodel.Campaign{
				ID: 1, StatusType: campaignDatamodel.StatusApproved, StartDate: &start, EndDate: &end,
			}

			rows, err := service.ActivateDueCampaigns()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))
			Expect(repo.campaigns[1].Active).To(BeTrue())
		})

		It("should be idempotent", func() {
			start := time.Now().Add(-time.Hour)
			end := time.Now().Add(24 * time.Hour)
			repo.campaigns[1] = &campaignDatamodel.Campaign{
				ID: 1, StatusType: campaignDatamodel.StatusApproved, StartDate: &start, EndDate: &end,
			}

			_, err := service.ActivateDueCampaigns()
			Expect(err).NotTo(HaveOccurred())

			rows, err := service.ActivateDueCampaigns()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})
	})

	Describe("CompleteCampaigns", func() {
		It("should complete expired campaigns and their enrollments", func() {
			end := time.Now().Add(-time.Hour)
			repo.campaigns[1] = &campaignDatamodel.Campaign{
				ID: 1, CampaignName: "Done deal", StatusType: campaignDatamodel.StatusApproved, Active: true, EndDate: &end,
			}

			result, err := service.CompleteCampaigns()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(int64(1)))
			Expect(repo.campaigns[1].StatusType).To(Equal(campaignDatamodel.StatusCompleted))
			Expect(repo.campaigns[1].Active).To(BeFalse())
			Expect(enrollments.completedCampaigns).To(ContainElement(int64(1)))
			Expect(eventBus.published).To(HaveLen(1))
		})

		It("should report an empty sweep when nothing expired", func() {
			result, err := service.CompleteCampaigns()
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Count).To(Equal(int64(0)))
			Expect(result.Campaigns).To(BeEmpty())
		})
	})
})
