package postgres

import (
	"testing"
	"time"

	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	"github.com/driveads/campaign-management/internal/invoice"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInvoiceRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "InvoiceRepository Suite")
}

type SQLiteInvoice struct {
	ID         int64      `gorm:"primaryKey"`
	InvoiceID  string     `gorm:"column:invoice_id;not null;uniqueIndex"`
	CampaignID int64      `gorm:"column:campaign_id;not null"`
	UserID     int64      `gorm:"column:user_id;not null"`
	Amount     int64      `gorm:"column:amount;not null"`
	Status     string     `gorm:"column:status;default:PENDING"`
	Date       time.Time  `gorm:"column:date"`
	DueDate    *time.Time `gorm:"column:due_date"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (SQLiteInvoice) TableName() string {
	return "invoices"
}

var _ = Describe("InvoiceRepository", func() {
	var (
		db   *gorm.DB
		repo invoice.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteInvoice{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewInvoiceRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	seedInvoice := func(invoiceID string, campaignID, userID int64) *invoiceDatamodel.Invoice {
		inv := &invoiceDatamodel.Invoice{
			InvoiceID:  invoiceID,
			CampaignID: campaignID,
			UserID:     userID,
			Amount:     200000,
			Status:     invoiceDatamodel.StatusPending,
			Date:       time.Now(),
		}
		err := repo.Create(inv)
		Expect(err).NotTo(HaveOccurred())
		return inv
	}

	Describe("GetByInvoiceID", func() {
		It("should find the invoice by its public reference", func() {
			seedInvoice("INV-aabbccdd", 10, 5)

			inv, err := repo.GetByInvoiceID("INV-aabbccdd")
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.CampaignID).To(Equal(int64(10)))
		})

		It("should return ErrInvoiceNotFound for an unknown reference", func() {
			_, err := repo.GetByInvoiceID("INV-ffffffff")
			Expect(err).To(Equal(invoice.ErrInvoiceNotFound))
		})
	})

	Describe("GetPendingForCampaign", func() {
		It("should skip settled invoices", func() {
			first := seedInvoice("INV-aabbccdd", 10, 5)
			rows, err := repo.MarkSuccess(first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			seedInvoice("INV-11223344", 10, 5)

			pending, err := repo.GetPendingForCampaign(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending.InvoiceID).To(Equal("INV-11223344"))
		})

		It("should return ErrInvoiceNotFound when everything is settled", func() {
			inv := seedInvoice("INV-aabbccdd", 10, 5)
			_, err := repo.MarkSuccess(inv.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.GetPendingForCampaign(10)
			Expect(err).To(Equal(invoice.ErrInvoiceNotFound))
		})
	})

	Describe("MarkSuccess", func() {
		It("should affect zero rows the second time", func() {
			inv := seedInvoice("INV-aabbccdd", 10, 5)

			rows, err := repo.MarkSuccess(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			rows, err = repo.MarkSuccess(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})

		It("should not settle a failed invoice", func() {
			inv := seedInvoice("INV-aabbccdd", 10, 5)

			rows, err := repo.MarkFailed(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			rows, err = repo.MarkSuccess(inv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			seedInvoice("INV-aabbccdd", 10, 5)
			seedInvoice("INV-11223344", 11, 5)
			inv := seedInvoice("INV-55667788", 12, 6)
			_, err := repo.MarkSuccess(inv.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should filter by owner", func() {
			invoices, err := repo.List(invoice.ListQuery{UserID: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(2))
		})

		It("should filter by status", func() {
			invoices, err := repo.List(invoice.ListQuery{Status: invoiceDatamodel.StatusSuccess})
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(1))
			Expect(invoices[0].UserID).To(Equal(int64(6)))
		})
	})
})
