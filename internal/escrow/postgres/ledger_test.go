package postgres

import (
	"testing"
	"time"

	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	"github.com/driveads/campaign-management/internal/escrow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLedgerRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LedgerRepository Suite")
}

type SQLiteLedger struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex"`
	BusinessName string    `gorm:"column:business_name"`
	Balance      int64     `gorm:"column:balance;not null;default:0"`
	Pending      int64     `gorm:"column:pending;not null;default:0"`
	TotalSpent   int64     `gorm:"column:total_spent;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteLedger) TableName() string {
	return "business_owner_ledgers"
}

var _ = Describe("LedgerRepository", func() {
	var (
		db   *gorm.DB
		repo escrow.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteLedger{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewLedgerRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	seedLedger := func(userID, balance, pending int64) {
		err := db.Create(&ledgerDatamodel.BusinessOwnerLedger{
			UserID:       userID,
			BusinessName: "Acme Rides",
			Balance:      balance,
			Pending:      pending,
		}).Error
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("GetLedger", func() {
		It("should return the owner's ledger", func() {
			seedLedger(1, 500000, 0)

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Balance).To(Equal(int64(500000)))
			Expect(l.Pending).To(Equal(int64(0)))
		})

		It("should return ErrOwnerNotFound for an unknown owner", func() {
			l, err := repo.GetLedger(42)
			Expect(err).To(Equal(escrow.ErrOwnerNotFound))
			Expect(l).To(BeNil())
		})
	})

	Describe("MoveBalanceToPending", func() {
		It("should move the amount from balance into pending", func() {
			seedLedger(1, 500000, 0)

			err := repo.MoveBalanceToPending(1, 200000)
			Expect(err).NotTo(HaveOccurred())

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Balance).To(Equal(int64(300000)))
			Expect(l.Pending).To(Equal(int64(200000)))
		})

		It("should allow moving the entire balance", func() {
			seedLedger(1, 200000, 0)

			err := repo.MoveBalanceToPending(1, 200000)
			Expect(err).NotTo(HaveOccurred())

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Balance).To(Equal(int64(0)))
			Expect(l.Pending).To(Equal(int64(200000)))
		})

		It("should refuse when the balance is too small", func() {
			seedLedger(1, 100000, 0)

			err := repo.MoveBalanceToPending(1, 200000)
			Expect(err).To(Equal(escrow.ErrInsufficientBalance))

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Balance).To(Equal(int64(100000)))
			Expect(l.Pending).To(Equal(int64(0)))
		})

		It("should refuse for an unknown owner", func() {
			err := repo.MoveBalanceToPending(42, 1000)
			Expect(err).To(Equal(escrow.ErrInsufficientBalance))
		})
	})

	Describe("MovePendingToSpent", func() {
		It("should release the amount out of pending", func() {
			seedLedger(1, 0, 200000)

			err := repo.MovePendingToSpent(1, 200000)
			Expect(err).NotTo(HaveOccurred())

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Pending).To(Equal(int64(0)))
			Expect(l.TotalSpent).To(Equal(int64(200000)))
		})

		It("should accumulate total spent across settlements", func() {
			seedLedger(1, 0, 500000)

			Expect(repo.MovePendingToSpent(1, 200000)).To(Succeed())
			Expect(repo.MovePendingToSpent(1, 100000)).To(Succeed())

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Pending).To(Equal(int64(200000)))
			Expect(l.TotalSpent).To(Equal(int64(300000)))
		})

		It("should refuse when pending is too small", func() {
			seedLedger(1, 0, 100000)

			err := repo.MovePendingToSpent(1, 200000)
			Expect(err).To(Equal(escrow.ErrInsufficientPending))

			l, err := repo.GetLedger(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Pending).To(Equal(int64(100000)))
		})

		It("should not touch other owners' ledgers", func() {
			seedLedger(1, 0, 200000)
			seedLedger(2, 0, 300000)

			err := repo.MovePendingToSpent(1, 200000)
			Expect(err).NotTo(HaveOccurred())

			other, err := repo.GetLedger(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Pending).To(Equal(int64(300000)))
		})
	})
})
