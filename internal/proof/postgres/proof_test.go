package postgres

import (
	"testing"
	"time"

	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
	"github.com/driveads/campaign-management/internal/proof"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestProofRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ProofRepository Suite")
}

type SQLiteInstallmentProof struct {
	ID              int64     `gorm:"primaryKey"`
	CampaignID      int64     `gorm:"column:campaign_id;not null;uniqueIndex:idx_installment_campaign_driver"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex:idx_installment_campaign_driver"`
	MediaURL        string    `gorm:"column:media_url"`
	StatusType      string    `gorm:"column:status_type;default:pending_review"`
	RejectionReason *string   `gorm:"column:rejection_reason"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (SQLiteInstallmentProof) TableName() string {
	return "installment_proofs"
}

type SQLiteWeeklyProof struct {
	ID              int64     `gorm:"primaryKey"`
	CampaignID      int64     `gorm:"column:campaign_id;not null"`
	UserID          int64     `gorm:"column:user_id;not null"`
	MediaURL        string    `gorm:"column:media_url"`
	WeekNumber      int       `gorm:"column:week_number"`
	Month           int       `gorm:"column:month"`
	Year            int       `gorm:"column:year"`
	StatusType      string    `gorm:"column:status_type;default:pending_review"`
	RejectionReason *string   `gorm:"column:rejection_reason"`
	Comment         *string   `gorm:"column:comment"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (SQLiteWeeklyProof) TableName() string {
	return "weekly_proofs"
}

var _ = Describe("ProofRepository", func() {
	var (
		db   *gorm.DB
		repo proof.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteInstallmentProof{}, &SQLiteWeeklyProof{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewProofRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("installment proofs", func() {
		It("should enforce one installment proof per campaign and driver", func() {
			err := repo.CreateInstallment(&proofDatamodel.InstallmentProof{CampaignID: 1, UserID: 7, MediaURL: "a"})
			Expect(err).NotTo(HaveOccurred())

			err = repo.CreateInstallment(&proofDatamodel.InstallmentProof{CampaignID: 1, UserID: 7, MediaURL: "b"})
			Expect(err).To(HaveOccurred())
		})

		It("should decide a pending proof exactly once", func() {
			err := repo.CreateInstallment(&proofDatamodel.InstallmentProof{
				CampaignID: 1, UserID: 7, MediaURL: "a", StatusType: proofDatamodel.StatusPendingReview,
			})
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.DecideInstallment(1, 7, proofDatamodel.StatusApproved, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			rows, err = repo.DecideInstallment(1, 7, proofDatamodel.StatusRejected, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})

		It("should store the rejection reason", func() {
			err := repo.CreateInstallment(&proofDatamodel.InstallmentProof{
				CampaignID: 1, UserID: 7, MediaURL: "a", StatusType: proofDatamodel.StatusPendingReview,
			})
			Expect(err).NotTo(HaveOccurred())

			reason := "banner missing"
			_, err = repo.DecideInstallment(1, 7, proofDatamodel.StatusRejected, &reason)
			Expect(err).NotTo(HaveOccurred())

			p, err := repo.GetInstallment(1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(*p.RejectionReason).To(Equal("banner missing"))
		})
	})

	Describe("weekly proofs", func() {
		seedWeekly := func(campaignID, driverID int64, week int, status string) *proofDatamodel.WeeklyProof {
			p := &proofDatamodel.WeeklyProof{
				CampaignID: campaignID,
				UserID:     driverID,
				MediaURL:   "w",
				WeekNumber: week,
				Month:      7,
				Year:       2026,
				StatusType: status,
			}
			err := repo.CreateWeekly(p)
			Expect(err).NotTo(HaveOccurred())
			return p
		}

		It("should count only approved proofs for the pair", func() {
			seedWeekly(1, 7, 30, proofDatamodel.StatusApproved)
			seedWeekly(1, 7, 31, proofDatamodel.StatusApproved)
			seedWeekly(1, 7, 32, proofDatamodel.StatusRejected)
			seedWeekly(1, 8, 30, proofDatamodel.StatusApproved)
			seedWeekly(2, 7, 30, proofDatamodel.StatusApproved)

			count, err := repo.CountApprovedWeekly(1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("should filter listings by campaign, driver, status and week", func() {
			seedWeekly(1, 7, 30, proofDatamodel.StatusPendingReview)
			seedWeekly(1, 7, 31, proofDatamodel.StatusApproved)
			seedWeekly(1, 8, 30, proofDatamodel.StatusPendingReview)

			got, err := repo.ListWeekly(proof.WeeklyQuery{CampaignID: 1, DriverID: 7, Status: proofDatamodel.StatusPendingReview, Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].WeekNumber).To(Equal(30))
		})

		It("should decide a weekly proof exactly once", func() {
			p := seedWeekly(1, 7, 30, proofDatamodel.StatusPendingReview)

			rows, err := repo.DecideWeekly(p.ID, proofDatamodel.StatusApproved, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			rows, err = repo.DecideWeekly(p.ID, proofDatamodel.StatusRejected, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})

		It("should return ErrProofNotFound for an unknown weekly proof", func() {
			_, err := repo.GetWeeklyByID(999)
			Expect(err).To(Equal(proof.ErrProofNotFound))
		})
	})
})
