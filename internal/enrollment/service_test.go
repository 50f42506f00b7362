package enrollment_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/driveads/campaign-management/internal"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	"github.com/driveads/campaign-management/internal/enrollment"
)

func TestEnrollmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Enrollment Service Suite")
}

type enrollmentKey struct {
	campaignID int64
	driverID   int64
}

type mockEnrollmentRepository struct {
	enrollments map[enrollmentKey]*enrollmentDatamodel.DriverCampaign
	nextID      int64
}

func newMockEnrollmentRepository() *mockEnrollmentRepository {
	return &mockEnrollmentRepository{
		enrollments: make(map[enrollmentKey]*enrollmentDatamodel.DriverCampaign),
		nextID:      1,
	}
}

func (m *mockEnrollmentRepository) WithTx(tx *gorm.DB) enrollment.Repository { return m }

func (m *mockEnrollmentRepository) Create(e *enrollmentDatamodel.DriverCampaign) error {
	e.ID = m.nextID
	m.nextID++
	m.enrollments[enrollmentKey{e.CampaignID, e.UserID}] = e
	return nil
}

func (m *mockEnrollmentRepository) GetByCampaignAndDriver(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error) {
	e, exists := m.enrollments[enrollmentKey{campaignID, driverID}]
	if !exists {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	return e, nil
}

func (m *mockEnrollmentRepository) ListForCampaign(campaignID int64, status string, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	var out []*enrollmentDatamodel.DriverCampaign
	for _, e := range m.enrollments {
		if e.CampaignID == campaignID && (status == "" || e.CampaignStatus == status) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepository) ListForDriver(driverID int64, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	var out []*enrollmentDatamodel.DriverCampaign
	for _, e := range m.enrollments {
		if e.UserID == driverID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepository) Approve(campaignID, driverID int64) (int64, error) {
	e, exists := m.enrollments[enrollmentKey{campaignID, driverID}]
	if !exists || e.CampaignStatus != enrollmentDatamodel.StatusPendingApproval {
		return 0, nil
	}
	e.CampaignStatus = enrollmentDatamodel.StatusApproved
	return 1, nil
}

func (m *mockEnrollmentRepository) Reject(campaignID, driverID int64) (int64, error) {
	e, exists := m.enrollments[enrollmentKey{campaignID, driverID}]
	if !exists || (e.CampaignStatus != enrollmentDatamodel.StatusPendingApproval &&
		e.CampaignStatus != enrollmentDatamodel.StatusApproved) {
		return 0, nil
	}
	e.CampaignStatus = enrollmentDatamodel.StatusRejected
	e.Active = false
	return 1, nil
}

func (m *mockEnrollmentRepository) Start(campaignID, driverID int64) (int64, error) {
	e, exists := m.enrollments[enrollmentKey{campaignID, driverID}]
	if !exists || e.CampaignStatus != enrollmentDatamodel.StatusApproved || e.StartDate != nil {
		return 0, nil
	}
	now := time.Now()
	e.StartDate = &now
	e.Active = true
	return 1, nil
}

func (m *mockEnrollmentRepository) CompleteForCampaigns(campaignIDs []int64) (int64, error) {
	var rows int64
	for _, id := range campaignIDs {
		for _, e := range m.enrollments {
			if e.CampaignID == id && e.CampaignStatus == enrollmentDatamodel.StatusApproved {
				e.CampaignStatus = enrollmentDatamodel.StatusCompleted
				e.Active = false
				rows++
			}
		}
	}
	return rows, nil
}

type mockCampaignReader struct {
	campaigns map[int64]*campaignDatamodel.Campaign
}

func (m *mockCampaignReader) GetCampaign(id int64) (*campaignDatamodel.Campaign, error) {
	c, exists := m.campaigns[id]
	if !exists {
		return nil, internal.NewNotFoundError("Campaign not found", internal.ErrCodeCampaignNotFound)
	}
	return c, nil
}

type mockNotifier struct {
	titles []string
}

func (m *mockNotifier) Notify(userID int64, title, message, category string) {
	m.titles = append(m.titles, title)
}

var _ = Describe("EnrollmentService", func() {
	var (
		repo      *mockEnrollmentRepository
		campaigns *mockCampaignReader
		notifier  *mockNotifier
		service   *enrollment.Service
	)

	BeforeEach(func() {
		repo = newMockEnrollmentRepository()
		campaigns = &mockCampaignReader{campaigns: map[int64]*campaignDatamodel.Campaign{
			1: {ID: 1, StatusType: campaignDatamodel.StatusApproved, Active: true},
		}}
		notifier = &mockNotifier{}
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = enrollment.NewService(repo, campaigns, notifier, testLogger)
	})

	Describe("Apply", func() {
		It("should create a pending enrollment", func() {
			e, err := service.Apply(1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.CampaignStatus).To(Equal(enrollmentDatamodel.StatusPendingApproval))
		})

		It("should reject a duplicate application", func() {
			_, err := service.Apply(1, 7)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Apply(1, 7)
			Expect(err).To(Equal(enrollment.ErrAlreadyApplied))
		})

		It("should refuse applications to campaigns not yet approved", func() {
			campaigns.campaigns[2] = &campaignDatamodel.Campaign{ID: 2, StatusType: campaignDatamodel.StatusPending}

			_, err := service.Apply(2, 7)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeState))
		})

		It("should propagate campaign not found", func() {
			_, err := service.Apply(99, 7)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCampaignNotFound))
		})
	})

	Describe("Decide", func() {
		BeforeEach(func() {
			_, err := service.Apply(1, 7)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should approve a pending application and notify the driver", func() {
			e, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 7,
				Decision: enrollmentDatamodel.StatusApproved,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.CampaignStatus).To(Equal(enrollmentDatamodel.StatusApproved))
			Expect(notifier.titles).To(ContainElement("Campaign Approved"))
		})

		It("should reject with a reason", func() {
			reason := "vehicle type not eligible"
			e, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 7,
				Decision: enrollmentDatamodel.StatusRejected,
				Reason:   &reason,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.CampaignStatus).To(Equal(enrollmentDatamodel.StatusRejected))
		})

		It("should require a reason on rejection", func() {
			_, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 7,
				Decision: enrollmentDatamodel.StatusRejected,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should refuse to approve twice", func() {
			_, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 7,
				Decision: enrollmentDatamodel.StatusApproved,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 7,
				Decision: enrollmentDatamodel.StatusApproved,
			})
			Expect(err).To(Equal(enrollment.ErrNotPending))
		})

		It("should report an unknown driver as not found", func() {
			_, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{
				DriverID: 99,
				Decision: enrollmentDatamodel.StatusApproved,
			})
			Expect(err).To(Equal(enrollment.ErrEnrollmentNotFound))
		})
	})

	Describe("StartDriverCampaign", func() {
		BeforeEach(func() {
			_, err := service.Apply(1, 7)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should set the start date once for an approved enrollment", func() {
			_, err := service.Decide(1, &enrollment.DecideEnrollmentDTO{DriverID: 7, Decision: enrollmentDatamodel.StatusApproved})
			Expect(err).NotTo(HaveOccurred())

			err = service.StartDriverCampaign(nil, 1, 7)
			Expect(err).NotTo(HaveOccurred())

			e, err := service.GetEnrollment(1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.StartDate).NotTo(BeNil())
			Expect(e.Active).To(BeTrue())

			first := *e.StartDate
			err = service.StartDriverCampaign(nil, 1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(*e.StartDate).To(Equal(first))
		})

		It("should fail for a driver who was never approved", func() {
			err := service.StartDriverCampaign(nil, 1, 7)
			Expect(err).To(Equal(enrollment.ErrNotPartOfCampaign))
		})

		It("should fail for a driver with no enrollment at all", func() {
			err := service.StartDriverCampaign(nil, 1, 99)
			Expect(err).To(Equal(enrollment.ErrEnrollmentNotFound))
		})
	})

	Describe("CompleteForCampaigns", func() {
		It("should complete only approved enrollments", func() {
			_, err := service.Apply(1, 7)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Apply(1, 8)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Decide(1, &enrollment.DecideEnrollmentDTO{DriverID: 7, Decision: enrollmentDatamodel.StatusApproved})
			Expect(err).NotTo(HaveOccurred())

			rows, err := service.CompleteForCampaigns(nil, []int64{1})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			e, err := service.GetEnrollment(1, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.CampaignStatus).To(Equal(enrollmentDatamodel.StatusCompleted))
		})
	})
})
