package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/core/common/query"
	enrollmentDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/enrollment"
	"github.com/driveads/campaign-management/internal/enrollment"
	"gorm.io/gorm"
)

// EnrollmentRepository implements enrollment.Repository using GORM.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) enrollment.Repository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) enrollment.Repository {
	return &EnrollmentRepository{db: tx}
}

func (r *EnrollmentRepository) Create(e *enrollmentDatamodel.DriverCampaign) error {
	return r.db.Create(e).Error
}

func (r *EnrollmentRepository) GetByCampaignAndDriver(campaignID, driverID int64) (*enrollmentDatamodel.DriverCampaign, error) {
	var e enrollmentDatamodel.DriverCampaign
	err := r.db.Where("campaign_id = ? AND user_id = ?", campaignID, driverID).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, enrollment.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListForCampaign(campaignID int64, status string, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	spec := query.NewSpec().
		Where("campaign_id", campaignID).
		WhereIf(status != "", "campaign_status", status).
		Paginate(limit, offset)

	var enrollments []*enrollmentDatamodel.DriverCampaign
	err := spec.Apply(r.db.Model(&enrollmentDatamodel.DriverCampaign{})).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListForDriver(driverID int64, limit, offset int) ([]*enrollmentDatamodel.DriverCampaign, error) {
	var enrollments []*enrollmentDatamodel.DriverCampaign
	err := r.db.Where("user_id = ?", driverID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Approve(campaignID, driverID int64) (int64, error) {
	result := r.db.Model(&enrollmentDatamodel.DriverCampaign{}).
		Where("campaign_id = ? AND user_id = ? AND campaign_status = ?",
			campaignID, driverID, enrollmentDatamodel.StatusPendingApproval).
		Updates(map[string]interface{}{
			"campaign_status": enrollmentDatamodel.StatusApproved,
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *EnrollmentRepository) Reject(campaignID, driverID int64) (int64, error) {
	result := r.db.Model(&enrollmentDatamodel.DriverCampaign{}).
		Where("campaign_id = ? AND user_id = ? AND campaign_status IN ?",
			campaignID, driverID,
			[]string{enrollmentDatamodel.StatusPendingApproval, enrollmentDatamodel.StatusApproved}).
		Updates(map[string]interface{}{
			"campaign_status": enrollmentDatamodel.StatusRejected,
			"active":          false,
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Start sets the driver's start date exactly once. The start_date IS NULL
// guard makes a second proof approval a no-op instead of resetting the clock.
func (r *EnrollmentRepository) Start(campaignID, driverID int64) (int64, error) {
	result := r.db.Model(&enrollmentDatamodel.DriverCampaign{}).
		Where("campaign_id = ? AND user_id = ? AND campaign_status = ? AND start_date IS NULL",
			campaignID, driverID, enrollmentDatamodel.StatusApproved).
		Updates(map[string]interface{}{
			"start_date": time.Now(),
			"active":     true,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *EnrollmentRepository) CompleteForCampaigns(campaignIDs []int64) (int64, error) {
	result := r.db.Model(&enrollmentDatamodel.DriverCampaign{}).
		Where("campaign_id IN ? AND campaign_status = ?", campaignIDs, enrollmentDatamodel.StatusApproved).
		Updates(map[string]interface{}{
			"campaign_status": enrollmentDatamodel.StatusCompleted,
			"active":          false,
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}
