package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/core/common/query"
	proofDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/proof"
	"github.com/driveads/campaign-management/internal/proof"
	"gorm.io/gorm"
)

// ProofRepository implements proof.Repository using GORM.
type ProofRepository struct {
	db *gorm.DB
}

func NewProofRepository(db *gorm.DB) proof.Repository {
	return &ProofRepository{db: db}
}

func (r *ProofRepository) WithTx(tx *gorm.DB) proof.Repository {
	return &ProofRepository{db: tx}
}

func (r *ProofRepository) CreateInstallment(p *proofDatamodel.InstallmentProof) error {
	return r.db.Create(p).Error
}

func (r *ProofRepository) GetInstallment(campaignID, driverID int64) (*proofDatamodel.InstallmentProof, error) {
	var p proofDatamodel.InstallmentProof
	err := r.db.Where("campaign_id = ? AND user_id = ?", campaignID, driverID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, proof.ErrProofNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProofRepository) DecideInstallment(campaignID, driverID int64, status string, reason *string) (int64, error) {
	updates := map[string]interface{}{
		"status_type": status,
		"updated_at":  time.Now(),
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	result := r.db.Model(&proofDatamodel.InstallmentProof{}).
		Where("campaign_id = ? AND user_id = ? AND status_type = ?",
			campaignID, driverID, proofDatamodel.StatusPendingReview).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *ProofRepository) ListInstallments(campaignID int64, status string, limit, offset int) ([]*proofDatamodel.InstallmentProof, error) {
	spec := query.NewSpec().
		WhereIf(campaignID != 0, "campaign_id", campaignID).
		WhereIf(status != "", "status_type", status).
		Paginate(limit, offset)

	var proofs []*proofDatamodel.InstallmentProof
	err := spec.Apply(r.db.Model(&proofDatamodel.InstallmentProof{})).
		Order("created_at ASC").
		Find(&proofs).Error
	return proofs, err
}

func (r *ProofRepository) CreateWeekly(p *proofDatamodel.WeeklyProof) error {
	return r.db.Create(p).Error
}

func (r *ProofRepository) GetWeeklyByID(id int64) (*proofDatamodel.WeeklyProof, error) {
	var p proofDatamodel.WeeklyProof
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, proof.ErrProofNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProofRepository) DecideWeekly(id int64, status string, reason *string) (int64, error) {
	updates := map[string]interface{}{
		"status_type": status,
		"updated_at":  time.Now(),
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	result := r.db.Model(&proofDatamodel.WeeklyProof{}).
		Where("id = ? AND status_type = ?", id, proofDatamodel.StatusPendingReview).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *ProofRepository) ListWeekly(q proof.WeeklyQuery) ([]*proofDatamodel.WeeklyProof, error) {
	spec := query.NewSpec().
		WhereIf(q.CampaignID != 0, "campaign_id", q.CampaignID).
		WhereIf(q.DriverID != 0, "user_id", q.DriverID).
		WhereIf(q.Status != "", "status_type", q.Status).
		WhereIf(q.WeekNumber != 0, "week_number", q.WeekNumber).
		WhereIf(q.Month != 0, "month", q.Month).
		WhereIf(q.Year != 0, "year", q.Year).
		Paginate(q.Limit, q.Offset)

	var proofs []*proofDatamodel.WeeklyProof
	err := spec.Apply(r.db.Model(&proofDatamodel.WeeklyProof{})).
		Order("year ASC, week_number ASC").
		Find(&proofs).Error
	return proofs, err
}

func (r *ProofRepository) CountApprovedWeekly(campaignID, driverID int64) (int64, error) {
	var count int64
	err := r.db.Model(&proofDatamodel.WeeklyProof{}).
		Where("campaign_id = ? AND user_id = ? AND status_type = ?",
			campaignID, driverID, proofDatamodel.StatusApproved).
		Count(&count).Error
	return count, err
}
