package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/core/common/query"
	earningDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/earning"
	"github.com/driveads/campaign-management/internal/payout"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EarningRepository implements payout.Repository using GORM.
type EarningRepository struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) payout.Repository {
	return &EarningRepository{db: db}
}

func (r *EarningRepository) WithTx(tx *gorm.DB) payout.Repository {
	return &EarningRepository{db: tx}
}

func (r *EarningRepository) CreateEarning(e *earningDatamodel.Earning) error {
	return r.db.Create(e).Error
}

func (r *EarningRepository) GetEarning(id int64) (*earningDatamodel.Earning, error) {
	var e earningDatamodel.Earning
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payout.ErrEarningNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EarningRepository) GetUnapprovedEarning(id, userID int64) (*earningDatamodel.Earning, error) {
	var e earningDatamodel.Earning
	err := r.db.Where("id = ? AND user_id = ? AND approved = ?",
		id, userID, earningDatamodel.ApprovalUnapproved).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payout.ErrEarningNotFound
		}
		return nil, err
	}
	return &e, nil
}

// HasUnapprovedEarning reports whether the driver already has a payout
// request for this campaign awaiting review. A driver holds at most one open
// request per campaign, backed by a partial unique index on the table.
func (r *EarningRepository) HasUnapprovedEarning(campaignID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&earningDatamodel.Earning{}).
		Where("campaign_id = ? AND user_id = ? AND approved = ?",
			campaignID, userID, earningDatamodel.ApprovalUnapproved).
		Count(&count).Error
	return count > 0, err
}

func (r *EarningRepository) ListEarnings(q payout.EarningQuery) ([]*earningDatamodel.Earning, error) {
	spec := query.NewSpec().
		WhereIf(q.UserID != 0, "user_id", q.UserID).
		WhereIf(q.CampaignID != 0, "campaign_id", q.CampaignID).
		WhereIf(q.Approved != "", "approved", q.Approved).
		WhereIf(q.PaymentStatus != "", "payment_status", q.PaymentStatus).
		Paginate(q.Limit, q.Offset)

	var earnings []*earningDatamodel.Earning
	err := spec.Apply(r.db.Model(&earningDatamodel.Earning{})).
		Order("created_at DESC").
		Find(&earnings).Error
	return earnings, err
}

// ApproveEarning flips an unapproved earning to approved with the computed
// amount and idempotency reference. Zero rows means it was already resolved.
func (r *EarningRepository) ApproveEarning(id int64, reference string, amount int64) (int64, error) {
	result := r.db.Model(&earningDatamodel.Earning{}).
		Where("id = ? AND approved = ?", id, earningDatamodel.ApprovalUnapproved).
		Updates(map[string]interface{}{
			"approved":   earningDatamodel.ApprovalApproved,
			"reference":  reference,
			"amount":     amount,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *EarningRepository) RejectEarning(id int64, reason string) (int64, error) {
	result := r.db.Model(&earningDatamodel.Earning{}).
		Where("id = ? AND approved = ?", id, earningDatamodel.ApprovalUnapproved).
		Updates(map[string]interface{}{
			"approved":         earningDatamodel.ApprovalRejected,
			"rejection_reason": reason,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *EarningRepository) SetPaymentStatus(id int64, status string) error {
	return r.db.Model(&earningDatamodel.Earning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     time.Now(),
		}).Error
}

func (r *EarningRepository) GetBankDetail(userID int64) (*earningDatamodel.BankDetail, error) {
	var d earningDatamodel.BankDetail
	err := r.db.Where("user_id = ?", userID).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payout.ErrBankInfoNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *EarningRepository) UpsertBankDetail(d *earningDatamodel.BankDetail) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"bank_name", "account_number", "recipient_code", "updated_at",
		}),
	}).Create(d).Error
}
