package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/campaign"
	"github.com/driveads/campaign-management/internal/core/common/query"
	campaignDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/campaign"
	"gorm.io/gorm"
)

// CampaignRepository implements campaign.Repository using GORM.
type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) campaign.Repository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) WithTx(tx *gorm.DB) campaign.Repository {
	return &CampaignRepository{db: tx}
}

func (r *CampaignRepository) Create(c *campaignDatamodel.Campaign) error {
	return r.db.Create(c).Error
}

func (r *CampaignRepository) GetByID(id int64) (*campaignDatamodel.Campaign, error) {
	var c campaignDatamodel.Campaign
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, campaign.ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) GetOwned(id, ownerID int64) (*campaignDatamodel.Campaign, error) {
	var c campaignDatamodel.Campaign
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, campaign.ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) List(q campaign.ListQuery) ([]*campaignDatamodel.Campaign, error) {
	spec := query.NewSpec().
		WhereIf(q.Status != "", "status_type", q.Status).
		WhereIf(q.OwnerID != 0, "user_id", q.OwnerID).
		Paginate(q.Limit, q.Offset)
	if q.Active != nil {
		spec.Where("active", *q.Active)
	}

	var campaigns []*campaignDatamodel.Campaign
	err := spec.Apply(r.db.Model(&campaignDatamodel.Campaign{})).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *CampaignRepository) ListForOwner(ownerID int64, limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	var campaigns []*campaignDatamodel.Campaign
	err := r.db.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&campaigns).Error
	return campaigns, err
}

// ListAvailable returns running campaigns drivers can still apply to.
func (r *CampaignRepository) ListAvailable(limit, offset int) ([]*campaignDatamodel.Campaign, error) {
	var campaigns []*campaignDatamodel.Campaign
	err := r.db.Where("status_type = ? AND active = ?", campaignDatamodel.StatusApproved, true).
		Order("start_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&campaigns).Error
	return campaigns, err
}

// Submit moves a draft to pending review. The draft precondition lives in the
// WHERE clause so a concurrent submit cannot double-fire.
func (r *CampaignRepository) Submit(id, ownerID int64) (int64, error) {
	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id = ? AND user_id = ? AND status_type = ?", id, ownerID, campaignDatamodel.StatusDraft).
		Updates(map[string]interface{}{
			"status_type": campaignDatamodel.StatusPending,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CampaignRepository) MarkPaymentPending(id int64) (int64, error) {
	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id = ? AND status_type = ? AND payment_status = ?",
			id, campaignDatamodel.StatusPending, campaignDatamodel.PaymentStatusNone).
		Updates(map[string]interface{}{
			"payment_status": campaignDatamodel.PaymentStatusPending,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CampaignRepository) SetEarningPerDriver(id, amount int64) error {
	return r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"earning_per_driver": amount,
			"updated_at":         time.Now(),
		}).Error
}

// FinalizeApproval settles the campaign: payment status goes to spent and the
// admin's verdict lands, but only while the payment is still pending. Zero
// rows means the campaign was never funded or was already settled.
func (r *CampaignRepository) FinalizeApproval(id int64, statusType, printHousePhoneNo string, spentAt time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status_type":    statusType,
		"payment_status": campaignDatamodel.PaymentStatusSpent,
		"spent_at":       spentAt,
		"updated_at":     time.Now(),
	}
	if printHousePhoneNo != "" {
		updates["print_house_phone_no"] = printHousePhoneNo
	}

	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id = ? AND payment_status = ?", id, campaignDatamodel.PaymentStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *CampaignRepository) ActivateDue(now time.Time) (int64, error) {
	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("status_type = ? AND active = ? AND start_date <= ? AND end_date > ?",
			campaignDatamodel.StatusApproved, false, now, now).
		Updates(map[string]interface{}{
			"active":     true,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CampaignRepository) FindExpired(now time.Time) ([]*campaignDatamodel.Campaign, error) {
	var campaigns []*campaignDatamodel.Campaign
	err := r.db.Where("end_date <= ? AND status_type NOT IN ?", now,
		[]string{campaignDatamodel.StatusCompleted, campaignDatamodel.StatusDraft, campaignDatamodel.StatusRejected}).
		Find(&campaigns).Error
	return campaigns, err
}

func (r *CampaignRepository) MarkCompleted(ids []int64) (int64, error) {
	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id IN ? AND status_type <> ?", ids, campaignDatamodel.StatusCompleted).
		Updates(map[string]interface{}{
			"status_type": campaignDatamodel.StatusCompleted,
			"active":      false,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *CampaignRepository) CreateDesign(d *campaignDatamodel.CampaignDesign) error {
	return r.db.Create(d).Error
}

func (r *CampaignRepository) GetDesignByCampaign(campaignID int64) (*campaignDatamodel.CampaignDesign, error) {
	var d campaignDatamodel.CampaignDesign
	err := r.db.Where("campaign_id = ?", campaignID).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, campaign.ErrDesignNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *CampaignRepository) UpdateDesignStatus(campaignID int64, status string, comment *string) (int64, error) {
	updates := map[string]interface{}{
		"approval_status": status,
		"updated_at":      time.Now(),
	}
	if comment != nil {
		updates["comment"] = *comment
	}

	result := r.db.Model(&campaignDatamodel.CampaignDesign{}).
		Where("campaign_id = ?", campaignID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ReplaceDesignURL swaps the artwork and resets the review verdict so the
// new version goes through approval again.
func (r *CampaignRepository) ReplaceDesignURL(campaignID int64, designURL string) (int64, error) {
	result := r.db.Model(&campaignDatamodel.CampaignDesign{}).
		Where("campaign_id = ?", campaignID).
		Updates(map[string]interface{}{
			"design_url":      designURL,
			"approval_status": "",
			"comment":         nil,
			"updated_at":      time.Now(),
		})
	return result.RowsAffected, result.Error
}
