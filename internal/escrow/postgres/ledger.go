package postgres

import (
	"github.com/driveads/campaign-management/internal/escrow"

	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	"gorm.io/gorm"
)

// LedgerRepository implements escrow.Repository using GORM.
//
// The money moves are single conditional UPDATEs guarded in SQL, so two
// concurrent moves can never drive a balance negative: the loser of the race
// simply affects zero rows and gets a conflict error.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) escrow.Repository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) WithTx(tx *gorm.DB) escrow.Repository {
	return &LedgerRepository{db: tx}
}

func (r *LedgerRepository) GetLedger(userID int64) (*ledgerDatamodel.BusinessOwnerLedger, error) {
	var l ledgerDatamodel.BusinessOwnerLedger
	err := r.db.Where("user_id = ?", userID).First(&l).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, escrow.ErrOwnerNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LedgerRepository) MoveBalanceToPending(userID, amount int64) error {
	result := r.db.Model(&ledgerDatamodel.BusinessOwnerLedger{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance - ?", amount),
			"pending": gorm.Expr("pending + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return escrow.ErrInsufficientBalance
	}
	return nil
}

func (r *LedgerRepository) MovePendingToSpent(userID, amount int64) error {
	result := r.db.Model(&ledgerDatamodel.BusinessOwnerLedger{}).
		Where("user_id = ? AND pending >= ?", userID, amount).
		Updates(map[string]interface{}{
			"pending":     gorm.Expr("pending - ?", amount),
			"total_spent": gorm.Expr("total_spent + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return escrow.ErrInsufficientPending
	}
	return nil
}
