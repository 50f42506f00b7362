package escrow

import (
	"github.com/driveads/campaign-management/internal"
	ledgerDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/ledger"
	"gorm.io/gorm"
)

var (
	ErrOwnerNotFound       = internal.NewNotFoundError("Business owner not found", internal.ErrCodeOwnerNotFound)
	ErrInsufficientBalance = internal.NewConflictError("Insufficient balance to fund this campaign", internal.ErrCodeInsufficientBalance)
	ErrInsufficientPending = internal.NewConflictError("Insufficient pending balance to settle this campaign", internal.ErrCodeInsufficientPending)
)

// Repository is the ledger data access contract. WithTx returns a repository
// bound to the given transaction so money moves can nest inside a caller's
// transaction without untyped handles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetLedger(userID int64) (*ledgerDatamodel.BusinessOwnerLedger, error)
	MoveBalanceToPending(userID, amount int64) error
	MovePendingToSpent(userID, amount int64) error
}

// TxManager runs a function inside a single database transaction.
type TxManager interface {
	InTransaction(fn func(tx *gorm.DB) error) error
}

// BalanceView is what the caller sees after a money move.
type BalanceView struct {
	Balance    int64 `json:"balance"`
	Pending    int64 `json:"pending"`
	TotalSpent int64 `json:"total_spent"`
}
