package invoice

import (
	"github.com/driveads/campaign-management/internal"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	"gorm.io/gorm"
)

var ErrInvoiceNotFound = internal.NewNotFoundError("Invoice not found", internal.ErrCodeInvoiceNotFound)

// ListQuery carries the optional filters for invoice listings.
type ListQuery struct {
	UserID     int64
	CampaignID int64
	Status     string
	Limit      int
	Offset     int
}

// Repository is the invoice data access contract.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(inv *invoiceDatamodel.Invoice) error
	GetByInvoiceID(invoiceID string) (*invoiceDatamodel.Invoice, error)
	GetPendingForCampaign(campaignID int64) (*invoiceDatamodel.Invoice, error)
	List(q ListQuery) ([]*invoiceDatamodel.Invoice, error)
	MarkSuccess(id int64) (int64, error)
	MarkFailed(id int64) (int64, error)
}
