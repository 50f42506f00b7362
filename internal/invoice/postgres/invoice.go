package postgres

import (
	"time"

	"github.com/driveads/campaign-management/internal/core/common/query"
	invoiceDatamodel "github.com/driveads/campaign-management/internal/core/datamodel/invoice"
	"github.com/driveads/campaign-management/internal/invoice"
	"gorm.io/gorm"
)

// InvoiceRepository implements invoice.Repository using GORM.
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) invoice.Repository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) WithTx(tx *gorm.DB) invoice.Repository {
	return &InvoiceRepository{db: tx}
}

func (r *InvoiceRepository) Create(inv *invoiceDatamodel.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *InvoiceRepository) GetByInvoiceID(invoiceID string) (*invoiceDatamodel.Invoice, error) {
	var inv invoiceDatamodel.Invoice
	err := r.db.Where("invoice_id = ?", invoiceID).First(&inv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetPendingForCampaign(campaignID int64) (*invoiceDatamodel.Invoice, error) {
	var inv invoiceDatamodel.Invoice
	err := r.db.Where("campaign_id = ? AND status = ?", campaignID, invoiceDatamodel.StatusPending).
		Order("created_at DESC").
		First(&inv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(q invoice.ListQuery) ([]*invoiceDatamodel.Invoice, error) {
	spec := query.NewSpec().
		WhereIf(q.UserID != 0, "user_id", q.UserID).
		WhereIf(q.CampaignID != 0, "campaign_id", q.CampaignID).
		WhereIf(q.Status != "", "status", q.Status).
		Paginate(q.Limit, q.Offset)

	var invoices []*invoiceDatamodel.Invoice
	err := spec.Apply(r.db.Model(&invoiceDatamodel.Invoice{})).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) MarkSuccess(id int64) (int64, error) {
	return r.setStatus(id, invoiceDatamodel.StatusSuccess)
}

func (r *InvoiceRepository) MarkFailed(id int64) (int64, error) {
	return r.setStatus(id, invoiceDatamodel.StatusFailed)
}

func (r *InvoiceRepository) setStatus(id int64, status string) (int64, error) {
	result := r.db.Model(&invoiceDatamodel.Invoice{}).
		Where("id = ? AND status = ?", id, invoiceDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
