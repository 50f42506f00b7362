// Package reference generates the short identifiers used for invoices and
// outbound transfers. References combine a timestamp with a random token so
// collisions inside the transfer collaborator's idempotency window are
// unlikely; the collaborator is still expected to deduplicate by reference.
package reference

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewInvoiceID returns an invoice identifier like "INV-1a2b3c4d".
func NewInvoiceID() string {
	randomHex := uuid.NewString()[:8]
	return fmt.Sprintf("INV-%s", randomHex)
}

// NewTransferRef returns a transfer reference like "BNT-1719346800123-9F2C4E7A".
func NewTransferRef() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BNT-%d-%s", time.Now().UnixMilli(), token)
}
