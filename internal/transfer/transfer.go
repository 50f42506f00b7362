package transfer

import "encoding/json"

// TransferRequest is the payload sent to the payment provider when paying a
// driver out. Reference is the idempotency key; re-sending the same reference
// never double-pays.
type TransferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

// TransferResponse is the provider's reply, returned verbatim to callers.
type TransferResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransferData    `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

type TransferData struct {
	ID           int64  `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
	TransferCode string `json:"transfer_code"`
	Recipient    int64  `json:"recipient"`
	CreatedAt    string `json:"createdAt"`
}

// Transaction is a provider-side transaction record.
type Transaction struct {
	ID        int64  `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
	CreatedAt string `json:"created_at"`
}

type TransactionResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

type TransactionListResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    []Transaction `json:"data"`
	Meta    ListMeta      `json:"meta"`
}

type ListMeta struct {
	Total     int `json:"total"`
	PerPage   int `json:"perPage"`
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
}
