package model

// PayoutStatus is computed by the server; the console never sets it.
type PayoutStatus string

const (
	PayoutCompleted PayoutStatus = "Completed"
	PayoutPending   PayoutStatus = "Pending"
	PayoutFailed    PayoutStatus = "Failed"
)

// Payout is a distribution run against a payment system as of a date.
type Payout struct {
	ID              string       `json:"_id"`
	PaymentSystemID string       `json:"paymentSystem"`
	AsOn            Date         `json:"asOnDate"`
	Note            string       `json:"note,omitempty"`
	Status          PayoutStatus `json:"status"`
}
