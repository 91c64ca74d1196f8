package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentTab string

const (
	TabWaiting PaymentTab = "waiting"
	TabPaid    PaymentTab = "paid"
)

func (t PaymentTab) Valid() bool {
	return t == TabWaiting || t == TabPaid
}

type InvoicePayment struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ReceiptNumber string          `json:"receiptNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Method        string          `json:"method"`
	PayerName     string          `json:"payerName"`
	PayerPhone    string          `json:"payerPhone"`
	AccountNumber string          `json:"accountNumber"`
	Reference     string          `json:"paymentRef"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Owner         *PersonRef      `json:"owner,omitempty"`
	Property      *PropertyRef    `json:"property,omitempty"`
	PaymentEvent  *PaymentEvent   `json:"paymentEvent,omitempty"`
	ApprovedBy    *PersonRef      `json:"approvedBy,omitempty"`
}

var paidStatuses = map[string]bool{
	"PAID":      true,
	"SUCCESS":   true,
	"COMPLETED": true,
	"APPROVED":  true,
}

// IsPaid treats PAID, SUCCESS, Completed and APPROVED alike.
func (p InvoicePayment) IsPaid() bool {
	return paidStatuses[strings.ToUpper(strings.TrimSpace(p.Status))]
}

type PropertyRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type PaymentEvent struct {
	Provider  string    `json:"provider"`
	EventID   string    `json:"eventId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type PaymentSummary struct {
	Waiting int `json:"waiting"`
	Paid    int `json:"paid"`
}
