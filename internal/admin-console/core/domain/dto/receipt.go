package dto

import "time"

// Receipt is a rendered payment receipt with sensitive fields already masked.
type Receipt struct {
	CompanyName   string
	ReceiptNumber string
	InvoiceNumber string
	Amount        string
	Currency      string
	Method        string
	Status        string
	PayerName     string
	PayerPhone    string
	AccountNumber string
	Reference     string
	PropertyTitle string
	OwnerName     string
	PaidAt        string
	IssuedAt      time.Time
	// QR is either a data URL or, when the image could not be fetched, the direct URL.
	QR string
}
