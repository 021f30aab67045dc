package models

import (
	"time"

	"github.com/google/uuid"
)

// Mail job types
const (
	JobInquiryNotification = "inquiry-notification"
	JobInquiryReceipt      = "inquiry-receipt"
)

// MailJob is one queued email about a contact inquiry.
type MailJob struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	To         string    `json:"to,omitempty"` // team inbox for notifications, unused for receipts
	Inquiry    Inquiry   `json:"inquiry"`
	RetryCount int       `json:"retry_count"`
	MaxRetries int       `json:"max_retries"`
	CreatedAt  time.Time `json:"created_at"`
}
