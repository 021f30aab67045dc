package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a contact form submission.
type Inquiry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type InquiryList struct {
	Inquiries []*Inquiry `json:"inquiries"`
	Total     int        `json:"total"`
}

type ConsentState struct {
	Accepted      bool `json:"accepted"`
	BannerDelayMs int  `json:"banner_delay_ms"`
}
