package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"nexus-backend/internal/models"
)

const maxInquiryMessage = 5000

type inquiryStore interface {
	Create(ctx context.Context, inq *models.Inquiry) error
	List(ctx context.Context, limit, offset int) ([]*models.Inquiry, int, error)
}

type inquiryMailer interface {
	SendInquiryNotification(to string, inq *models.Inquiry) error
	SendInquiryReceipt(inq *models.Inquiry) error
}

// InquiryService backs the contact form.
type InquiryService struct {
	repo      inquiryStore
	email     inquiryMailer
	teamInbox string
}

func NewInquiryService(repo inquiryStore, email inquiryMailer, teamInbox string) *InquiryService {
	return &InquiryService{
		repo:      repo,
		email:     email,
		teamInbox: teamInbox,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateInquiry(req models.CreateInquiryRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	} else if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		fieldErrors["email"] = "Invalid email format"
	}
	if strings.TrimSpace(req.Message) == "" {
		fieldErrors["message"] = "Message is required"
	} else if utf8.RuneCountInString(req.Message) > maxInquiryMessage {
		fieldErrors["message"] = "Message must be at most 5000 characters"
	}

	return fieldErrors
}

// Submit validates and stores an inquiry. Mail delivery is best effort.
func (s *InquiryService) Submit(ctx context.Context, req models.CreateInquiryRequest) (*models.Inquiry, error) {
	if fieldErrors := validateInquiry(req); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	inq := &models.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, inq); err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendInquiryNotification(s.teamInbox, inq); err != nil {
			log.WithError(err).WithField("inquiry_id", inq.ID).Warn("failed to notify team about inquiry")
		}
		if err := s.email.SendInquiryReceipt(inq); err != nil {
			log.WithError(err).WithField("inquiry_id", inq.ID).Warn("failed to send inquiry receipt")
		}
	}

	return inq, nil
}

func (s *InquiryService) List(ctx context.Context, limit, offset int) (*models.InquiryList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	inquiries, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if inquiries == nil {
		inquiries = []*models.Inquiry{}
	}
	return &models.InquiryList{Inquiries: inquiries, Total: total}, nil
}
