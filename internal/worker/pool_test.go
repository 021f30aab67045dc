package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"nexus-backend/internal/models"
)

type recordingMailer struct {
	notifications []string
	receipts      []string
}

func (m *recordingMailer) SendInquiryNotification(to string, inq *models.Inquiry) error {
	m.notifications = append(m.notifications, to)
	return nil
}

func (m *recordingMailer) SendInquiryReceipt(inq *models.Inquiry) error {
	m.receipts = append(m.receipts, inq.Email)
	return nil
}

func TestPool_Process(t *testing.T) {
	mail := &recordingMailer{}
	p := NewPool(nil, mail, 1)
	inq := &models.Inquiry{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Message: "Hi"}

	assert.NoError(t, p.process(newMailJob(models.JobInquiryNotification, "team@nexus.test", inq)))
	assert.NoError(t, p.process(newMailJob(models.JobInquiryReceipt, "", inq)))
	assert.Error(t, p.process(&models.MailJob{Type: "newsletter"}))

	assert.Equal(t, []string{"team@nexus.test"}, mail.notifications)
	assert.Equal(t, []string{"ada@example.com"}, mail.receipts)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(&models.MailJob{RetryCount: 1, MaxRetries: 3}))
	assert.False(t, shouldRetry(&models.MailJob{RetryCount: 3, MaxRetries: 3}))
	assert.True(t, shouldRetry(&models.MailJob{RetryCount: 2}))
	assert.False(t, shouldRetry(&models.MailJob{RetryCount: 3}))
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 4*time.Second, backoff(2))
}

func TestNewMailJob(t *testing.T) {
	inq := &models.Inquiry{ID: uuid.New(), Email: "ada@example.com"}
	job := newMailJob(models.JobInquiryReceipt, "", inq)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, maxRetries, job.MaxRetries)
	assert.Equal(t, *inq, job.Inquiry)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestPool_HandleFailure(t *testing.T) {
	p := NewPool(nil, &recordingMailer{}, 1)
	sendErr := errors.New("smtp timeout")

	exhausted := &models.MailJob{ID: uuid.New(), Type: models.JobInquiryReceipt, RetryCount: 2, MaxRetries: 3}
	assert.False(t, p.handleFailure(context.Background(), exhausted, sendErr))
	assert.Equal(t, 3, exhausted.RetryCount)

	p.Stop()
	p.Stop()

	pending := &models.MailJob{ID: uuid.New(), Type: models.JobInquiryReceipt, MaxRetries: 3}
	assert.False(t, p.handleFailure(context.Background(), pending, sendErr))
	assert.Equal(t, 1, pending.RetryCount)
}
