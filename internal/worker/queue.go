package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nexus-backend/internal/models"
)

const (
	mailQueue      = "queue:inquiry-mail"
	enqueueTimeout = 2 * time.Second
	maxRetries     = 3
)

// MailQueue hands inquiry emails to the worker pool through Redis so the
// contact form never waits on SMTP.
type MailQueue struct {
	redis *redis.Client
}

func NewMailQueue(redisClient *redis.Client) *MailQueue {
	return &MailQueue{redis: redisClient}
}

func (q *MailQueue) SendInquiryNotification(to string, inq *models.Inquiry) error {
	return q.enqueue(newMailJob(models.JobInquiryNotification, to, inq))
}

func (q *MailQueue) SendInquiryReceipt(inq *models.Inquiry) error {
	return q.enqueue(newMailJob(models.JobInquiryReceipt, "", inq))
}

func newMailJob(jobType, to string, inq *models.Inquiry) *models.MailJob {
	return &models.MailJob{
		ID:         uuid.New(),
		Type:       jobType,
		To:         to,
		Inquiry:    *inq,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
	}
}

func (q *MailQueue) enqueue(job *models.MailJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode mail job: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	if err := q.redis.RPush(ctx, mailQueue, jobBytes).Err(); err != nil {
		return fmt.Errorf("failed to enqueue %s job: %w", job.Type, err)
	}
	return nil
}
