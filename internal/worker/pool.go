package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"nexus-backend/internal/models"
)

type mailer interface {
	SendInquiryNotification(to string, inq *models.Inquiry) error
	SendInquiryReceipt(inq *models.Inquiry) error
}

// Pool delivers queued inquiry emails. Failed jobs are requeued with
// exponential backoff until MaxRetries is reached.
type Pool struct {
	redis       *redis.Client
	email       mailer
	workerCount int
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewPool(redisClient *redis.Client, email mailer, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		email:       email,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.WithField("workers", p.workerCount).Info("Started mail workers")
}

func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

func (p *Pool) stopped() bool {
	select {
	case <-p.stopChan:
		return true
	default:
		return false
	}
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.WithField("worker", id).Debug("Mail worker shutting down")
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 5s timeout so Stop is noticed promptly
		result, err := p.redis.BLPop(ctx, 5*time.Second, mailQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.MailJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.WithError(err).WithField("worker", id).Warn("failed to parse mail job")
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		if err := p.process(&job); err != nil {
			p.handleFailure(ctx, &job, err)
		} else {
			log.WithFields(log.Fields{"job_id": job.ID, "type": job.Type}).Debug("Mail job delivered")
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) process(job *models.MailJob) error {
	switch job.Type {
	case models.JobInquiryNotification:
		return p.email.SendInquiryNotification(job.To, &job.Inquiry)
	case models.JobInquiryReceipt:
		return p.email.SendInquiryReceipt(&job.Inquiry)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleFailure schedules a retry and reports whether it did. Nothing is
// requeued once the pool is stopping.
func (p *Pool) handleFailure(ctx context.Context, job *models.MailJob, err error) bool {
	job.RetryCount++
	fields := log.Fields{"job_id": job.ID, "type": job.Type, "attempt": job.RetryCount}

	if !shouldRetry(job) {
		log.WithError(err).WithFields(fields).Error("Mail job failed permanently")
		return false
	}
	if p.stopped() {
		log.WithError(err).WithFields(fields).Warn("Mail job failed during shutdown, dropping")
		return false
	}

	jobBytes, mErr := json.Marshal(job)
	if mErr != nil {
		log.WithError(mErr).WithFields(fields).Error("failed to encode mail job for retry")
		return false
	}

	log.WithError(err).WithFields(fields).Warn("Mail job failed, retrying")

	time.AfterFunc(backoff(job.RetryCount), func() {
		if p.stopped() {
			log.WithFields(fields).Warn("Pool stopped before retry, dropping mail job")
			return
		}
		if err := p.redis.RPush(context.Background(), mailQueue, jobBytes).Err(); err != nil {
			log.WithError(err).WithFields(fields).Error("failed to requeue mail job")
		}
	})
	return true
}

func shouldRetry(job *models.MailJob) bool {
	limit := job.MaxRetries
	if limit <= 0 {
		limit = maxRetries
	}
	return job.RetryCount < limit
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}
