package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const consentKeyPrefix = "nexus_cookie_consent:"

// ConsentRepo stores the cookie banner acceptance per visitor.
type ConsentRepo struct {
	redis *redis.Client
}

func NewConsentRepo(redisClient *redis.Client) *ConsentRepo {
	return &ConsentRepo{redis: redisClient}
}

func consentKey(visitorID uuid.UUID) string {
	return consentKeyPrefix + visitorID.String()
}

func (r *ConsentRepo) Accepted(ctx context.Context, visitorID uuid.UUID) (bool, error) {
	val, err := r.redis.Get(ctx, consentKey(visitorID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

// Accept is written once and never expires.
func (r *ConsentRepo) Accept(ctx context.Context, visitorID uuid.UUID) error {
	return r.redis.Set(ctx, consentKey(visitorID), "true", 0).Err()
}
