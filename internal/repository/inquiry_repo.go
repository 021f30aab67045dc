package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"nexus-backend/internal/models"
)

type InquiryRepo struct {
	pool *pgxpool.Pool
}

func NewInquiryRepo(pool *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{pool: pool}
}

func (r *InquiryRepo) Create(ctx context.Context, inq *models.Inquiry) error {
	inq.ID = uuid.New()

	query := `INSERT INTO contact_inquiries (id, name, email, message)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	return r.pool.QueryRow(ctx, query, inq.ID, inq.Name, inq.Email, inq.Message).Scan(&inq.CreatedAt)
}

// List returns inquiries newest first, plus the total count.
func (r *InquiryRepo) List(ctx context.Context, limit, offset int) ([]*models.Inquiry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contact_inquiries").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, email, message, created_at
		FROM contact_inquiries ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		inq := &models.Inquiry{}
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Message, &inq.CreatedAt); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, inq)
	}
	return inquiries, total, rows.Err()
}
