package inquiry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func (s *PGStore) Create(ctx context.Context, in Inquiry) (Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	err := s.DB.QueryRow(ctx, `
		insert into inquiries (id, parent_name, email, phone, child_dob, location, program, message, client_ip)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning created_at
	`, in.ID, in.ParentName, in.Email, in.Phone, in.ChildDOB, in.Location, in.Program, in.Message, in.ClientIP).
		Scan(&in.CreatedAt)
	if err != nil {
		return in, fmt.Errorf("insert inquiry: %w", err)
	}
	return in, nil
}

func (s *PGStore) List(ctx context.Context, limit int) ([]Inquiry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.DB.Query(ctx, `
		select id, parent_name, email, phone, child_dob, location, program, message, client_ip, created_at
		from inquiries
		order by created_at desc
		limit $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Inquiry, error) {
		var in Inquiry
		err := row.Scan(&in.ID, &in.ParentName, &in.Email, &in.Phone, &in.ChildDOB,
			&in.Location, &in.Program, &in.Message, &in.ClientIP, &in.CreatedAt)
		return in, err
	})
}
