// Package admins stores the staff accounts allowed to reload site data and
// read inquiries.
package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("admin not found")
	ErrExists   = errors.New("admin already exists")
)

type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

type Store interface {
	FindByUsername(ctx context.Context, username string) (Admin, error)
}

type PGStore struct {
	DB *pgxpool.Pool
}

func (s *PGStore) FindByUsername(ctx context.Context, username string) (Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a Admin
	err := s.DB.QueryRow(ctx,
		`select id::text, username, password_hash, role from admins where lower(username) = lower($1)`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (s *PGStore) Create(ctx context.Context, username, role, passwordHash string) (Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a := Admin{Username: username, Role: role, PasswordHash: passwordHash}
	err := s.DB.QueryRow(ctx, `
		insert into admins (username, password_hash, role)
		values ($1, $2, $3)
		returning id::text
	`, username, passwordHash, role).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return a, fmt.Errorf("%w: %q", ErrExists, username)
		}
		return a, err
	}
	return a, nil
}

// LinkTelegram stores the chat id used for admin notifications and returns
// the admin's username.
func (s *PGStore) LinkTelegram(ctx context.Context, adminID string, chatID int64) (string, error) {
	var username string
	err := s.DB.QueryRow(ctx, `
		update admins set telegram_chat_id = $1
		where id = $2::uuid
		returning username
	`, chatID, adminID).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return username, err
}

// ChatIDs lists the telegram chats of admins who linked one.
func (s *PGStore) ChatIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `select telegram_chat_id::text from admins where telegram_chat_id is not null`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
