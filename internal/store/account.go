package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clinic-api/internal/model"
)

func (s *Store) CreateAccount(ctx context.Context, a *model.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (account_id, email, password, role) VALUES ($1,$2,$3,$4)`,
		a.ID, a.Email, a.Password, a.Role,
	)
	if isDuplicate(err) {
		return fmt.Errorf("account %w: %w", ErrDuplicate, err)
	}
	return err
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	a := &model.Account{}
	err := s.pool.QueryRow(ctx,
		`SELECT account_id, email, password, role, created_at, updated_at
		 FROM accounts WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.Password, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) UpdatePassword(ctx context.Context, email, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET password = $1, updated_at = NOW() WHERE email = $2`,
		hash, email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAccounts never selects the password column.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT account_id, email, role, created_at, updated_at
		 FROM accounts ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
