package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
)

type revocationStoreImpl struct {
	db *database.DB
}

// NewRevocationStore keeps revoked access tokens in the revoked_tokens table
func NewRevocationStore(db *database.DB) jwt.RevocationStore {
	return &revocationStoreImpl{db: db}
}

func (r *revocationStoreImpl) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	// expired rows are no longer needed to reject their token
	if _, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`); err != nil {
		return err
	}

	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at, revoked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := q.Exec(ctx, query, tokenHash, expiresAt.UTC())
	return err
}

func (r *revocationStoreImpl) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var expiresAt time.Time
	err := q.QueryRow(ctx, `SELECT expires_at FROM revoked_tokens WHERE token_hash = $1`, tokenHash).Scan(&expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return expiresAt.After(time.Now()), nil
}
