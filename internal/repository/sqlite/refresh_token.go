package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
)

type refreshTokenRepository struct {
	store *Store
}

func NewRefreshTokenRepository(store *Store) auth.RefreshTokenRepository {
	return &refreshTokenRepository{store: store}
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, hashToken(token), formatTime(time.Unix(expiresAt, 0)), session.UserAgent, session.IPAddress, now(),
	)
	return err
}

func (r *refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	var (
		userID    string
		revokedAt sql.NullString
		expiresAt string
	)
	err := r.store.getQuerier(ctx).QueryRowContext(ctx, `
		SELECT user_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = ?
		ORDER BY expires_at DESC
		LIMIT 1`, hashToken(token)).Scan(&userID, &revokedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, auth.ErrInvalidToken
		}
		return "", false, err
	}

	expires, err := parseTime(expiresAt)
	if err != nil {
		return "", false, err
	}
	return userID, revokedAt.Valid || !expires.After(time.Now()), nil
}

func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked_at = ?
		WHERE token_hash = ? AND revoked_at IS NULL`, now(), hashToken(token))
	return err
}
