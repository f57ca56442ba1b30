package db

import (
	"context"
	"errors"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/jackc/pgx/v5"
)

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		insert into auth_refresh_tokens (id, user_id, user_email, token_hash, expires_at)
		values ($1, $2, $3, $4, $5)`,
		in.ID, in.UserID, in.UserEmail, in.TokenHash, in.ExpiresAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (out *entity.RefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetRefreshTokenByHash")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		select id, user_id, user_email, token_hash, expires_at, revoked, coalesce(replaced_by_token_id, 0)
		from auth_refresh_tokens
		where token_hash = $1`,
		tokenHash,
	)

	var rt entity.RefreshToken
	if err = s.mapError(row.Scan(
		&rt.ID, &rt.UserID, &rt.UserEmail, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedByTokenID,
	)); err != nil {
		return nil, err
	}

	return &rt, nil
}

// RotateRefreshToken revokes the old token and inserts its replacement in a
// single transaction.
func (s *DB) RotateRefreshToken(ctx context.Context, in entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, `
		insert into auth_refresh_tokens (id, user_id, user_email, token_hash, expires_at)
		values ($1, $2, $3, $4, $5)`,
		in.NewID, in.UserID, in.UserEmail, in.NewTokenHash, in.NewExpiresAt,
	); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, `
		update auth_refresh_tokens
		set revoked = true, replaced_by_token_id = $2
		where id = $1`,
		in.OldID, in.NewID,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		update auth_refresh_tokens
		set revoked = true
		where token_hash = $1`,
		tokenHash,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) RevokeAllRefreshTokens(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshTokens")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		update auth_refresh_tokens
		set revoked = true
		where user_id = $1 and not revoked`,
		userID,
	)
	err = s.mapError(err)
	return err
}
