package db

import (
	"context"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
)

func (s *DB) CreateOtpChallenge(ctx context.Context, in entity.OtpChallenge) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOtpChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		insert into auth_otp_challenges (id, user_id, token_hash, passcode_hash, purpose, expires_at)
		values ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.UserID, in.TokenHash, in.PasscodeHash, in.Purpose.String(), in.ExpiresAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) GetOtpChallengeByTokenHash(ctx context.Context, tokenHash string) (out *entity.OtpChallenge, err error) {
	ctx, span := s.startSpan(ctx, "GetOtpChallengeByTokenHash")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		select id, user_id, token_hash, passcode_hash, purpose, expires_at, verified_at
		from auth_otp_challenges
		where token_hash = $1`,
		tokenHash,
	)

	var ch entity.OtpChallenge
	var purpose string
	if err = s.mapError(row.Scan(
		&ch.ID, &ch.UserID, &ch.TokenHash, &ch.PasscodeHash, &purpose, &ch.ExpiresAt, &ch.VerifiedAt,
	)); err != nil {
		return nil, err
	}
	ch.Purpose = entity.OtpPurposeFromString(purpose)

	return &ch, nil
}

// ConsumeOtpChallenge marks the challenge verified. It reports false when
// the challenge was already consumed by an earlier call.
func (s *DB) ConsumeOtpChallenge(ctx context.Context, id int64, at time.Time) (consumed bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOtpChallenge")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		update auth_otp_challenges
		set verified_at = $2
		where id = $1 and verified_at is null`,
		id, at,
	)
	if err = s.mapError(err); err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
