package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

type OtpSendOutput struct {
	SessionToken string
	ExpiresAt    time.Time
}

// OtpSend issues a fresh registration challenge for the authenticated
// subject. The idempotency tracker absorbs duplicate sends inside the
// cooldown window.
func (s *Usecase) OtpSend(ctx context.Context) (*OtpSendOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpSend")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	var otp *entity.IssuedOtp
	err := s.idemp.Exec(ctx, "otp_send:"+strconv.FormatInt(clm.UserID, 10), func(ctx context.Context) error {
		issued, err := s.issueOtpChallenge(ctx, clm.UserID, clm.UserEmail, entity.OtpPurposeRegister)
		if err != nil {
			return err
		}
		otp = issued
		return nil
	},
		idempotency.WithLockDuration(s.cfg.GetSecond("modules.auth.otp_send_cooldown_seconds")),
		idempotency.WithStateTTL(s.cfg.GetSecond("modules.auth.otp_send_cooldown_seconds")),
	)
	if errors.Is(err, idempotency.ErrAlreadyInProgress) ||
		errors.Is(err, idempotency.ErrAlreadyCompleted) ||
		errors.Is(err, idempotency.ErrAlreadyFailed) {
		slog.WarnContext(ctx, "otp send throttled", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("an OTP was sent recently, try again later", goerror.CodeTooManyRequest)
	}
	if err != nil {
		return nil, err
	}

	return &OtpSendOutput{
		SessionToken: otp.SessionToken,
		ExpiresAt:    otp.ExpiresAt,
	}, nil
}
