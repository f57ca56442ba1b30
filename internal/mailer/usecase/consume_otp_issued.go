package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/mail"
)

type ConsumeOtpIssuedInput struct {
	UserID    int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	Passcode  string `validate:"required,otp"`
	Purpose   string `validate:"required"`
	ExpiresAt int64  `validate:"required"`
}

const otpEmailHTML = `<p>Hello,</p>
<p>Your verification code is <strong>{{.passcode}}</strong>.</p>
<p>The code expires at {{.expires_at}}. If you did not request it, you can ignore this email.</p>
<p>{{.company_name}} · {{.support_email}} · {{.year}}</p>`

// ConsumeOtpIssued sends the passcode email for an issued challenge.
// Malformed payloads are dropped, not retried.
func (s *Usecase) ConsumeOtpIssued(ctx context.Context, in ConsumeOtpIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "validation failed", "error", err)
		return nil
	}

	subject := "Your verification code"
	if in.Purpose == "FORGOT_PASSWORD" {
		subject = "Your password reset code"
	}

	data := s.baseEmailTemplateData()
	data["passcode"] = in.Passcode
	data["expires_at"] = time.Unix(in.ExpiresAt, 0).UTC().Format(time.RFC1123)

	htmlBody, err := s.renderTemplate("otp_issued", otpEmailHTML, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email template", "user_id", in.UserID, "error", err)
		return nil
	}

	if err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  subject,
		HTMLBody: htmlBody,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
