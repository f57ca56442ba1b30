package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/mail"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/validator"
)

const testConfigYAML = `
mailer:
  company_name: Sehatin
  support_email: support@sehatin.local
`

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type fakeMail struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestUsecase(t *testing.T) (*Usecase, *fakeMail) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	fm := &fakeMail{}
	uc := New(Dependency{
		Config:     cfg,
		Clock:      &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		Validator:  vld,
		RepoMail:   fm,
		Instrument: instrument.NewNoop(),
	})

	return uc, fm
}

func validInput() ConsumeOtpIssuedInput {
	return ConsumeOtpIssuedInput{
		UserID:    7,
		Email:     "user@example.com",
		Passcode:  "123456",
		Purpose:   "REGISTER",
		ExpiresAt: time.Date(2026, 3, 14, 9, 35, 0, 0, time.UTC).Unix(),
	}
}

func TestConsumeOtpIssued(t *testing.T) {
	t.Run("MalformedPayloadIsDropped", func(t *testing.T) {
		// Arrange
		uc, fm := newTestUsecase(t)
		in := validInput()
		in.Passcode = "12ab56"

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("malformed payload must be dropped without error, got %v", err)
		}
		if len(fm.sent) != 0 {
			t.Fatalf("no email may be sent for a malformed payload")
		}
	})

	t.Run("RegisterEmail", func(t *testing.T) {
		// Arrange
		uc, fm := newTestUsecase(t)

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), validInput())

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fm.sent) != 1 {
			t.Fatalf("expected one email, got %d", len(fm.sent))
		}
		msg := fm.sent[0]
		if msg.Subject != "Your verification code" {
			t.Fatalf("wrong subject: %q", msg.Subject)
		}
		if len(msg.To) != 1 || msg.To[0] != "user@example.com" {
			t.Fatalf("wrong recipient: %v", msg.To)
		}
		if !strings.Contains(msg.HTMLBody, "123456") {
			t.Fatalf("body must contain the passcode")
		}
		if !strings.Contains(msg.HTMLBody, "Sehatin") {
			t.Fatalf("body must contain the company name")
		}
	})

	t.Run("ForgotPasswordEmail", func(t *testing.T) {
		// Arrange
		uc, fm := newTestUsecase(t)
		in := validInput()
		in.Purpose = "FORGOT_PASSWORD"

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fm.sent[0].Subject != "Your password reset code" {
			t.Fatalf("wrong subject: %q", fm.sent[0].Subject)
		}
	})

	t.Run("SendFailureIsReturnedForRedelivery", func(t *testing.T) {
		// Arrange
		uc, fm := newTestUsecase(t)
		fm.sendErr = errors.New("smtp unavailable")

		// Act
		err := uc.ConsumeOtpIssued(context.Background(), validInput())

		// Assert
		if err == nil {
			t.Fatalf("delivery failure must propagate so the broker can redeliver")
		}
	})
}
