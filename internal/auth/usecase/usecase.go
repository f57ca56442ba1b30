package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/clock"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/denylist"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/hash"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/passcode"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/uid"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"go.opentelemetry.io/otel/trace"
)

type OtpIssuedEvent struct {
	UserID    int64
	Email     string
	Passcode  string
	Purpose   string
	ExpiresAt time.Time
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
}

type repoDB interface {
	CreateOtpChallenge(ctx context.Context, in entity.OtpChallenge) error
	GetOtpChallengeByTokenHash(ctx context.Context, tokenHash string) (*entity.OtpChallenge, error)
	ConsumeOtpChallenge(ctx context.Context, id int64, at time.Time) (bool, error)

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, in entity.RotateRefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error
}

type repoUser interface {
	Create(ctx context.Context, email, password string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	MarkEmailVerified(ctx context.Context, id int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoUser      repoUser
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	bcrypt        hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	passcode      passcode.Generator
	clock         clock.Clocker
	jwt           jwt.JWT
	denylist      denylist.Denylist
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoUser      repoUser
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Bcrypt        hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	Passcode      passcode.Generator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Denylist      denylist.Denylist
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoUser:      dep.RepoUser,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		oid:           dep.OID,
		passcode:      dep.Passcode,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		denylist:      dep.Denylist,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

// issueTokenPair creates a signed access token and a rotating opaque refresh
// token whose HMAC is persisted.
func (s *Usecase) issueTokenPair(ctx context.Context, userID int64, email string) (access, refresh string, err error) {
	access, err = s.jwt.Generate(userID, email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	refresh = s.oid.Generate()
	refreshHash, err := s.hmac.Hash(refresh)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	if err := s.repoDB.CreateRefreshToken(ctx, entity.RefreshToken{
		ID:        s.uid.Generate(),
		UserID:    userID,
		UserEmail: email,
		TokenHash: string(refreshHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.auth.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token", "user_id", userID, "error", err)
		return "", "", goerror.NewServer(err)
	}

	return access, refresh, nil
}

// issueOtpChallenge generates a passcode, binds it to a fresh session token,
// and persists exactly one challenge. Nothing is persisted when the token
// issuer fails. The passcode leaves through the otp-issued event only.
func (s *Usecase) issueOtpChallenge(ctx context.Context, userID int64, email string, purpose entity.OtpPurpose) (*entity.IssuedOtp, error) {
	code, err := s.passcode.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.auth.otp_ttl_minutes")
	expiresAt := s.clock.Now().Add(ttl)

	sessionToken, err := s.jwt.GenerateSession(userID, purpose.String(), ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp session token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	tokenHash, err := s.hmac.Hash(sessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp session token", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.CreateOtpChallenge(ctx, entity.OtpChallenge{
		ID:           s.uid.Generate(),
		UserID:       userID,
		TokenHash:    string(tokenHash),
		PasscodeHash: string(codeHash),
		Purpose:      purpose,
		ExpiresAt:    expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp challenge", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishOtpIssued(ctx, OtpIssuedEvent{
		UserID:    userID,
		Email:     email,
		Passcode:  code,
		Purpose:   purpose.String(),
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "user_id", userID, "error", err)
	}

	return &entity.IssuedOtp{
		SessionToken: sessionToken,
		Passcode:     code,
		ExpiresAt:    expiresAt,
	}, nil
}
