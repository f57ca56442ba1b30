package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/hash"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const testConfigYAML = `
jwt:
  ttl_minutes: 15
modules:
  auth:
    refresh_token_ttl_days: 30
    otp_ttl_minutes: 5
    otp_send_cooldown_seconds: 60
`

const testRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct {
	prefix string
	n      int
}

func (f *fakeStringID) Generate() string {
	f.n++
	return fmt.Sprintf("%s-%d", f.prefix, f.n)
}

type fakePasscode struct {
	code string
	err  error
}

func (f *fakePasscode) Generate() (string, error) {
	return f.code, f.err
}

type fakeJWT struct {
	real               jwt.JWT
	generateErr        error
	generateSessionErr error
}

func (f *fakeJWT) Generate(uid int64, email string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.real.Generate(uid, email)
}

func (f *fakeJWT) Verify(tokenStr string) (jwt.Claims, error) {
	return f.real.Verify(tokenStr)
}

func (f *fakeJWT) GenerateSession(uid int64, purpose string, ttl time.Duration) (string, error) {
	if f.generateSessionErr != nil {
		return "", f.generateSessionErr
	}
	return f.real.GenerateSession(uid, purpose, ttl)
}

func (f *fakeJWT) VerifySession(tokenStr string) (jwt.SessionClaims, error) {
	return f.real.VerifySession(tokenStr)
}

type fakeDB struct {
	otpChallenges  []entity.OtpChallenge
	refreshTokens  []entity.RefreshToken
	rotations      []entity.RotateRefreshToken
	revokedHashes  []string
	revokedUserIDs []int64
	consumedIDs    []int64

	getOtpChallenge func(tokenHash string) (*entity.OtpChallenge, error)
	getRefreshToken func(tokenHash string) (*entity.RefreshToken, error)
	consumeResult   bool
	consumeErr      error
	createOtpErr    error
	createTokenErr  error
	rotateErr       error
	revokeErr       error
	revokeAllErr    error
}

func (f *fakeDB) CreateOtpChallenge(_ context.Context, in entity.OtpChallenge) error {
	if f.createOtpErr != nil {
		return f.createOtpErr
	}
	f.otpChallenges = append(f.otpChallenges, in)
	return nil
}

func (f *fakeDB) GetOtpChallengeByTokenHash(_ context.Context, tokenHash string) (*entity.OtpChallenge, error) {
	return f.getOtpChallenge(tokenHash)
}

func (f *fakeDB) ConsumeOtpChallenge(_ context.Context, id int64, _ time.Time) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	if f.consumeResult {
		f.consumedIDs = append(f.consumedIDs, id)
	}
	return f.consumeResult, nil
}

func (f *fakeDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	if f.createTokenErr != nil {
		return f.createTokenErr
	}
	f.refreshTokens = append(f.refreshTokens, in)
	return nil
}

func (f *fakeDB) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	return f.getRefreshToken(tokenHash)
}

func (f *fakeDB) RotateRefreshToken(_ context.Context, in entity.RotateRefreshToken) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	f.rotations = append(f.rotations, in)
	return nil
}

func (f *fakeDB) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revokedHashes = append(f.revokedHashes, tokenHash)
	return nil
}

func (f *fakeDB) RevokeAllRefreshTokens(_ context.Context, userID int64) error {
	if f.revokeAllErr != nil {
		return f.revokeAllErr
	}
	f.revokedUserIDs = append(f.revokedUserIDs, userID)
	return nil
}

type fakeMessaging struct {
	published  []OtpIssuedEvent
	publishErr error
}

func (f *fakeMessaging) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeUser struct {
	create            func(email, password string) (*entity.Account, error)
	findByEmail       func(email string) (*entity.Account, error)
	markVerifiedErr   error
	markVerifiedCalls []int64
}

func (f *fakeUser) Create(_ context.Context, email, password string) (*entity.Account, error) {
	return f.create(email, password)
}

func (f *fakeUser) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return f.findByEmail(email)
}

func (f *fakeUser) MarkEmailVerified(_ context.Context, id int64) error {
	if f.markVerifiedErr != nil {
		return f.markVerifiedErr
	}
	f.markVerifiedCalls = append(f.markVerifiedCalls, id)
	return nil
}

type fakeIdempotency struct {
	execErr error
	keys    []string
}

func (f *fakeIdempotency) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdempotency) MarkCompleted(context.Context, string, time.Duration) error {
	return nil
}

func (f *fakeIdempotency) MarkFailed(context.Context, string, time.Duration) error {
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.execErr != nil {
		return f.execErr
	}
	return fn(ctx)
}

type fakeDenylist struct {
	revoked map[string]time.Duration
}

func (f *fakeDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

type testDeps struct {
	db    *fakeDB
	msg   *fakeMessaging
	user  *fakeUser
	idemp *fakeIdempotency
	deny  *fakeDenylist
	jwt   *fakeJWT
	clock *fakeClock
	hmac  hash.Hash
	dep   Dependency
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	real, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "sehatin-test",
		Audiences: []string{"sehatin"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      &fakeStringID{prefix: "jti"},
	})
	if err != nil {
		t.Fatalf("build jwt: %v", err)
	}

	m, err := model.NewModelFromString(testRBACModel)
	if err != nil {
		t.Fatalf("build casbin model: %v", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("build casbin enforcer: %v", err)
	}

	d := &testDeps{
		db:    &fakeDB{},
		msg:   &fakeMessaging{},
		user:  &fakeUser{},
		idemp: &fakeIdempotency{},
		deny:  &fakeDenylist{},
		jwt:   &fakeJWT{real: real},
		clock: clk,
		hmac:  hash.NewHMACSHA256("test-hmac-secret"),
	}

	d.dep = Dependency{
		RepoDB:        d.db,
		RepoMessaging: d.msg,
		RepoUser:      d.user,
		Idempotency:   d.idemp,
		Validator:     vld,
		Config:        cfg,
		HMAC:          d.hmac,
		Bcrypt:        hash.NewBcrypt(4, "test-pepper"),
		UID:           &fakeNumberID{},
		OID:           &fakeStringID{prefix: "refresh"},
		Passcode:      &fakePasscode{code: "123456"},
		Clock:         clk,
		JWT:           d.jwt,
		Denylist:      d.deny,
		Instrument:    instrument.NewNoop(),
		Enforcer:      enforcer,
	}

	return d
}

func (d *testDeps) usecase() *Usecase {
	return New(d.dep)
}
