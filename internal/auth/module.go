// Package auth is the authentication module: session management, the OTP
// verification flow, and role assignment.
package auth

import (
	"github.com/LaFavela/sehatin-be-auth/internal/auth/inbound"
	"github.com/LaFavela/sehatin-be-auth/internal/auth/outbound/db"
	"github.com/LaFavela/sehatin-be-auth/internal/auth/outbound/mq"
	"github.com/LaFavela/sehatin-be-auth/internal/auth/outbound/userapi"
	"github.com/LaFavela/sehatin-be-auth/internal/auth/usecase"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/clock"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/denylist"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/hash"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/messaging"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/passcode"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/router"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/uid"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Denylist    denylist.Denylist          `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	OID         uid.StringID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	Passcode    passcode.Generator         `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	repoUser := userapi.NewClient(dep.Config, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		RepoUser:      repoUser,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		OID:           dep.OID,
		Passcode:      dep.Passcode,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Denylist:      dep.Denylist,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
