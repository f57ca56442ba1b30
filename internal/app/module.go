package app

import (
	"log/slog"
	"os"

	"github.com/LaFavela/sehatin-be-auth/internal/auth"
	"github.com/LaFavela/sehatin-be-auth/internal/mailer"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(auth.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			Enforcer:    a.casbin,
			Denylist:    a.denylist,
			UID:         a.uid,
			OID:         a.oid,
			HMAC:        a.hmac,
			Bcrypt:      a.bcrypt,
			Passcode:    a.passcode,
			Clock:       a.clock,
			Validator:   a.validator,
			JWT:         a.jwt,
		}); err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.mailer.enabled") {
		if err := mailer.New(mailer.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module mailer", "error", err)
			os.Exit(1)
		}
	}
}
