// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/clock"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/denylist"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goroutine"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/hash"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/mail"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/messaging"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/passcode"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/router"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/uid"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/validator"
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	passcode  passcode.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	denylist  denylist.Denylist
	mail      mail.Mail
	messaging messaging.Messaging
	casbin    *casbin.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
