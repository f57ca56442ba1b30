// Package userapi is the HTTP client for the external user service that
// owns account records.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnexpectedStatus is returned when the user service responds with a
// status the client does not map to a domain error.
var ErrUnexpectedStatus = errors.New("userapi: unexpected response status")

type accountModel struct {
	ID            int64  `json:"id,string"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	callTimeout time.Duration
	retryBase   time.Duration
	retryMax    uint64
	ins         instrument.Instrumentation
}

func NewClient(cfg config.Config, ins instrument.Instrumentation) *Client {
	return &Client{
		http:        &http.Client{Timeout: cfg.GetSecond("userapi.client_timeout_seconds")},
		baseURL:     cfg.GetString("userapi.base_url"),
		apiKey:      cfg.GetString("userapi.api_key"),
		callTimeout: cfg.GetSecond("userapi.call_timeout_seconds"),
		retryBase:   cfg.GetSecond("userapi.retry_base_seconds"),
		retryMax:    uint64(cfg.GetInt("userapi.retry_max_attempts")),
		ins:         ins,
	}
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("auth.outbound.userapi").Start(ctx, name)
}

func (c *Client) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create registers a new account. Creation is not idempotent, so the call
// is never retried.
func (c *Client) Create(ctx context.Context, email, password string) (out *entity.Account, err error) {
	ctx, span := c.startSpan(ctx, "Create")
	defer func() { c.endSpan(span, err) }()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var acc accountModel
	if err = c.do(ctx, http.MethodPost, "/internal/v1/users", body, http.StatusCreated, &acc); err != nil {
		return nil, err
	}

	return toAccount(acc), nil
}

// FindByEmail looks up an account. The read is idempotent and retried with
// exponential backoff on transport and server failures.
func (c *Client) FindByEmail(ctx context.Context, email string) (out *entity.Account, err error) {
	ctx, span := c.startSpan(ctx, "FindByEmail")
	defer func() { c.endSpan(span, err) }()

	path := "/internal/v1/users?email=" + url.QueryEscape(email)

	var acc accountModel
	backoff := retry.WithMaxRetries(c.retryMax, retry.NewExponential(c.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		doErr := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &acc)
		if doErr == nil || errors.Is(doErr, goerror.ErrNotFound) {
			return doErr
		}
		return retry.RetryableError(doErr)
	})
	if err != nil {
		return nil, err
	}

	return toAccount(acc), nil
}

// MarkEmailVerified records that the account's email address is confirmed.
func (c *Client) MarkEmailVerified(ctx context.Context, id int64) (err error) {
	ctx, span := c.startSpan(ctx, "MarkEmailVerified")
	defer func() { c.endSpan(span, err) }()

	path := "/internal/v1/users/" + strconv.FormatInt(id, 10) + "/verify-email"
	return c.do(ctx, http.MethodPost, path, nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, wantStatus int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case wantStatus:
	case http.StatusNotFound:
		return goerror.ErrNotFound
	case http.StatusConflict:
		return goerror.ErrConflict
	default:
		return fmt.Errorf("%w: %d on %s %s", ErrUnexpectedStatus, resp.StatusCode, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func toAccount(acc accountModel) *entity.Account {
	return &entity.Account{
		ID:            acc.ID,
		Email:         acc.Email,
		Password:      acc.Password,
		EmailVerified: acc.EmailVerified,
	}
}
