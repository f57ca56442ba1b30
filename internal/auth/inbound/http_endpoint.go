package inbound

import (
	"github.com/LaFavela/sehatin-be-auth/internal/auth/usecase"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the authentication workflows.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates a user and returns an access/refresh token pair.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// Register creates a new account and starts email verification.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		UserID:       resp.UserID,
		Email:        resp.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		OtpToken:     resp.OtpToken,
		OtpExpiresAt: resp.OtpExpiresAt,
	}, nil
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// TokenVerify introspects the bearer token and returns its subject.
func (h *HTTPEndpoint) TokenVerify(r *router.Request) (any, error) {
	resp, err := h.uc.TokenVerify(r.Context())
	if err != nil {
		return nil, err
	}

	return TokenVerifyResponse{
		UserID: resp.UserID,
		Email:  resp.Email,
		Roles:  resp.Roles,
	}, nil
}

// Logout revokes the presented access and refresh tokens.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return nil, nil
}

// ResetPassword starts the password reset flow.
func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}

// OtpSend issues a fresh verification code for the authenticated user.
func (h *HTTPEndpoint) OtpSend(r *router.Request) (any, error) {
	resp, err := h.uc.OtpSend(r.Context())
	if err != nil {
		return nil, err
	}

	return OtpSendResponse{
		Token:     resp.SessionToken,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// OtpVerify checks a submitted passcode against its challenge.
func (h *HTTPEndpoint) OtpVerify(r *router.Request) (any, error) {
	var req OtpVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OtpVerify(r.Context(), usecase.OtpVerifyInput{
		SessionToken: r.GetParam("session_token"),
		Otp:          req.Otp,
	}); err != nil {
		return nil, err
	}

	return OtpVerifyResponse{}, nil
}

// RoleAssign grants a role to a user.
func (h *HTTPEndpoint) RoleAssign(r *router.Request) (any, error) {
	var req RoleRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RoleAssign(r.Context(), usecase.RoleAssignInput{
		UserID: req.UserID,
		Role:   req.Role,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// RoleRemove revokes a role from a user.
func (h *HTTPEndpoint) RoleRemove(r *router.Request) (any, error) {
	var req RoleRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RoleRemove(r.Context(), usecase.RoleRemoveInput{
		UserID: req.UserID,
		Role:   req.Role,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}
