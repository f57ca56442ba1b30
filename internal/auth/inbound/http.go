package inbound

import (
	"context"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/usecase"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error
	TokenVerify(ctx context.Context) (*usecase.TokenVerifyOutput, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error

	OtpSend(ctx context.Context) (*usecase.OtpSendOutput, error)
	OtpVerify(ctx context.Context, in usecase.OtpVerifyInput) error

	RoleAssign(ctx context.Context, in usecase.RoleAssignInput) error
	RoleRemove(ctx context.Context, in usecase.RoleRemoveInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Session management
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/register", end.Register)
	r.POST("/api/v1/auth/refresh", end.RefreshToken)
	r.GET("/api/v1/auth/verify", end.TokenVerify)    // need authenticated
	r.POST("/api/v1/auth/logout", end.Logout)        // need authenticated
	r.POST("/api/v1/auth/reset-password", end.ResetPassword)

	// OTP flow
	r.POST("/api/v1/otp/send", end.OtpSend) // need authenticated
	r.POST("/api/v1/otp/verify/:session_token", end.OtpVerify)

	// Role management (need authenticated & authorization)
	r.POST("/api/v1/auth/roles/assign", end.RoleAssign)
	r.POST("/api/v1/auth/roles/remove", end.RoleRemove)
}
