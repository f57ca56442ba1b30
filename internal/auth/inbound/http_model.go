package inbound

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID       int64     `json:"user_id,string"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	OtpToken     string    `json:"otp_token"`
	OtpExpiresAt time.Time `json:"otp_expires_at"`
}

func (RegisterResponse) Message() string {
	return "Registration successful. Please check your email for the verification code."
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenVerifyResponse struct {
	UserID int64    `json:"user_id,string"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string {
	return "If an account with that email exists, we have sent a verification code."
}

type OtpSendResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (OtpSendResponse) Message() string {
	return "A verification code has been sent to your email."
}

type OtpVerifyRequest struct {
	Otp string `json:"otp"`
}

type OtpVerifyResponse struct{}

func (OtpVerifyResponse) Message() string {
	return "Verification successful."
}

type RoleRequest struct {
	UserID int64  `json:"user_id,string"`
	Role   string `json:"role"`
}
