package entity

import "time"

// OtpChallenge is one issued passcode challenge, keyed by the hash of the
// session token the client must present on verification.
type OtpChallenge struct {
	ID           int64
	UserID       int64
	TokenHash    string
	PasscodeHash string
	Purpose      OtpPurpose
	ExpiresAt    time.Time
	VerifiedAt   *time.Time
}

// IssuedOtp carries the plaintext outputs of issuing a challenge. The
// passcode leaves the process only through out-of-band delivery.
type IssuedOtp struct {
	SessionToken string
	Passcode     string
	ExpiresAt    time.Time
}

type RefreshToken struct {
	ID                int64
	UserID            int64
	UserEmail         string
	TokenHash         string
	ExpiresAt         time.Time
	Revoked           bool
	ReplacedByTokenID int64
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	UserEmail    string
	NewTokenHash string
	NewExpiresAt time.Time
}

// Account is the user record owned by the external user service.
type Account struct {
	ID            int64
	Email         string
	Password      string // hashed
	EmailVerified bool
}
