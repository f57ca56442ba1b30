// Package jwt wraps token signing and verification for access tokens and
// short-lived OTP session tokens.
package jwt
