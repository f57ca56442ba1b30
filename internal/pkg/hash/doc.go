// Package hash provides helpers for hashing and verifying secrets.
//
// Bcrypt is used for passwords (slow, salted). HMAC-SHA256 is used for
// at-rest hashing of high-entropy secrets like refresh tokens, OTP session
// tokens, and passcodes, where a keyed deterministic hash allows lookups by
// hash without storing the plaintext.
package hash
