package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	// Hash hashes the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify returns true when plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
