package passcode

import (
	"testing"
)

func TestNumeric_Generate(t *testing.T) {
	t.Run("CodeHasSixDigits", func(t *testing.T) {
		// Arrange
		gen := NewNumeric()

		for range 200 {
			// Act
			code, err := gen.Generate()

			// Assert
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(code) != Length {
				t.Fatalf("Generate() = %q, want %d characters", code, Length)
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					t.Fatalf("Generate() = %q, contains non-digit %q", code, r)
				}
			}
		}
	})

	t.Run("CodesVary", func(t *testing.T) {
		// Arrange
		gen := NewNumeric()
		seen := make(map[string]struct{})

		// Act
		for range 50 {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			seen[code] = struct{}{}
		}

		// Assert
		if len(seen) < 2 {
			t.Fatalf("expected varied codes, got %d distinct values", len(seen))
		}
	})
}
