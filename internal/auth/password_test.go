package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash missing PHC prefix: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("expected 6 PHC parts, got %d: %s", len(parts), hash)
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salts not random")
	}
	if !VerifyPassword("same password", h1) || !VerifyPassword("same password", h2) {
		t.Error("both hashes should verify against the original password")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", "hunter22", hash, true},
		{"wrong password", "hunter23", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", "hunter22", "", false},
		{"garbage hash", "hunter22", "not-a-phc-string", false},
		{"wrong algorithm", "hunter22", "$bcrypt$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA", false},
		{"bad salt encoding", "hunter22", "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA", false},
		{"bad hash encoding", "hunter22", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$!!!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyPasswordEmptyPlaintext(t *testing.T) {
	// An empty password is still a password as far as the hasher is
	// concerned; registration validation rejects it before it gets here.
	hash, err := HashPassword("")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword("", hash) {
		t.Error("empty password should verify against its own hash")
	}
	if VerifyPassword("x", hash) {
		t.Error("non-empty password should not verify against empty-password hash")
	}
}
