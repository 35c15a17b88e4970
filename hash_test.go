package porter

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestArgon2_Hash(t *testing.T) {
	h := Argon2WithParams(Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8})

	hash1, err := h.Hash([]byte("password123"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if !strings.HasPrefix(hash1, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Errorf("Hash() = %q, want argon2id prefix with params", hash1)
	}

	hash2, _ := h.Hash([]byte("password123"))
	if hash1 == hash2 {
		t.Error("same plaintext should produce different hashes (random salt)")
	}
}

func TestBcrypt_Hash(t *testing.T) {
	h := BcryptWithCost(bcrypt.MinCost)

	hash, err := h.Hash([]byte("password123"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")); err != nil {
		t.Errorf("bcrypt hash does not verify: %v", err)
	}
}

func TestBcrypt_InvalidCost(t *testing.T) {
	if _, err := BcryptWithCost(bcrypt.MaxCost + 1).Hash([]byte("x")); err == nil {
		t.Error("Hash() should fail for a cost above bcrypt.MaxCost")
	}
}

func TestDigestHashers(t *testing.T) {
	tests := []struct {
		name   string
		hasher Hasher
		want   string
	}{
		{"sha256", SHA256Hasher(), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha512", SHA512Hasher(), "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.hasher.Hash([]byte("abc"))
			if err != nil {
				t.Fatalf("Hash() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Hash() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinHashers_CoverHashAlgos(t *testing.T) {
	hashers := builtinHashers()
	for _, algo := range []HashAlgo{HashArgon2, HashBcrypt, HashSHA256, HashSHA512} {
		if hashers[algo] == nil {
			t.Errorf("no builtin hasher for %q", algo)
		}
	}
}
