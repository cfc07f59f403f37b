// Package cryptox bundles the crypto primitives of the credential
// subsystem: password hashing, file encryption, and integrity checksums.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of per-user password salts in bytes.
	SaltSize = 16
	// Iterations is the fixed PBKDF2 iteration count for password
	// hashing and master-key derivation.
	Iterations = 100_000
	// KeyLength is the derived key length in bytes, both for password
	// hashes and for the AES-256 file key.
	KeyLength = 32
)

// masterKeySalt pins master-key derivation so the same configured secret
// always yields the same file key across restarts.
var masterKeySalt = []byte("jawa/credential-store/v1")

// ErrDecrypt is returned when ciphertext cannot be opened: wrong key or
// corrupted bytes. Callers cannot tell the two cases apart.
var ErrDecrypt = errors.New("decrypt failed")

// NewSalt returns a fresh random per-user salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives comparison-safe credential material from a raw
// password and a per-user salt (PBKDF2-SHA256). The raw password is never
// stored.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeyLength, sha256.New)
}

// VerifyPassword recomputes the hash for the candidate password and
// compares it to the stored one in constant time.
func VerifyPassword(password string, salt, expected []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}

// DeriveMasterKey turns the configured master secret into the AES-256 key
// protecting the user file. Called once at process start; the key lives
// only in memory and is never persisted.
func DeriveMasterKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), masterKeySalt, Iterations, KeyLength, sha256.New)
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce.
// The nonce is not secret and is stored next to the ciphertext.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt reverses Encrypt. Any failure to open the ciphertext yields
// ErrDecrypt.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	// Open panics on a wrong-size nonce, so a truncated stored nonce
	// must be rejected here.
	if len(nonce) != aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// Checksum returns the SHA-256 digest of b. It detects corruption and
// tampering of the stored payload independently of the cipher's own
// integrity tag.
func Checksum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
