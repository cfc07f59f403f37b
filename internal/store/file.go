package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Rendyzzx/jawa/internal/cryptox"
	"github.com/Rendyzzx/jawa/internal/filex"
	"github.com/Rendyzzx/jawa/internal/models"
)

const fileVersion = 1

// filePerm keeps the user file owner-only. Group or world access to the
// ciphertext is never acceptable.
const filePerm = os.FileMode(0o600)

// envelope is the on-disk layout of the user file. Nonce and Checksum are
// not secret; Data is the AES-GCM ciphertext of the serialized user
// table, and Checksum is the SHA-256 of the plaintext it decrypts to.
type envelope struct {
	Version  int    `json:"version"`
	Nonce    []byte `json:"nonce"`
	Checksum []byte `json:"checksum"`
	Data     []byte `json:"data"`
}

// Load reads the encrypted user file into memory. A missing file is the
// first-run state and yields an empty table so the caller can bootstrap.
// Every other failure is returned as-is: a bad envelope (unparseable,
// unknown version, checksum mismatch) surfaces ErrIntegrity, an
// undecryptable payload surfaces cryptox.ErrDecrypt, and neither is ever
// masked as "no users".
func (s *UserStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.users = nil
			return nil
		}
		return fmt.Errorf("read user file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ErrIntegrity
	}
	if env.Version != fileVersion {
		return ErrIntegrity
	}

	plaintext, err := cryptox.Decrypt(env.Data, env.Nonce, s.masterKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(cryptox.Checksum(plaintext), env.Checksum) {
		return ErrIntegrity
	}

	var users []models.User
	if err := json.Unmarshal(plaintext, &users); err != nil {
		return ErrIntegrity
	}

	s.users = users
	return nil
}

// persistLocked serializes the table, seals it, and swaps the file in a
// single rename so a crash mid-write cannot leave a half-written store.
// Callers must hold the write lock.
func (s *UserStore) persistLocked() error {
	plaintext, err := json.Marshal(s.users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	ciphertext, nonce, err := cryptox.Encrypt(plaintext, s.masterKey)
	if err != nil {
		return fmt.Errorf("encrypt users: %w", err)
	}

	raw, err := json.Marshal(envelope{
		Version:  fileVersion,
		Nonce:    nonce,
		Checksum: cryptox.Checksum(plaintext),
		Data:     ciphertext,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := filex.WriteFileAtomic(s.path, raw, filePerm); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	return nil
}
