// Package numbers keeps the phone-number list: the application data the
// credential subsystem's gates protect. The list is mirrored to a plain
// JSON file; only the credential store is encrypted.
package numbers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rendyzzx/jawa/internal/filex"
	"github.com/Rendyzzx/jawa/internal/models"
)

var (
	ErrDuplicateNumber = errors.New("number already exists")
	ErrNotFound        = errors.New("number not found")
)

const filePerm = os.FileMode(0o600)

// Store serializes all access to the number list behind one mutex and
// writes the file atomically, mirroring the credential store's
// discipline on a much simpler payload.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []models.PhoneNumber
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the numbers file; a missing file yields an empty list.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.entries = nil
			return nil
		}
		return fmt.Errorf("read numbers file: %w", err)
	}

	var entries []models.PhoneNumber
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse numbers file: %w", err)
	}
	s.entries = entries
	return nil
}

// List returns a snapshot copy of the stored numbers.
func (s *Store) List() []models.PhoneNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PhoneNumber, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add stores a new number. Duplicates are rejected on the exact number
// string. A failed file write rolls the in-memory list back.
func (s *Store) Add(number, label, addedBy string) (*models.PhoneNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Number == number {
			return nil, ErrDuplicateNumber
		}
	}

	entry := models.PhoneNumber{
		ID:        uuid.NewString(),
		Number:    number,
		Label:     label,
		AddedBy:   addedBy,
		CreatedAt: time.Now().UTC(),
	}

	s.entries = append(s.entries, entry)
	if err := s.persistLocked(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	prev := s.entries
	next := make([]models.PhoneNumber, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)

	s.entries = next
	if err := s.persistLocked(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode numbers: %w", err)
	}
	raw = append(raw, '\n')
	if err := filex.WriteFileAtomic(s.path, raw, filePerm); err != nil {
		return fmt.Errorf("write numbers file: %w", err)
	}
	return nil
}
