package profile

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/boss-rush/internal/storage"
)

// Store is the persistence the service needs. *storage.Store satisfies it.
type Store interface {
	SaveKnight(k storage.KnightRecord) error
	LoadKnight(name string) (*storage.KnightRecord, error)
	DeleteKnight(name string) (bool, error)
	ListKnights() ([]storage.KnightRecord, error)
	AddDefeat(name, bossID string) error
}

var _ Store = (*storage.Store)(nil)

// Service applies profile rules on top of a Store.
type Service struct {
	mu    sync.Mutex
	store Store
}

// NewService creates a profile service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new knight with default stats.
func (s *Service) Create(name string) (Record, error) {
	if !ValidName(name) {
		return Record{}, fmt.Errorf("profile: %q: %w", name, ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadKnight(name)
	if err != nil {
		return Record{}, fmt.Errorf("profile: create %q: %w", name, err)
	}
	if existing != nil {
		return Record{}, fmt.Errorf("profile: %q: %w", name, ErrExists)
	}

	rec := NewRecord(name)
	if err := s.store.SaveKnight(toStorage(rec)); err != nil {
		return Record{}, fmt.Errorf("profile: create %q: %w", name, err)
	}
	return rec, nil
}

// Read returns the profile for name.
func (s *Service) Read(name string) (Record, error) {
	k, err := s.store.LoadKnight(name)
	if err != nil {
		return Record{}, fmt.Errorf("profile: read %q: %w", name, err)
	}
	if k == nil {
		return Record{}, fmt.Errorf("profile: %q: %w", name, ErrNotFound)
	}
	return fromStorage(*k), nil
}

// Update applies a partial change to an existing profile.
func (s *Service) Update(name string, p Patch) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.Read(name)
	if err != nil {
		return Record{}, err
	}
	rec = p.Apply(rec)
	if err := s.store.SaveKnight(toStorage(rec)); err != nil {
		return Record{}, fmt.Errorf("profile: update %q: %w", name, err)
	}
	return rec, nil
}

// Save writes rec as-is, creating or replacing the profile.
func (s *Service) Save(rec Record) error {
	if !ValidName(rec.Name) {
		return fmt.Errorf("profile: %q: %w", rec.Name, ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveKnight(toStorage(rec)); err != nil {
		return fmt.Errorf("profile: save %q: %w", rec.Name, err)
	}
	return nil
}

// Delete removes a profile.
func (s *Service) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.DeleteKnight(name)
	if err != nil {
		return fmt.Errorf("profile: delete %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("profile: %q: %w", name, ErrNotFound)
	}
	return nil
}

// List returns every profile ordered by name.
func (s *Service) List() ([]Record, error) {
	knights, err := s.store.ListKnights()
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	records := make([]Record, 0, len(knights))
	for _, k := range knights {
		records = append(records, fromStorage(k))
	}
	return records, nil
}

// RecordDefeat marks bossID as beaten by name.
func (s *Service) RecordDefeat(name, bossID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddDefeat(name, bossID); err != nil {
		return fmt.Errorf("profile: record defeat: %w", err)
	}
	return nil
}
