package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/coinvault/internal/repositories/metadata"
)

// Store persists settings in the local metadata repository as JSON.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Load returns the persisted settings, or Defaults when nothing was saved
// yet. A corrupt payload also falls back to Defaults rather than failing.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	data, err := s.repo.Get(ctx, metadata.KeySettings)
	if err != nil {
		return Defaults(), fmt.Errorf("loading settings: %w", err)
	}
	if data == nil {
		return Defaults(), nil
	}

	out := Defaults()
	if err := json.Unmarshal(data, &out); err != nil {
		return Defaults(), nil
	}
	return out, nil
}

// Save persists the full settings value.
func (s *Store) Save(ctx context.Context, val Settings) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.repo.Set(ctx, metadata.KeySettings, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
