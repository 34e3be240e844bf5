package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
)

var _ output.ProfileStorePort = (*FileStore)(nil)

// FileStore serves user profiles from a JSON file loaded once at startup.
// The file holds an array of profiles keyed by their "id" field.
type FileStore struct {
	profiles map[string]entity.UserProfile
	logger   output.LoggerPort
}

func NewFileStore(path string, logger output.LoggerPort) (*FileStore, error) {
	store := &FileStore{
		profiles: make(map[string]entity.UserProfile),
		logger:   logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Profiles file missing, store starts empty", "path", path)
			return store, nil
		}
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var profiles []entity.UserProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}

	for _, p := range profiles {
		store.profiles[p.ID] = p
	}

	logger.Info("Profiles loaded", "path", path, "count", len(store.profiles))
	return store, nil
}

func (s *FileStore) Lookup(ctx context.Context, id string) (*entity.UserProfile, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", id, output.ErrProfileNotFound)
	}
	return &p, nil
}
