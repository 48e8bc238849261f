package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quasilyte/gdata"
)

// AppName is the user data directory name used by gdata
const AppName = "supercat"

// ErrNoReplay is returned when a stage has no saved replay
var ErrNoReplay = errors.New("no saved replay")

// itemStore is the part of gdata.Manager the store uses
type itemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// ReplayStore keeps the last recorded replay of each stage in the user data directory
type ReplayStore struct {
	items itemStore
}

// OpenReplayStore opens the gdata manager for the game
func OpenReplayStore() (*ReplayStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open user data: %w", err)
	}
	return &ReplayStore{items: m}, nil
}

// replayKey maps a stage name onto a file-safe item key
func replayKey(stage string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, stage)
	return "replay_" + key
}

// SaveReplay stores encoded replay data for a stage, replacing any previous one
func (s *ReplayStore) SaveReplay(stage string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("failed to save replay for %s: empty data", stage)
	}
	if err := s.items.SaveItem(replayKey(stage), data); err != nil {
		return fmt.Errorf("failed to save replay for %s: %w", stage, err)
	}
	return nil
}

// LoadReplay returns the encoded replay saved for a stage
func (s *ReplayStore) LoadReplay(stage string) ([]byte, error) {
	data, err := s.items.LoadItem(replayKey(stage))
	if err != nil {
		return nil, fmt.Errorf("failed to load replay for %s: %w", stage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoReplay, stage)
	}
	return data, nil
}

// HasReplay returns true if a replay is saved for the stage
func (s *ReplayStore) HasReplay(stage string) bool {
	data, err := s.items.LoadItem(replayKey(stage))
	return err == nil && len(data) > 0
}
