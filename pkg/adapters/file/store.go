package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Store implements ports.StateStore using the local filesystem.
// Each session is one JSON file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".abacus/sessions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".abacus", "sessions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("sessionID cannot be empty")
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return "", fmt.Errorf("invalid sessionID %q", sessionID)
	}
	return filepath.Join(s.BasePath, sessionID+".json"), nil
}

// Save writes the state atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	destPath, err := s.path(sessionID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+sessionID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename session file: %w", err)
	}
	return nil
}

// Load retrieves the session state from its JSON file.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	filePath, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	if state.History == nil {
		state.History = []string{}
	}
	return &state, nil
}

// Delete removes the session file.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	filePath, err := s.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(sessions)
	return sessions, nil
}
