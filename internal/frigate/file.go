package frigate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/gofrs/flock"

	"frigatectl/internal/services"
)

// Store owns the single on-disk configuration document and the bookkeeping
// around it: whole-file saves, the camera-only read-modify-write, and
// modification tracking for concurrent external edits. It is an explicit
// context object so independent instances (and tests) do not interfere.
type Store struct {
	path string
	lock *flock.Flock

	mu       sync.Mutex
	loadedAt time.Time
}

// NewStore creates a store for the document at path. A sidecar lock file
// guards the camera read-modify-write against a concurrent in-process save.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the document is present on disk.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads and deserializes the document. A missing file and an empty or
// all-comments document both report a not-found error; malformed YAML
// reports a parse error and leaves nothing mutated.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "frigate", "load", s.path, err)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Unmarshal(data)
	if err != nil {
		if errors.Is(err, ErrEmptyDocument) {
			return nil, services.Wrap(services.ErrNotFound, "frigate", "load", "document is empty", err)
		}
		return nil, err
	}

	s.recordMTime()
	return cfg, nil
}

// Save normalizes, validates, serializes, and writes the whole document,
// creating parent directories as needed. Writes are whole-file overwrites.
func (s *Store) Save(cfg *Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "frigate", "save", "invalid configuration", err)
	}

	text, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := s.writeDocument([]byte(text)); err != nil {
		return err
	}
	s.recordMTime()
	return nil
}

// WriteDefault writes the commented skeleton document, used when the user
// finishes onboarding without ever saving a configuration.
func (s *Store) WriteDefault() error {
	if err := s.writeDocument([]byte(DefaultDocument)); err != nil {
		return err
	}
	s.recordMTime()
	return nil
}

// ReplaceCameras reads the full existing document, replaces only the cameras
// mapping, and rewrites the whole document. Top-level keys this tool does
// not model are preserved verbatim. The sidecar lock serializes this
// read-modify-write against concurrent saves from the same host.
func (s *Store) ReplaceCameras(cameras []Camera) error {
	seen := make(map[string]struct{}, len(cameras))
	for _, cam := range cameras {
		if cam.Name == "" {
			return services.Wrap(services.ErrConfiguration, "frigate", "cameras", "camera name must not be empty", nil)
		}
		if _, dup := seen[cam.Name]; dup {
			return services.Wrap(services.ErrConfiguration, "frigate", "cameras", fmt.Sprintf("duplicate camera name %q", cam.Name), nil)
		}
		seen[cam.Name] = struct{}{}
	}
	return s.replaceSection("cameras", camerasNode(cameras))
}

// ReplaceDetectors rewrites only the detectors mapping, preserving every
// other section the same way ReplaceCameras does. Used when the accelerator
// population changed after the document was generated.
func (s *Store) ReplaceDetectors(detectors []Detector) error {
	if len(detectors) == 0 {
		return services.Wrap(services.ErrConfiguration, "frigate", "detectors", "at least one detector is required", nil)
	}
	return s.replaceSection("detectors", detectorsNode(detectors))
}

func (s *Store) replaceSection(key string, node any) error {
	// The sidecar lock lives next to the document; a missing document means
	// its directory may not exist either, so check before taking the lock.
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "frigate", key,
				"no existing configuration; generate one first", err)
		}
		return fmt.Errorf("stat config: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire config lock: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	if s.ExternallyModified() {
		return services.Wrap(services.ErrPrecondition, "frigate", key,
			"configuration changed on disk since it was loaded; re-run to pick up the new contents", nil)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "frigate", key,
				"no existing configuration; generate one first", err)
		}
		return fmt.Errorf("read config: %w", err)
	}

	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return services.Wrap(services.ErrParse, "frigate", key, "malformed yaml", err)
	}

	root, ok := doc.(yaml.MapSlice)
	if !ok || len(root) == 0 {
		return services.Wrap(services.ErrNotFound, "frigate", key, "document is empty", nil)
	}

	replaced := false
	for i := range root {
		if fmt.Sprint(root[i].Key) == key {
			root[i].Value = node
			replaced = true
			break
		}
	}
	if !replaced {
		root = append(root, yaml.MapItem{Key: key, Value: node})
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := s.writeDocument([]byte(spaceTopLevelBlocks(string(out)))); err != nil {
		return err
	}
	s.recordMTime()
	return nil
}

// ExternallyModified reports whether the document changed on disk since this
// store last loaded or saved it. It is false when the store has not touched
// the file yet or the file is gone.
func (s *Store) ExternallyModified() bool {
	s.mu.Lock()
	loadedAt := s.loadedAt
	s.mu.Unlock()

	if loadedAt.IsZero() {
		return false
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	return !info.ModTime().Equal(loadedAt)
}

// MarkSynced records the current on-disk modification time without reloading,
// so a conflict the user chose to defer is not flagged again.
func (s *Store) MarkSynced() {
	s.recordMTime()
}

func (s *Store) writeDocument(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (s *Store) recordMTime() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.loadedAt = info.ModTime()
	s.mu.Unlock()
}
