package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	nderrors "github.com/matzehuels/notediagram/pkg/errors"
)

// FileStore is a file-based note store for CLI use.
// Notes are stored as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based note store.
// If baseDir is empty, defaults to ~/.local/share/notediagram/notes/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home dir: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		baseDir = filepath.Join(dataHome, "notediagram", "notes")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

// notePath is safe to join because IDs are validated on every entry point.
func (s *FileStore) notePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) read(id string) (*Note, error) {
	if nderrors.ValidateNoteID(id) != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.notePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read note file: %w", err)
	}
	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse note %s: %w", id, err)
	}
	return &n, nil
}

func (s *FileStore) write(n *Note) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	tmp, err := os.CreateTemp(s.baseDir, ".note-*")
	if err != nil {
		return fmt.Errorf("write note file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write note file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write note file: %w", err)
	}
	return os.Rename(tmp.Name(), s.notePath(n.ID))
}

func (s *FileStore) Get(ctx context.Context, id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) List(ctx context.Context) ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read notes dir: %w", err)
	}
	out := make([]*Note, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		n, err := s.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	sortNewest(out)
	return out, nil
}

func (s *FileStore) Create(ctx context.Context, n *Note) (*Note, error) {
	stored, err := prepare(n, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.notePath(stored.ID)); err == nil {
		return nil, ErrExists
	}
	if err := s.write(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *FileStore) Update(ctx context.Context, id string, p Patch) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := n.apply(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.write(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nderrors.ValidateNoteID(id) != nil {
		return ErrNotFound
	}
	if err := os.Remove(s.notePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove note file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for note files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
