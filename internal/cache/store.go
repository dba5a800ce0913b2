// Package cache persists documentation build state between runs.
//
// The store is a single JSON file mapping "projectPath:crateName" to the
// known build status and doc location for that crate. Every mutation
// rewrites the whole file before returning. The file is shared between
// processes without locking: concurrent writers race with a last-writer-wins
// outcome, which is a documented limitation of the format rather than
// something this package tries to fix.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrCache indicates a persisted-store failure or an internal consistency
// violation (e.g. an entry missing immediately after a positive status check).
var ErrCache = errors.New("cache error")

// TTL is the fixed freshness window. Entries older than this are treated as
// absent and removed on the next access.
const TTL = 24 * time.Hour

// Entry records the last confirmed check or build for one crate.
type Entry struct {
	CrateName     string `json:"crate_name"`
	ProjectPath   string `json:"project_path"`
	DocPath       string `json:"doc_path"`        // entry-point file, e.g. .../doc/my-crate/index.html
	LastBuildTime int64  `json:"last_build_time"` // epoch milliseconds
	IsBuilt       bool   `json:"is_built"`
}

// expired reports whether the entry is older than the TTL at the given time.
func (e *Entry) expired(now time.Time) bool {
	return now.UnixMilli()-e.LastBuildTime > TTL.Milliseconds()
}

// Store is the on-disk artifact cache.
// Entries are keyed by (projectPath, crateName), uniquely.
type Store struct {
	// path is the store file location.
	// If empty at construction, defaults to DefaultPath().
	path    string
	entries map[string]*Entry
}

// DefaultPath returns the process-shared store location in the temp directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "cratedoc-cache.json")
}

// NewStore creates a Store backed by the given file path.
// An empty path selects the default temp-directory location. Taking the path
// explicitly keeps tests free of environment pollution.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{
		path:    path,
		entries: make(map[string]*Entry),
	}
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

func key(projectPath, crateName string) string {
	return projectPath + ":" + crateName
}

// Load reads the store file. A missing file is a normal empty start; any
// other read or parse failure is fatal. Expired entries are purged eagerly
// and the file is rewritten if the purge removed anything.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = make(map[string]*Entry)
			return nil
		}
		return fmt.Errorf("%w: reading store %s: %v", ErrCache, s.path, err)
	}

	entries := make(map[string]*Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: parsing store %s: %v", ErrCache, s.path, err)
	}
	s.entries = entries

	// Eager purge on load.
	now := time.Now()
	purged := false
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			purged = true
		}
	}
	if purged {
		return s.persist()
	}
	return nil
}

// Get looks up an entry by composite key. An expired entry is deleted,
// the store is rewritten, and the entry is reported as absent.
// The returned entry is a copy: mutating it never changes cached state.
func (s *Store) Get(projectPath, crateName string) (*Entry, bool, error) {
	e, ok := s.entries[key(projectPath, crateName)]
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		delete(s.entries, key(projectPath, crateName))
		if err := s.persist(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

// Set upserts a copy of the entry, stamping LastBuildTime with the current
// time. The caller's pointer is not retained, so every later mutation of
// cached state goes through the store and its persist step.
// The store file is fully rewritten before Set returns.
func (s *Store) Set(e *Entry) error {
	cp := *e
	cp.LastBuildTime = time.Now().UnixMilli()
	s.entries[key(cp.ProjectPath, cp.CrateName)] = &cp
	return s.persist()
}

// Remove deletes an entry if present and rewrites the store.
func (s *Store) Remove(projectPath, crateName string) error {
	k := key(projectPath, crateName)
	if _, ok := s.entries[k]; !ok {
		return nil
	}
	delete(s.entries, k)
	return s.persist()
}

// Entries returns a snapshot of all live entries, copied.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Clear removes all entries and rewrites the store.
func (s *Store) Clear() error {
	s.entries = make(map[string]*Entry)
	return s.persist()
}

// persist writes the whole store using a temp file + rename.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling store: %v", ErrCache, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("%w: writing store %s: %v", ErrCache, s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming store %s: %v", ErrCache, s.path, err)
	}
	return nil
}
