// Package store persists household member records as a JSON document in the
// per-user data directory. The workflow engine only reads from it; writes
// happen through the members subcommands.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/skoirala/nepse-agent/internal/types"
)

// FileName is the member document file name inside the data directory.
const FileName = "family_members.json"

// fileMode keeps credentials private to the owning user. Ignored on Windows.
const fileMode = 0o600

// NotFoundError reports a member name that is not in the store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("member %q not found", e.Name)
}

// DuplicateError reports an Add for a name that already exists
// (case-insensitive).
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("member %q already exists", e.Name)
}

// DataDir returns the per-user data directory: ~/Documents/merosharedata when
// a Documents folder exists, ~/merosharedata otherwise. The directory is
// created on first use.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	base := filepath.Join(home, "Documents")
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		base = home
	}

	dir := filepath.Join(base, "merosharedata")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return dir, nil
}

// Store reads and writes the member document under a fixed directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. Open uses the default data directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Open returns a Store rooted at the default data directory.
func Open() (*Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return New(dir), nil
}

// Path returns the member document path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// load reads and schema-checks the document. A missing file is an empty
// document, not an error.
func (s *Store) load() (map[string]types.MemberRecord, error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]types.MemberRecord{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path(), err)
	}

	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	members := map[string]types.MemberRecord{}
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path(), err)
	}
	return members, nil
}

// save schema-checks and writes the document with owner-only permissions.
func (s *Store) save(members map[string]types.MemberRecord) error {
	raw, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding member document: %w", err)
	}

	if err := validateDocument(raw); err != nil {
		return err
	}

	if err := os.WriteFile(s.Path(), raw, fileMode); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path(), err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(s.Path(), fileMode); err != nil {
			return fmt.Errorf("restricting %s permissions: %w", s.Path(), err)
		}
	}
	return nil
}

// List returns all members sorted by name (case-insensitive). The sequential
// orchestrator runs workflows in this order.
func (s *Store) List() ([]types.MemberRecord, error) {
	members, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]types.MemberRecord, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Get returns the member with the given name, matched case-insensitively.
func (s *Store) Get(name string) (types.MemberRecord, error) {
	members, err := s.load()
	if err != nil {
		return types.MemberRecord{}, err
	}
	for key, m := range members {
		if strings.EqualFold(key, name) {
			return m, nil
		}
	}
	return types.MemberRecord{}, &NotFoundError{Name: name}
}

// Add validates and inserts a new member. Names are unique
// case-insensitively.
func (s *Store) Add(m types.MemberRecord) error {
	if err := m.Validate(); err != nil {
		return err
	}

	members, err := s.load()
	if err != nil {
		return err
	}
	for key := range members {
		if strings.EqualFold(key, m.Name) {
			return &DuplicateError{Name: m.Name}
		}
	}
	members[m.Name] = m
	return s.save(members)
}

// Update validates and replaces an existing member's record.
func (s *Store) Update(m types.MemberRecord) error {
	if err := m.Validate(); err != nil {
		return err
	}

	members, err := s.load()
	if err != nil {
		return err
	}
	for key := range members {
		if strings.EqualFold(key, m.Name) {
			delete(members, key)
			members[m.Name] = m
			return s.save(members)
		}
	}
	return &NotFoundError{Name: m.Name}
}

// Remove deletes the member with the given name.
func (s *Store) Remove(name string) error {
	members, err := s.load()
	if err != nil {
		return err
	}
	for key := range members {
		if strings.EqualFold(key, name) {
			delete(members, key)
			return s.save(members)
		}
	}
	return &NotFoundError{Name: name}
}
