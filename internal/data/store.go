package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/andyrewlee/reqtty/internal/logging"
)

// ErrIndexOutOfRange is returned for an index with no request behind it.
var ErrIndexOutOfRange = errors.New("request index out of range")

// Store manages requests.json: an ordered list of requests, written as
// indented JSON through a temp file and rename.
type Store struct {
	path string

	// writeMu serializes changes so a failed write never leaves memory ahead
	// of disk.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	requests []Request
}

// NewStore creates a store backed by path. Nothing is read until Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

// Load reads the requests file. A missing file is seeded with
// DefaultRequest and saved.
func (s *Store) Load() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	requests, err := s.read()
	if errors.Is(err, os.ErrNotExist) {
		logging.Info("no requests file at %s, seeding default", s.path)
		return s.commit([]Request{DefaultRequest()})
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.requests = requests
	s.mu.Unlock()
	return nil
}

// Reload re-reads the requests file and reports whether the contents differ
// from what the store held.
func (s *Store) Reload() (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	requests, err := s.read()
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if equalRequests(s.requests, requests) {
		return false, nil
	}
	s.requests = requests
	return true, nil
}

func (s *Store) read() ([]Request, error) {
	lock, err := acquireLock(s.lockPath(), true)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer lock.release()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var requests []Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	for i := range requests {
		requests[i] = requests[i].Normalized()
	}
	return requests, nil
}

// Save writes the current requests to disk.
func (s *Store) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write(s.Requests())
}

// commit writes requests and installs them only once they are on disk.
// writeMu must be held.
func (s *Store) commit(requests []Request) error {
	if err := s.write(requests); err != nil {
		return err
	}
	s.mu.Lock()
	s.requests = requests
	s.mu.Unlock()
	return nil
}

func (s *Store) write(requests []Request) error {
	data, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return err
	}

	lock, err := acquireLock(s.lockPath(), false)
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer lock.release()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	// os.Rename replaces an existing target on every platform.
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

// Len returns the number of requests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// Get returns the request at index i.
func (s *Store) Get(i int) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.requests) {
		return Request{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return s.requests[i].clone(), nil
}

// Requests returns a copy of all requests.
func (s *Store) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Request, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.clone()
	}
	return out
}

// Titles returns the method and title of every request, in order.
func (s *Store) Titles() []Title {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Title, len(s.requests))
	for i, r := range s.requests {
		out[i] = Title{Method: r.Method, Title: r.DisplayTitle()}
	}
	return out
}

// Add appends requests and saves. On a failed save the store is unchanged.
func (s *Store) Add(requests ...Request) error {
	if len(requests) == 0 {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.Requests()
	for _, r := range requests {
		next = append(next, r.Normalized().clone())
	}
	return s.commit(next)
}

// Update replaces the request at index i and saves. On a failed save the
// store is unchanged.
func (s *Store) Update(i int, r Request) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.Requests()
	if i < 0 || i >= len(next) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	next[i] = r.Normalized().clone()
	return s.commit(next)
}

func equalRequests(a, b []Request) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}
