package session

import (
	"sync"

	"github.com/embedchat/widget-runtime/internal/db"
)

// Storage is the persistence surface the session manager writes through.
// Each field is stored independently; writes are idempotent, so no
// transactional guarantee is needed.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage is a process-local Storage, the analog of tab-scoped
// browser storage. Used by tests and the preview server.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// DBStorage persists session fields in SQLite so a session outlives the
// process.
type DBStorage struct {
	db *db.DB
}

// NewDBStorage wraps a database handle as session storage.
func NewDBStorage(database *db.DB) *DBStorage {
	return &DBStorage{db: database}
}

func (s *DBStorage) Get(key string) (string, bool, error) {
	return s.db.GetValue(key)
}

func (s *DBStorage) Set(key, value string) error {
	return s.db.SetValue(key, value)
}

func (s *DBStorage) Delete(key string) error {
	return s.db.DeleteValue(key)
}
