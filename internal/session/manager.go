// Package session creates and persists the conversation session: a
// random session id, the backend-assigned thread id, and the session
// start time. Keys are namespaced per license key so multiple widgets
// sharing one store never collide.
package session

import (
	"crypto/rand"
	"fmt"
	"log"
	mrand "math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	keySessionID = "session_id"
	keyThreadID  = "thread_id"
	keyStartTime = "session_start"
)

// Manager owns the session lifecycle. The session id is created lazily
// on first use, persisted, and immutable until an explicit reset.
type Manager struct {
	mu         sync.Mutex
	store      Storage
	licenseKey string

	sessionID string
	threadID  string
	startTime time.Time
}

// NewManager creates a session manager over the given storage,
// namespaced by licenseKey. Previously persisted fields are loaded
// eagerly so a restart resumes the same session.
func NewManager(store Storage, licenseKey string) *Manager {
	m := &Manager{store: store, licenseKey: licenseKey}
	m.load()
	return m
}

// key namespaces a field per widget license.
func (m *Manager) key(field string) string {
	return "embedchat:" + m.licenseKey + ":" + field
}

// load restores persisted fields into memory. Storage read failures are
// logged and treated as absent fields.
func (m *Manager) load() {
	if v, ok, err := m.store.Get(m.key(keySessionID)); err != nil {
		log.Printf("session: reading session id: %v", err)
	} else if ok {
		m.sessionID = v
	}
	if v, ok, err := m.store.Get(m.key(keyThreadID)); err != nil {
		log.Printf("session: reading thread id: %v", err)
	} else if ok {
		m.threadID = v
	}
	if v, ok, err := m.store.Get(m.key(keyStartTime)); err != nil {
		log.Printf("session: reading start time: %v", err)
	} else if ok {
		if millis, err := strconv.ParseInt(v, 10, 64); err == nil {
			m.startTime = time.UnixMilli(millis)
		}
	}
}

// GetSessionID returns the session id, creating and persisting a new
// session on first call.
func (m *Manager) GetSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionID != "" {
		return m.sessionID
	}

	m.sessionID = newSessionID()
	m.startTime = time.Now()

	// Fire-and-forget persistence: each field is independently
	// idempotent, so a partial write only costs continuity, never
	// correctness.
	if err := m.store.Set(m.key(keySessionID), m.sessionID); err != nil {
		log.Printf("session: persisting session id: %v", err)
	}
	if err := m.store.Set(m.key(keyStartTime), strconv.FormatInt(m.startTime.UnixMilli(), 10)); err != nil {
		log.Printf("session: persisting start time: %v", err)
	}

	return m.sessionID
}

// HasSession reports whether a session has been created.
func (m *Manager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID != ""
}

// GetThreadID returns the backend-assigned thread id, or "" when the
// backend has not assigned one.
func (m *Manager) GetThreadID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threadID
}

// SetThreadID records and persists the backend-assigned thread id.
func (m *Manager) SetThreadID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.threadID = id
	if err := m.store.Set(m.key(keyThreadID), id); err != nil {
		log.Printf("session: persisting thread id: %v", err)
	}
}

// StartTime returns when the current session was created, or the zero
// time if no session exists.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// ResetSession clears all three persisted fields and the in-memory
// state. The next GetSessionID creates a fresh session.
func (m *Manager) ResetSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessionID = ""
	m.threadID = ""
	m.startTime = time.Time{}

	for _, field := range []string{keySessionID, keyThreadID, keyStartTime} {
		if err := m.store.Delete(m.key(field)); err != nil {
			log.Printf("session: clearing %s: %v", field, err)
		}
	}
}

// newSessionID generates a random 128-bit identifier formatted as a
// UUID. The crypto source is preferred; if it is unavailable the id is
// assembled manually with the v4 version and variant bits set.
func newSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackUUID()
}

// fallbackUUID builds a v4-shaped UUID without the crypto source.
func fallbackUUID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
		for i := range b {
			b[i] = byte(rng.Intn(256))
		}
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
