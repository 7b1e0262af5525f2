// Package state owns the widget's UI state and notifies subscribers of
// changes. There is one Manager per widget instance, constructed by the
// runtime and handed to every component explicitly.
package state

import "sync"

// Listener receives the post-merge state snapshot and the names of the
// fields that changed.
type Listener func(s WidgetState, changed []string)

type subscriber struct {
	id int
	fn Listener
}

// Manager holds the widget state and an ordered observer list.
// Notification is synchronous and runs in subscription order after the
// merge completes.
type Manager struct {
	mu     sync.Mutex
	state  WidgetState
	subs   []subscriber
	nextID int
}

// New creates a Manager with the given initial theme.
func New(theme string) *Manager {
	return &Manager{
		state: WidgetState{CurrentTheme: theme},
	}
}

// State returns a snapshot of the current state. The message slice is
// copied so callers can never mutate the managed state.
func (m *Manager) State() WidgetState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() WidgetState {
	s := m.state
	s.Messages = make([]Message, len(m.state.Messages))
	copy(s.Messages, m.state.Messages)
	return s
}

// Subscribe registers a listener and returns its unsubscribe function.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Apply shallow-merges the patch into the state and notifies
// subscribers with the list of changed fields. Fields left nil in the
// patch are untouched and not reported.
func (m *Manager) Apply(p Patch) {
	m.mu.Lock()

	var changed []string
	if p.IsOpen != nil && *p.IsOpen != m.state.IsOpen {
		m.state.IsOpen = *p.IsOpen
		changed = append(changed, FieldIsOpen)
	}
	if p.Messages != nil {
		m.state.Messages = make([]Message, len(*p.Messages))
		copy(m.state.Messages, *p.Messages)
		changed = append(changed, FieldMessages)
	}
	if p.IsLoading != nil && *p.IsLoading != m.state.IsLoading {
		m.state.IsLoading = *p.IsLoading
		changed = append(changed, FieldIsLoading)
	}
	if p.Error != nil && *p.Error != m.state.Error {
		m.state.Error = *p.Error
		changed = append(changed, FieldError)
	}
	if p.CurrentStreamingID != nil && *p.CurrentStreamingID != m.state.CurrentStreamingID {
		m.state.CurrentStreamingID = *p.CurrentStreamingID
		changed = append(changed, FieldStreamingID)
	}
	if p.CurrentTheme != nil && *p.CurrentTheme != m.state.CurrentTheme {
		m.state.CurrentTheme = *p.CurrentTheme
		changed = append(changed, FieldCurrentTheme)
	}
	if p.AttachedFile != nil {
		m.state.AttachedFile = *p.AttachedFile
		changed = append(changed, FieldAttachedFile)
	}

	if len(changed) == 0 {
		m.mu.Unlock()
		return
	}

	snapshot := m.snapshotLocked()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// Synchronous, in subscription order, after the merge.
	for _, s := range subs {
		s.fn(snapshot, changed)
	}
}

// AppendMessage appends a message to the conversation.
func (m *Manager) AppendMessage(msg Message) {
	m.mu.Lock()
	msgs := append(m.snapshotLocked().Messages, msg)
	m.mu.Unlock()
	m.Apply(Patch{Messages: &msgs})
}

// UpdateMessage replaces the content of the message with the given id in
// place, preserving its position and identity. Missing ids are ignored.
func (m *Manager) UpdateMessage(id, content string) {
	m.mu.Lock()
	msgs := m.snapshotLocked().Messages
	found := false
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Content = content
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return
	}
	m.Apply(Patch{Messages: &msgs})
}

// ClearMessages removes the whole conversation in bulk.
func (m *Manager) ClearMessages() {
	empty := []Message{}
	m.Apply(Patch{Messages: &empty})
}

// Helpers for building patches without pointer boilerplate at call sites.

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// File returns a patchable attached-file value (nil clears it).
func File(f *FileRef) **FileRef { return &f }
