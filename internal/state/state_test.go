package state

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyMergesAndNotifies(t *testing.T) {
	m := New("light")

	var gotState WidgetState
	var gotChanged []string
	m.Subscribe(func(s WidgetState, changed []string) {
		gotState = s
		gotChanged = changed
	})

	m.Apply(Patch{IsOpen: Bool(true), IsLoading: Bool(true)})

	if !gotState.IsOpen || !gotState.IsLoading {
		t.Errorf("merge lost fields: %+v", gotState)
	}
	want := []string{FieldIsOpen, FieldIsLoading}
	if !reflect.DeepEqual(gotChanged, want) {
		t.Errorf("changed: got %v, want %v", gotChanged, want)
	}
	if gotState.CurrentTheme != "light" {
		t.Errorf("untouched field changed: theme=%q", gotState.CurrentTheme)
	}
}

func TestNotificationOrder(t *testing.T) {
	m := New("light")

	var order []int
	m.Subscribe(func(WidgetState, []string) { order = append(order, 1) })
	m.Subscribe(func(WidgetState, []string) { order = append(order, 2) })
	m.Subscribe(func(WidgetState, []string) { order = append(order, 3) })

	m.Apply(Patch{IsOpen: Bool(true)})

	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("notification order: got %v", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	m := New("light")

	calls := 0
	unsub := m.Subscribe(func(WidgetState, []string) { calls++ })

	m.Apply(Patch{IsOpen: Bool(true)})
	unsub()
	m.Apply(Patch{IsOpen: Bool(false)})

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestNoopPatchDoesNotNotify(t *testing.T) {
	m := New("light")
	m.Apply(Patch{IsOpen: Bool(false)}) // already false

	calls := 0
	m.Subscribe(func(WidgetState, []string) { calls++ })

	m.Apply(Patch{IsOpen: Bool(false)})
	m.Apply(Patch{})

	if calls != 0 {
		t.Errorf("no-op patches notified %d times", calls)
	}
}

func TestUnrelatedFieldNotReported(t *testing.T) {
	m := New("light")

	var seen [][]string
	m.Subscribe(func(_ WidgetState, changed []string) {
		seen = append(seen, changed)
	})

	m.Apply(Patch{IsLoading: Bool(true)})

	if len(seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(seen))
	}
	for _, f := range seen[0] {
		if f == FieldIsOpen {
			t.Error("isOpen reported changed by an isLoading-only patch")
		}
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	m := New("light")
	m.AppendMessage(Message{ID: "1", Role: RoleUser, Content: "hi", Timestamp: time.Now()})

	snap := m.State()
	snap.Messages[0].Content = "tampered"

	if m.State().Messages[0].Content != "hi" {
		t.Error("mutating a snapshot leaked into managed state")
	}
}

func TestMessageLifecycle(t *testing.T) {
	m := New("light")

	m.AppendMessage(Message{ID: "u1", Role: RoleUser, Content: "hello"})
	m.AppendMessage(Message{ID: "a1", Role: RoleAssistant, Content: ""})

	// Placeholder updated in place: same id, same position.
	m.UpdateMessage("a1", "hi there")

	msgs := m.State().Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].ID != "a1" || msgs[1].Content != "hi there" {
		t.Errorf("placeholder update failed: %+v", msgs[1])
	}

	// Updating a missing id is ignored.
	m.UpdateMessage("nope", "x")
	if len(m.State().Messages) != 2 {
		t.Error("updating a missing id altered the conversation")
	}

	m.ClearMessages()
	if len(m.State().Messages) != 0 {
		t.Error("ClearMessages left messages behind")
	}
}

func TestAttachedFilePatch(t *testing.T) {
	m := New("light")

	f := &FileRef{Name: "doc.pdf", MIME: "application/pdf", Size: 123}
	m.Apply(Patch{AttachedFile: File(f)})
	if got := m.State().AttachedFile; got == nil || got.Name != "doc.pdf" {
		t.Errorf("attach failed: %+v", got)
	}

	m.Apply(Patch{AttachedFile: File(nil)})
	if m.State().AttachedFile != nil {
		t.Error("clearing attached file failed")
	}
}
