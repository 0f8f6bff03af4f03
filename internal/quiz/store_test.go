package quiz

import (
	"testing"
	"time"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	room := &Room{ID: "r1", sessions: make(map[int64]*Session)}
	store.Put(room)

	got, exists := store.Get("r1")
	if !exists || got != room {
		t.Fatalf("Get() = (%v, %v), want the stored room", got, exists)
	}

	store.Delete("r1")
	if _, exists := store.Get("r1"); exists {
		t.Error("room still present after Delete")
	}
}

func TestMemoryStoreSweepEvictsIdle(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	defer store.Close()

	store.Put(&Room{ID: "idle", sessions: make(map[int64]*Session)})
	store.Put(&Room{ID: "fresh", sessions: make(map[int64]*Session)})

	// Sweep as if 11 minutes passed, after touching only one room.
	future := time.Now().Add(11 * time.Minute)
	store.mu.Lock()
	store.rooms["fresh"].expiresAt = future.Add(time.Minute)
	store.mu.Unlock()

	store.sweep(future)

	if _, exists := store.Get("idle"); exists {
		t.Error("idle room survived the sweep")
	}
	if _, exists := store.Get("fresh"); !exists {
		t.Error("fresh room was evicted")
	}
}

func TestMemoryStoreTouchExtendsTTL(t *testing.T) {
	store := NewMemoryStore(10 * time.Minute)
	defer store.Close()

	store.Put(&Room{ID: "r1", sessions: make(map[int64]*Session)})

	store.mu.Lock()
	before := store.rooms["r1"].expiresAt
	store.mu.Unlock()

	time.Sleep(2 * time.Millisecond)
	store.Touch("r1")

	store.mu.Lock()
	after := store.rooms["r1"].expiresAt
	store.mu.Unlock()

	if !after.After(before) {
		t.Errorf("Touch did not extend expiry: before=%v after=%v", before, after)
	}
}

func TestMemoryStoreSweepAbortsSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	msg := &fakeMessenger{}
	coord := NewCoordinator(store, NewScheduler(), &fakeContent{}, &fakeArchive{}, msg, 30*time.Minute)

	room := &Room{ID: "r1", sessions: make(map[int64]*Session)}
	p := &Participant{UserID: 200, Name: "Ali"}
	session := newSession(coord, room, p, []Question{{Prompt: "apple", Answer: "olma"}})
	room.sessions[200] = session
	store.Put(room)

	store.sweep(time.Now().Add(2 * time.Minute))

	if !session.Ended() {
		t.Error("session still live after its room was evicted")
	}
}
