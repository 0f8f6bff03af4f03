package quiz

import (
	"sync"
	"time"

	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

// Store holds live room state with activity-based expiry. Keys are room
// ids; per-key mutation is serialized by the Room's own mutex, the store
// only guards the map itself.
type Store interface {
	Put(room *Room)
	Get(id string) (*Room, bool)
	Delete(id string)
	// Touch refreshes the room's TTL on activity (join, answer, result).
	Touch(id string)
	Close()
}

type storeEntry struct {
	room      *Room
	expiresAt time.Time
}

// MemoryStore is the in-process Store. A janitor goroutine evicts rooms
// idle past the TTL and aborts any sessions still live in them.
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	rooms map[string]*storeEntry
	stop  chan struct{}
	once  sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:   ttl,
		rooms: make(map[string]*storeEntry),
		stop:  make(chan struct{}),
	}

	go s.janitor()

	return s
}

func (s *MemoryStore) Put(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = &storeEntry{
		room:      room,
		expiresAt: time.Now().Add(s.ttl),
	}
}

func (s *MemoryStore) Get(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.rooms[id]
	if !exists {
		return nil, false
	}
	return entry.room, true
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, id)
}

func (s *MemoryStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.rooms[id]; exists {
		entry.expiresAt = time.Now().Add(s.ttl)
	}
}

func (s *MemoryStore) Close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stop:
			return
		}
	}
}

// sweep evicts rooms idle past their TTL. Live sessions in an evicted
// room go straight to Ended without further questions.
func (s *MemoryStore) sweep(now time.Time) {
	var expired []*Room

	s.mu.Lock()
	for id, entry := range s.rooms {
		if now.After(entry.expiresAt) {
			expired = append(expired, entry.room)
			delete(s.rooms, id)
		}
	}
	s.mu.Unlock()

	for _, room := range expired {
		room.AbortSessions()
		logger.Info("Evicted idle quiz room", "room_id", room.ID)
	}
}
