package realtime

import "sync"

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
	}
}

// Create adds a room with the given id and state, replacing any room with
// the same id.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rooms[id]; ok {
		old.hub.Close()
	}
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes a room and disconnects its subscribers.
func (s *RoomStore[T]) Delete(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
	}
	s.mu.Unlock()
	if ok {
		r.hub.Close()
	}
	return ok
}

// Range calls fn for a snapshot of the rooms; fn may call Delete.
func (s *RoomStore[T]) Range(fn func(r *Room[T]) bool) {
	s.mu.RLock()
	rooms := make([]*Room[T], 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()
	for _, r := range rooms {
		if !fn(r) {
			return
		}
	}
}

// Len reports the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are
// ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	if r, ok := s.Get(id); ok {
		r.hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for the room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	r, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	return r.hub, true
}
