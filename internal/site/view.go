package site

import (
	"sync"
	"time"

	"metrobowling/internal/bowling"
)

// View is the state owned by one visitor for the lifetime of their session:
// the section router and the mini-game lane.
type View struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	router   *Router
	lane     *bowling.Lane
	lastSeen time.Time
}

func newView(id string, lane *bowling.Lane, now time.Time) *View {
	return &View{
		ID:        id,
		CreatedAt: now,
		router:    NewRouter(),
		lane:      lane,
		lastSeen:  now,
	}
}

// Select switches the active section.
func (v *View) Select(id Section) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.router.Select(id)
}

// SelectRaw parses and selects an identifier coming from a request.
func (v *View) SelectRaw(raw string) (Section, error) {
	id := Section(raw)
	if err := v.Select(id); err != nil {
		return v.Active(), err
	}
	return id, nil
}

// Active returns the section on screen.
func (v *View) Active() Section {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.router.Active()
}

// Lane returns the visitor's mini-game lane.
func (v *View) Lane() *bowling.Lane {
	return v.lane
}

// Touch records activity at now.
func (v *View) Touch(now time.Time) {
	v.mu.Lock()
	if now.After(v.lastSeen) {
		v.lastSeen = now
	}
	v.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (v *View) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}
