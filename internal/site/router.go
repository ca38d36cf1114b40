package site

import "fmt"

// Router tracks which section is on screen. Exactly one section is active.
type Router struct {
	active Section
}

// NewRouter starts on DefaultSection.
func NewRouter() *Router {
	return &Router{active: DefaultSection}
}

// Select makes id the active section. Identifiers outside the navigable set
// are rejected and leave the router unchanged.
func (r *Router) Select(id Section) error {
	if !id.Valid() {
		return fmt.Errorf("select %q: %w", id, ErrUnknownSection)
	}
	r.active = id
	return nil
}

// Active returns the section on screen.
func (r *Router) Active() Section {
	return r.active
}
