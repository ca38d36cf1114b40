package site

import "errors"

// Section identifies one content panel of the site.
type Section string

const (
	SectionHome    Section = "home"
	SectionPricing Section = "pricing"
	SectionDining  Section = "dining"
	SectionEvents  Section = "events"
	SectionContact Section = "contact"
	SectionGame    Section = "game"

	DefaultSection = SectionHome
)

// ErrUnknownSection is returned when selecting an identifier outside the
// navigable set.
var ErrUnknownSection = errors.New("unknown section")

// SectionInfo describes a navigation control.
type SectionInfo struct {
	ID    Section
	Label string
}

var sections = []SectionInfo{
	{ID: SectionHome, Label: "Accueil"},
	{ID: SectionPricing, Label: "Tarifs"},
	{ID: SectionDining, Label: "Restauration"},
	{ID: SectionEvents, Label: "Événements"},
	{ID: SectionContact, Label: "Contact"},
	{ID: SectionGame, Label: "Mini-Jeu"},
}

// Sections returns the navigable sections in display order.
func Sections() []SectionInfo {
	return append([]SectionInfo(nil), sections...)
}

// ParseSection maps a raw identifier to a Section.
func ParseSection(raw string) (Section, bool) {
	for _, s := range sections {
		if string(s.ID) == raw {
			return s.ID, true
		}
	}
	return "", false
}

// Valid reports whether s belongs to the navigable set.
func (s Section) Valid() bool {
	_, ok := ParseSection(string(s))
	return ok
}

// Label returns the display label, or the raw identifier if s is unknown.
func (s Section) Label() string {
	for _, info := range sections {
		if info.ID == s {
			return info.Label
		}
	}
	return string(s)
}
