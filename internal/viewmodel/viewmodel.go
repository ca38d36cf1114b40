// Package viewmodel defines the data passed to templ components. It carries
// display-ready strings only and imports no domain packages.
package viewmodel

// Page holds everything the full site page needs.
type Page struct {
	Lang     string
	Title    string
	Tagline  string
	SoundURL string
	Nav      []NavItem
	Panel    Panel
	Footer   Footer
}

// NavItem is one navigation control.
type NavItem struct {
	ID     string
	Label  string
	Href   string
	Active bool
}

// Footer holds the copyright line.
type Footer struct {
	Year  string
	Venue string
	Motto string
}

// Panel is the body region. Only the part named by Section is rendered.
type Panel struct {
	Section string
	Home    HomePanel
	Pricing PricingPanel
	Dining  DiningPanel
	Events  EventsPanel
	Contact ContactPanel
	Game    GamePanel
}

type HomePanel struct {
	Title      string
	Tagline    string
	Intro      string
	Highlights []string
	Reviews    []Review
}

type Review struct {
	Author string
	Stars  string
	Quote  string
}

type PricingPanel struct {
	Rows []PriceRow
}

type PriceRow struct {
	Label string
	Price string
	Note  string
}

type DiningPanel struct {
	Intro string
	Items []MenuItem
}

type MenuItem struct {
	Name        string
	Price       string
	Description string
}

type EventsPanel struct {
	Packages []EventPackage
}

type EventPackage struct {
	Name        string
	Price       string
	Description string
}

type ContactPanel struct {
	Address string
	Phone   string
	Email   string
	Hours   []HoursRow
}

type HoursRow struct {
	Days string
	Open string
}

// GamePanel holds the mini-game card.
type GamePanel struct {
	Score       string
	Rolls       string
	LastRoll    string
	HasRolled   bool
	Celebration Celebration
}

// Celebration holds the strike overlays.
type Celebration struct {
	Banner  bool
	PinFall bool
	Pins    []Pin
}

// Pin is one animated pin; Tilt is its rotation in degrees.
type Pin struct {
	Tilt string
}
