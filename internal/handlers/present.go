package handlers

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"metrobowling/internal/bowling"
	"metrobowling/internal/metrics"
	"metrobowling/internal/site"
	"metrobowling/internal/venue"
	"metrobowling/internal/viewmodel"
	"metrobowling/pkg/realtime"
)

// Deps are shared by every handler.
type Deps struct {
	Store    *site.Store
	Venue    *venue.Venue
	Clock    realtime.Clock
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Locale   language.Tag
	SoundURL string
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = realtime.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Locale == language.Und {
		d.Locale = language.French
	}
	if d.Venue == nil {
		d.Venue = &venue.Venue{}
	}
	return d
}

type presenter struct {
	venue    *venue.Venue
	printer  *message.Printer
	lang     string
	soundURL string
}

func newPresenter(d Deps) *presenter {
	base, _ := d.Locale.Base()
	return &presenter{
		venue:    d.Venue,
		printer:  message.NewPrinter(d.Locale),
		lang:     base.String(),
		soundURL: d.SoundURL,
	}
}

func (p *presenter) page(view *site.View, now time.Time) viewmodel.Page {
	active := view.Active()
	return viewmodel.Page{
		Lang:     p.lang,
		Title:    p.venue.Name,
		Tagline:  p.venue.Tagline,
		SoundURL: p.soundURL,
		Nav:      p.nav(active),
		Panel:    p.panel(active, view.Lane()),
		Footer: viewmodel.Footer{
			Year:  strconv.Itoa(now.Year()),
			Venue: p.venue.Name,
			Motto: p.venue.Motto,
		},
	}
}

func (p *presenter) nav(active site.Section) []viewmodel.NavItem {
	sections := site.Sections()
	items := make([]viewmodel.NavItem, 0, len(sections))
	for _, s := range sections {
		items = append(items, viewmodel.NavItem{
			ID:     string(s.ID),
			Label:  s.Label,
			Href:   "/sections/" + string(s.ID),
			Active: s.ID == active,
		})
	}
	return items
}

func (p *presenter) panel(active site.Section, lane *bowling.Lane) viewmodel.Panel {
	panel := viewmodel.Panel{Section: string(active)}
	v := p.venue
	switch active {
	case site.SectionHome:
		reviews := make([]viewmodel.Review, 0, len(v.Home.Reviews))
		for _, r := range v.Home.Reviews {
			reviews = append(reviews, viewmodel.Review{
				Author: r.Author,
				Stars:  stars(r.Stars),
				Quote:  r.Quote,
			})
		}
		panel.Home = viewmodel.HomePanel{
			Title:      v.Name,
			Tagline:    v.Tagline,
			Intro:      v.Home.Intro,
			Highlights: v.Home.Highlights,
			Reviews:    reviews,
		}
	case site.SectionPricing:
		rows := make([]viewmodel.PriceRow, 0, len(v.Pricing))
		for _, line := range v.Pricing {
			rows = append(rows, viewmodel.PriceRow{Label: line.Label, Price: line.Price, Note: line.Note})
		}
		panel.Pricing = viewmodel.PricingPanel{Rows: rows}
	case site.SectionDining:
		items := make([]viewmodel.MenuItem, 0, len(v.Dining.Items))
		for _, item := range v.Dining.Items {
			items = append(items, viewmodel.MenuItem{Name: item.Name, Price: item.Price, Description: item.Description})
		}
		panel.Dining = viewmodel.DiningPanel{Intro: v.Dining.Intro, Items: items}
	case site.SectionEvents:
		packages := make([]viewmodel.EventPackage, 0, len(v.Events))
		for _, pkg := range v.Events {
			packages = append(packages, viewmodel.EventPackage{Name: pkg.Name, Price: pkg.Price, Description: pkg.Description})
		}
		panel.Events = viewmodel.EventsPanel{Packages: packages}
	case site.SectionContact:
		hours := make([]viewmodel.HoursRow, 0, len(v.Contact.Hours))
		for _, h := range v.Contact.Hours {
			hours = append(hours, viewmodel.HoursRow{Days: h.Days, Open: h.Open})
		}
		panel.Contact = viewmodel.ContactPanel{
			Address: v.Contact.Address,
			Phone:   v.Contact.Phone,
			Email:   v.Contact.Email,
			Hours:   hours,
		}
	case site.SectionGame:
		panel.Game = p.game(lane.Snapshot())
	}
	return panel
}

func (p *presenter) game(state bowling.State) viewmodel.GamePanel {
	g := viewmodel.GamePanel{
		Score:       p.printer.Sprintf("%d", state.Score),
		Rolls:       p.printer.Sprintf("%d", state.Rolls),
		HasRolled:   state.Rolls > 0,
		Celebration: p.celebration(state.Celebration),
	}
	if g.HasRolled {
		g.LastRoll = p.printer.Sprintf("%d quilles", state.LastPins)
		if state.LastPins == bowling.MaxPins {
			g.LastRoll += " 🎯"
		}
	}
	return g
}

func (p *presenter) celebration(c bowling.Celebration) viewmodel.Celebration {
	vm := viewmodel.Celebration{Banner: c.Banner, PinFall: c.Pins}
	if c.Pins {
		vm.Pins = make([]viewmodel.Pin, 0, len(c.Tilts))
		for _, tilt := range c.Tilts {
			vm.Pins = append(vm.Pins, viewmodel.Pin{Tilt: strconv.Itoa(tilt)})
		}
	}
	return vm
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
