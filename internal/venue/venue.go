// Package venue loads the static copy shown on the site: prices, menu,
// event packages, contact details.
package venue

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed venue.yaml
var defaultDocument []byte

// Venue is the whole site copy.
type Venue struct {
	Name    string      `yaml:"name"`
	City    string      `yaml:"city"`
	Tagline string      `yaml:"tagline"`
	Motto   string      `yaml:"motto"`
	Home    Home        `yaml:"home"`
	Pricing []PriceLine `yaml:"pricing"`
	Dining  Dining      `yaml:"dining"`
	Events  []Package   `yaml:"events"`
	Contact Contact     `yaml:"contact"`
}

type Home struct {
	Intro      string   `yaml:"intro"`
	Highlights []string `yaml:"highlights"`
	Reviews    []Review `yaml:"reviews"`
}

type Review struct {
	Author string `yaml:"author"`
	Stars  int    `yaml:"stars"`
	Quote  string `yaml:"quote"`
}

type PriceLine struct {
	Label string `yaml:"label"`
	Price string `yaml:"price"`
	Note  string `yaml:"note"`
}

type Dining struct {
	Intro string     `yaml:"intro"`
	Items []MenuItem `yaml:"items"`
}

type MenuItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

// Package is an event offer.
type Package struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

type Contact struct {
	Address string         `yaml:"address"`
	Phone   string         `yaml:"phone"`
	Email   string         `yaml:"email"`
	Hours   []OpeningHours `yaml:"hours"`
}

type OpeningHours struct {
	Days string `yaml:"days"`
	Open string `yaml:"open"`
}

// Default returns the embedded venue copy.
func Default() (*Venue, error) {
	return Parse(defaultDocument)
}

// Load reads the venue copy from path, or the embedded copy when path is
// empty.
func Load(path string) (*Venue, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a venue document.
func Parse(data []byte) (*Venue, error) {
	var v Venue
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse venue: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Validate checks the fields every page relies on.
func (v *Venue) Validate() error {
	var errs []error
	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, errors.New("venue name is required"))
	}
	for i, line := range v.Pricing {
		if strings.TrimSpace(line.Label) == "" || strings.TrimSpace(line.Price) == "" {
			errs = append(errs, fmt.Errorf("pricing line %d needs a label and a price", i+1))
		}
	}
	for i, r := range v.Home.Reviews {
		if r.Stars < 0 || r.Stars > 5 {
			errs = append(errs, fmt.Errorf("review %d: stars %d outside 0..5", i+1, r.Stars))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid venue: %w", errors.Join(errs...))
	}
	return nil
}
