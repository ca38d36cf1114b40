package site

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSections_DisplayOrder(t *testing.T) {
	want := []SectionInfo{
		{ID: SectionHome, Label: "Accueil"},
		{ID: SectionPricing, Label: "Tarifs"},
		{ID: SectionDining, Label: "Restauration"},
		{ID: SectionEvents, Label: "Événements"},
		{ID: SectionContact, Label: "Contact"},
		{ID: SectionGame, Label: "Mini-Jeu"},
	}
	if diff := cmp.Diff(want, Sections()); diff != "" {
		t.Errorf("Sections() mismatch (-want +got):\n%s", diff)
	}
}

func TestSections_ReturnsCopy(t *testing.T) {
	got := Sections()
	got[0].Label = "changed"
	if Sections()[0].Label != "Accueil" {
		t.Error("Sections must not expose the package table")
	}
}

func TestParseSection(t *testing.T) {
	for _, info := range Sections() {
		got, ok := ParseSection(string(info.ID))
		if !ok || got != info.ID {
			t.Errorf("ParseSection(%q) = %q, %v", info.ID, got, ok)
		}
	}
	for _, raw := range []string{"", "HOME", "jeu", "accueil", "game "} {
		if _, ok := ParseSection(raw); ok {
			t.Errorf("ParseSection(%q) should fail", raw)
		}
	}
}

func TestSection_Label(t *testing.T) {
	if SectionEvents.Label() != "Événements" {
		t.Errorf("label %q", SectionEvents.Label())
	}
	if Section("bar").Label() != "bar" {
		t.Errorf("unknown label %q", Section("bar").Label())
	}
}

func TestNewRouter_StartsOnHome(t *testing.T) {
	r := NewRouter()
	if r.Active() != SectionHome {
		t.Errorf("Active %q, want home", r.Active())
	}
}

func TestRouter_SelectEverySection(t *testing.T) {
	r := NewRouter()
	for _, info := range Sections() {
		if err := r.Select(info.ID); err != nil {
			t.Fatalf("Select(%q): %v", info.ID, err)
		}
		if r.Active() != info.ID {
			t.Errorf("Active %q, want %q", r.Active(), info.ID)
		}
	}
}

func TestRouter_SelectUnknownIsRejected(t *testing.T) {
	r := NewRouter()
	if err := r.Select(SectionDining); err != nil {
		t.Fatalf("Select: %v", err)
	}
	err := r.Select("bar")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err %v, want ErrUnknownSection", err)
	}
	if r.Active() != SectionDining {
		t.Errorf("Active %q, want dining to survive a bad selection", r.Active())
	}
}
