package site

import (
	"errors"
	"testing"
	"time"

	"metrobowling/internal/bowling"
	"metrobowling/pkg/realtime"
)

func newTestStore(values ...int) (*Store, *realtime.ManualClock) {
	clock := realtime.NewManualClock(time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC))
	s := NewStore(StoreOptions{
		Clock: clock,
		NewSource: func() bowling.Source {
			return bowling.NewSequence(values...)
		},
	})
	return s, clock
}

func TestNewStore(t *testing.T) {
	s := NewStore(StoreOptions{})
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestStore_CreateView_GetView(t *testing.T) {
	s, clock := newTestStore(0)
	v := s.CreateView()
	if v.ID == "" {
		t.Fatal("view ID is empty")
	}
	if v.Active() != SectionHome {
		t.Errorf("Active %q, want home", v.Active())
	}
	if v.Lane().Score() != 0 {
		t.Errorf("Score %d, want 0", v.Lane().Score())
	}
	if !v.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt %v, want %v", v.CreatedAt, clock.Now())
	}

	got, ok := s.GetView(v.ID)
	if !ok || got != v {
		t.Fatal("GetView should return the created view")
	}
	if _, ok := s.GetView("nonexistent"); ok {
		t.Error("GetView should return false for missing ID")
	}
	if _, ok := s.GetView(""); ok {
		t.Error("GetView should return false for empty ID")
	}
	if other := s.CreateView(); other.ID == v.ID {
		t.Error("views should get distinct IDs")
	}
}

func TestView_SelectRaw(t *testing.T) {
	s, _ := newTestStore(0)
	v := s.CreateView()
	got, err := v.SelectRaw("game")
	if err != nil || got != SectionGame {
		t.Fatalf("SelectRaw(game) = %q, %v", got, err)
	}
	got, err = v.SelectRaw("jeu")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err %v, want ErrUnknownSection", err)
	}
	if got != SectionGame || v.Active() != SectionGame {
		t.Errorf("active %q after bad select, want game", v.Active())
	}
}

func TestStore_StrikeNotifiesStream(t *testing.T) {
	s, clock := newTestStore(10)
	v := s.CreateView()
	hub, ok := s.Broadcaster(v.ID)
	if !ok {
		t.Fatal("view has no broadcaster")
	}
	events, cancel := hub.Subscribe()
	defer cancel()

	res := v.Lane().Roll()
	if !res.Strike {
		t.Fatal("expected a strike")
	}
	if got := <-events; got != realtime.EventSound {
		t.Errorf("first event %q, want sound", got)
	}

	clock.Advance(bowling.BannerDuration)
	if got := <-events; got != realtime.EventCelebration {
		t.Errorf("event %q, want celebration after banner reset", got)
	}
	clock.Advance(bowling.PinsDuration - bowling.BannerDuration)
	if got := <-events; got != realtime.EventCelebration {
		t.Errorf("event %q, want celebration after pins reset", got)
	}
}

func TestStore_StrikeWithoutStreamStillScores(t *testing.T) {
	s, clock := newTestStore(10)
	v := s.CreateView()
	res := v.Lane().Roll()
	if res.Score != 10 {
		t.Errorf("Score %d, want 10", res.Score)
	}
	clock.Advance(bowling.PinsDuration)
	if v.Lane().Celebration().Active() {
		t.Error("celebration should be over")
	}
}

func TestStore_Sweep(t *testing.T) {
	s, clock := newTestStore(0)
	stale := s.CreateView()
	clock.Advance(30 * time.Minute)
	fresh := s.CreateView()
	clock.Advance(45 * time.Minute)
	fresh.Touch(clock.Now())

	removed := s.Sweep(clock.Now(), time.Hour)
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if _, ok := s.GetView(stale.ID); ok {
		t.Error("stale view should be gone")
	}
	if _, ok := s.GetView(fresh.ID); !ok {
		t.Error("fresh view should remain")
	}
}

func TestView_TouchNeverMovesBackwards(t *testing.T) {
	s, clock := newTestStore(0)
	v := s.CreateView()
	now := clock.Now()
	v.Touch(now.Add(time.Minute))
	v.Touch(now)
	if !v.LastSeen().Equal(now.Add(time.Minute)) {
		t.Errorf("LastSeen %v, want %v", v.LastSeen(), now.Add(time.Minute))
	}
}
