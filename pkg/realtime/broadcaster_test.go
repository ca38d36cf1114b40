package realtime

import (
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster returned nil")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(EventCelebration)
	if got := <-ch; got != EventCelebration {
		t.Errorf("got event %q, want %q", got, EventCelebration)
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	b.Publish(EventSound)
	if got := <-ch1; got != EventSound {
		t.Errorf("ch1 got %q, want sound", got)
	}
	if got := <-ch2; got != EventSound {
		t.Errorf("ch2 got %q, want sound", got)
	}
}

func TestBroadcaster_CancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	cancel()
	cancel()
	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
	if b.Subscribers() != 0 {
		t.Errorf("Subscribers %d, want 0", b.Subscribers())
	}
}

func TestBroadcaster_PublishDropsWhenLagging(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()
	for i := 0; i < 100; i++ {
		b.Publish(EventCelebration)
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d, want full buffer %d", len(ch), cap(ch))
	}
}

func TestBroadcaster_CloseDetachesAll(t *testing.T) {
	b := NewBroadcaster()
	ch1, _ := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	b.Close()
	cancel2()
	if _, open := <-ch1; open {
		t.Error("ch1 should be closed")
	}
	if _, open := <-ch2; open {
		t.Error("ch2 should be closed")
	}
}
