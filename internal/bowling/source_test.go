package bowling

import "testing"

func TestSequence_Wraps(t *testing.T) {
	s := NewSequence(3, 10, 0)
	got := []int{s.Intn(11), s.Intn(11), s.Intn(11), s.Intn(11)}
	want := []int{3, 10, 0, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw %d = %d, want %d (all %v)", i, got[i], want[i], got)
		}
	}
}

func TestSequence_RejectsOutOfRange(t *testing.T) {
	for _, v := range []int{11, 12, -4} {
		s := NewSequence(v)
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Intn(11) with value %d did not panic", v)
				}
			}()
			s.Intn(11)
		}()
	}
}

func TestSequence_EmptyYieldsZero(t *testing.T) {
	s := NewSequence()
	if v := s.Intn(11); v != 0 {
		t.Errorf("got %d, want 0", v)
	}
}

func TestNewRandomSource_InRange(t *testing.T) {
	src := NewRandomSource()
	for i := 0; i < 500; i++ {
		if v := src.Intn(MaxPins + 1); v < 0 || v > MaxPins {
			t.Fatalf("draw %d out of range", v)
		}
	}
}
