package envelope

import (
	"math"
	"testing"
)

func TestNewFollowerValidation(t *testing.T) {
	tests := []struct {
		name    string
		sr      float64
		attack  float64
		release float64
		wantErr bool
	}{
		{"valid", 48000, 10, 100, false},
		{"zero times", 48000, 0, 0, false},
		{"zero sample rate", 0, 10, 100, true},
		{"negative attack", 48000, -1, 100, true},
		{"nan release", 48000, 1, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFollower(tt.sr, tt.attack, tt.release)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFollower() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFollowerAttackStep(t *testing.T) {
	const sr = 1000.0
	f, err := NewFollower(sr, 10, 100)
	if err != nil {
		t.Fatalf("NewFollower() error = %v", err)
	}

	a := math.Exp(-1.0 / 10)
	want := 0.0
	for i := 0; i < 50; i++ {
		want = a*want + (1 - a)
		if got := f.Process(1); math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
	if f.Level() < 0.99 {
		t.Fatalf("level after 5 time constants = %v, want > 0.99", f.Level())
	}
}

func TestFollowerReleaseSlowerThanAttack(t *testing.T) {
	f, _ := NewFollower(1000, 1, 200)
	for i := 0; i < 100; i++ {
		f.Process(1)
	}
	peak := f.Level()
	for i := 0; i < 10; i++ {
		f.Process(0)
	}
	if f.Level() < 0.9*peak {
		t.Fatalf("release too fast: %v after 10 ms from %v", f.Level(), peak)
	}
}

func TestFollowerSubSampleTimeFloorsAtOneSample(t *testing.T) {
	for _, ms := range []float64{0, 0.1} {
		f, _ := NewFollower(1000, ms, ms)
		want := 1 - math.Exp(-1)
		if got := f.Process(1); math.Abs(got-want) > 1e-12 {
			t.Fatalf("%v ms: Process() = %v, want %v", ms, got, want)
		}
	}
}

func TestFollowerReset(t *testing.T) {
	f, _ := NewFollower(48000, 5, 50)
	f.Process(1)
	f.Reset()
	if f.Level() != 0 {
		t.Fatalf("Level() after Reset = %v", f.Level())
	}
}
