package buffer

import "testing"

func TestToPCMClipsToExactBounds(t *testing.T) {
	a, _ := FromMono([]float64{2, -2, 0.5, 0}, 48000)

	got, err := a.ToPCM(16)
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}

	want := []int{32767, -32768, 16384, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToPCM()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestToPCMRejectsOddDepth(t *testing.T) {
	a, _ := FromMono([]float64{0}, 48000)
	if _, err := a.ToPCM(12); err == nil {
		t.Fatal("ToPCM(12) expected error")
	}
}

func TestFromPCM(t *testing.T) {
	a, err := FromPCM([]int{16384, -16384}, 2, 16, 48000)
	if err != nil {
		t.Fatalf("FromPCM() error = %v", err)
	}
	if a.Channel(0)[0] != 0.5 || a.Channel(1)[0] != -0.5 {
		t.Fatalf("FromPCM() = %v %v", a.Channel(0), a.Channel(1))
	}
}
