package buffer

import "testing"

func TestPoolGetIsZeroed(t *testing.T) {
	p := NewPool()

	s := p.Get(8)
	for i := range s {
		s[i] = float64(i + 1)
	}
	p.Put(s)

	s = p.Get(4)
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	for i, v := range s {
		if v != 0 {
			t.Fatalf("s[%d] = %v, want 0", i, v)
		}
	}
}
