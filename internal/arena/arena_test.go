package arena

import (
	"math/rand/v2"
	"testing"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, to, want int
	}{
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 4, 8},
		{17, 16, 32},
		{3, 1, 3},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.v, tt.to); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.v, tt.to, got, tt.want)
		}
	}
	if got := AlignUp[uint32](9, 8); got != 16 {
		t.Errorf("AlignUp[uint32](9, 8) = %d, want 16", got)
	}
}

func TestArena_Alloc(t *testing.T) {
	a := New(make([]byte, 16), 4)

	b, ok := a.Alloc(3)
	if !ok || len(b) != 4 {
		t.Fatalf("Alloc(3) = len %d, %v; want len 4, true", len(b), ok)
	}
	if a.Len() != 4 || a.Free() != 12 {
		t.Errorf("Len/Free = %d/%d, want 4/12", a.Len(), a.Free())
	}

	if _, ok := a.Alloc(12); !ok {
		t.Fatal("Alloc(12) failed with exactly 12 bytes free")
	}
	if _, ok := a.Alloc(1); ok {
		t.Error("Alloc(1) succeeded on a full arena")
	}
	if a.Len() != 16 {
		t.Errorf("Len() = %d after failed Alloc, want 16", a.Len())
	}
}

func TestArena_AllocZeroes(t *testing.T) {
	mem := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	a := New(mem, 4)
	b, _ := a.Alloc(8)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestArena_CapacityRoundedDown(t *testing.T) {
	a := New(make([]byte, 10), 4)
	if a.Cap() != 8 {
		t.Errorf("Cap() = %d, want 8", a.Cap())
	}
}

func TestArena_Remove(t *testing.T) {
	a := New(make([]byte, 32), 8)
	a.Alloc(8)
	a.Alloc(5)
	a.Remove(5)
	if a.Len() != 8 {
		t.Errorf("Len() = %d after Remove(5), want 8", a.Len())
	}

	// Removing more than was written is ignored.
	a.Remove(64)
	if a.Len() != 8 {
		t.Errorf("Len() = %d after Remove(64), want 8", a.Len())
	}
}

func TestArena_ReadBack(t *testing.T) {
	a := New(make([]byte, 32), 4)
	for i := range 3 {
		b, _ := a.Alloc(2)
		b[0] = byte(i + 1)
	}

	if _, ok := a.LookAhead(2); !ok {
		t.Fatal("LookAhead(2) failed")
	}
	for i := range 3 {
		b, ok := a.Next(2)
		if !ok || b[0] != byte(i+1) || len(b) != 2 {
			t.Fatalf("Next(2) #%d = %v, %v", i, b, ok)
		}
	}
	if !a.AtEnd() {
		t.Error("AtEnd() = false after reading everything")
	}
	if _, ok := a.Next(1); ok {
		t.Error("Next(1) past the write cursor succeeded")
	}

	a.ResetRead()
	if a.AtEnd() {
		t.Error("AtEnd() = true after ResetRead")
	}

	a.Clear()
	if a.Len() != 0 || !a.AtEnd() {
		t.Errorf("after Clear: Len = %d, AtEnd = %v", a.Len(), a.AtEnd())
	}
}

func TestFromBytes(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	a := FromBytes(data, 4)
	if a.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", a.Len())
	}
	b, _ := a.Next(4)
	if b[0] != 1 {
		t.Errorf("first word = %v", b)
	}
}

func TestArena_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	a := New(make([]byte, 512), 16)
	for range 10000 {
		switch rng.IntN(4) {
		case 0, 1:
			size := rng.IntN(100)
			start := a.Len()
			b, ok := a.Alloc(size)
			if ok && start+len(b) > a.Cap() {
				t.Fatalf("Alloc(%d) ends at %d beyond cap %d", size, start+len(b), a.Cap())
			}
		case 2:
			size := rng.IntN(64)
			if b, ok := a.Next(size); ok && len(b) > a.Len() {
				t.Fatalf("Next(%d) returned %d bytes with %d written", size, len(b), a.Len())
			}
			if a.readPos > a.writePos {
				t.Fatalf("readPos %d beyond writePos %d", a.readPos, a.writePos)
			}
		case 3:
			if rng.IntN(10) == 0 {
				a.Clear()
			}
		}
	}
}

func TestNew_BadAlignment(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New with alignment 3 did not panic")
		}
	}()
	New(make([]byte, 8), 3)
}

func BenchmarkArena_Alloc(b *testing.B) {
	a := New(make([]byte, 1<<16), 4)
	for b.Loop() {
		if _, ok := a.Alloc(52); !ok {
			a.Clear()
		}
	}
}
