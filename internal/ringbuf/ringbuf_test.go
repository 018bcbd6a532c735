package ringbuf

import (
	"sync"
	"testing"

	"chart-systemv1/internal/model"
)

func TestRing_BasicPushPop(t *testing.T) {
	r := New(4) // rounds to 4

	b1 := model.Bar{Time: 1, Open: 100}
	b2 := model.Bar{Time: 2, Open: 200}

	if !r.Push(b1) {
		t.Fatal("push b1 should succeed")
	}
	if !r.Push(b2) {
		t.Fatal("push b2 should succeed")
	}

	if r.Len() != 2 {
		t.Fatalf("expected len=2, got %d", r.Len())
	}

	got, ok := r.Pop()
	if !ok || got.Time != 1 {
		t.Fatalf("expected Time=1, got %v ok=%v", got.Time, ok)
	}

	got, ok = r.Pop()
	if !ok || got.Time != 2 {
		t.Fatalf("expected Time=2, got %v ok=%v", got.Time, ok)
	}

	_, ok = r.Pop()
	if ok {
		t.Fatal("pop from empty should return false")
	}
}

func TestRing_Overflow(t *testing.T) {
	r := New(2) // capacity = 2

	r.Push(model.Bar{Time: 1})
	r.Push(model.Bar{Time: 2})

	// Buffer is full
	ok := r.Push(model.Bar{Time: 3})
	if ok {
		t.Fatal("push to full buffer should return false")
	}
	if r.Overflow() != 1 {
		t.Fatalf("expected overflow=1, got %d", r.Overflow())
	}
}

func TestRing_Wraparound(t *testing.T) {
	r := New(4)

	// Fill, drain, fill again to cross the wrap point
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			if !r.Push(model.Bar{Time: int64(round*4 + i + 1)}) {
				t.Fatalf("round %d push %d failed", round, i)
			}
		}
		for i := 0; i < 4; i++ {
			got, ok := r.Pop()
			want := int64(round*4 + i + 1)
			if !ok || got.Time != want {
				t.Fatalf("round %d pop %d: got %d ok=%v, want %d", round, i, got.Time, ok, want)
			}
		}
	}
}

func TestRing_SPSC_Concurrent(t *testing.T) {
	r := New(1024)
	const n = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 1; i <= n; {
			if r.Push(model.Bar{Time: int64(i)}) {
				i++
			}
		}
	}()

	var last int64
	go func() {
		defer wg.Done()
		for count := 0; count < n; {
			b, ok := r.Pop()
			if !ok {
				continue
			}
			if b.Time != last+1 {
				t.Errorf("out of order: got %d after %d", b.Time, last)
				return
			}
			last = b.Time
			count++
		}
	}()

	wg.Wait()
	if last != n {
		t.Fatalf("expected last=%d, got %d", n, last)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 1000: 1024}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d)=%d, want %d", in, got, want)
		}
	}
}
