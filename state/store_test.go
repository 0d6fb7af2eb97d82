package state

import (
	"sync"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	s := New(1)
	if got := s.Get(); got != 1 {
		t.Fatalf("Get = %d, want 1", got)
	}
	s.Set(2)
	if got := s.Get(); got != 2 {
		t.Fatalf("Get = %d, want 2", got)
	}
}

func TestStoreNotifiesInOrder(t *testing.T) {
	s := New("a")
	var calls []string
	s.Subscribe(func(old, new string) { calls = append(calls, "first:"+old+">"+new) })
	s.Subscribe(func(old, new string) { calls = append(calls, "second:"+old+">"+new) })

	s.Set("b")

	want := []string{"first:a>b", "second:a>b"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	s := New(0)
	var a, b int
	unsubA := s.Subscribe(func(_, _ int) { a++ })
	s.Subscribe(func(_, _ int) { b++ })

	s.Set(1)
	unsubA()
	unsubA()
	s.Set(2)

	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestStoreListenerMaySetAgain(t *testing.T) {
	s := New(0)
	s.Subscribe(func(_, new int) {
		if new == 1 {
			s.Set(2)
		}
	})
	s.Set(1)
	if got := s.Get(); got != 2 {
		t.Fatalf("Get = %d, want 2", got)
	}
}

func TestStoreConcurrentSet(t *testing.T) {
	s := New(0)
	var mu sync.Mutex
	seen := 0
	s.Subscribe(func(_, _ int) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
			_ = s.Get()
		}(i)
	}
	wg.Wait()

	if seen != 50 {
		t.Fatalf("listener ran %d times, want 50", seen)
	}
}
