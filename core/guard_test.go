package core

import (
	"sync"
	"testing"
)

func TestUserGuard_TryAcquire(t *testing.T) {
	g := NewUserGuard()

	if !g.TryAcquire(1) {
		t.Fatal("first TryAcquire() = false, want true")
	}
	if g.TryAcquire(1) {
		t.Error("second TryAcquire() for busy user = true, want false")
	}
	if !g.TryAcquire(2) {
		t.Error("TryAcquire() for different user = false, want true")
	}

	g.Release(1)
	if !g.TryAcquire(1) {
		t.Error("TryAcquire() after Release() = false, want true")
	}
}

func TestUserGuard_ReleaseUnknown(t *testing.T) {
	g := NewUserGuard()
	g.Release(99) // must not panic

	if !g.TryAcquire(99) {
		t.Error("TryAcquire() after releasing unknown id = false, want true")
	}
}

func TestUserGuard_Concurrent(t *testing.T) {
	g := NewUserGuard()

	const workers = 32
	var wg sync.WaitGroup
	acquired := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired <- g.TryAcquire(7)
		}()
	}
	wg.Wait()
	close(acquired)

	wins := 0
	for ok := range acquired {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("concurrent TryAcquire() succeeded %d times, want exactly 1", wins)
	}
}
