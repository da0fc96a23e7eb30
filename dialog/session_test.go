package dialog

import (
	"errors"
	"sync"
	"testing"
)

func TestSessionsBeginOnce(t *testing.T) {
	s := NewSessions()
	if _, err := s.Begin(1, "add_expense", "when"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Begin(1, "query", "filter_type"); !errors.Is(err, ErrActive) {
		t.Errorf("err = %v, want ErrActive", err)
	}
	// A different user is unaffected.
	if _, err := s.Begin(2, "query", "filter_type"); err != nil {
		t.Fatal(err)
	}
}

func TestSessionsEndIdempotent(t *testing.T) {
	s := NewSessions()
	s.End(1)
	if _, err := s.Begin(1, "add_expense", "when"); err != nil {
		t.Fatal(err)
	}
	s.End(1)
	s.End(1)
	if s.InProgress(1) {
		t.Error("session should be gone")
	}
	if _, err := s.Begin(1, "query", "filter_type"); err != nil {
		t.Fatal(err)
	}
}

func TestSessionsConcurrentBegin(t *testing.T) {
	s := NewSessions()
	const n = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Begin(1, "add_expense", "when"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)
	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Errorf("%d Begin calls won, want exactly 1", count)
	}
}

func TestUserLockStable(t *testing.T) {
	s := NewSessions()
	if s.userLock(1) != s.userLock(1) {
		t.Error("userLock must return the same mutex per user")
	}
	if s.userLock(1) == s.userLock(2) {
		t.Error("users must not share a lock")
	}
}
