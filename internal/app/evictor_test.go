package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Consult/internal/core"
)

type evictLog struct {
	mu    sync.Mutex
	calls []core.SessionID
	ok    bool
}

func (l *evictLog) evict(sid core.SessionID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, sid)
	return l.ok
}

func (l *evictLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func TestEvictorFiresAfterGrace(t *testing.T) {
	l := &evictLog{ok: true}
	e := NewEvictor(20*time.Millisecond, l.evict)
	defer e.Stop()

	e.Schedule("s1")
	if !e.Pending("s1") {
		t.Fatalf("timer not pending after Schedule")
	}
	if l.count() != 0 {
		t.Fatalf("evicted before grace period")
	}
	deadline := time.Now().Add(2 * time.Second)
	for l.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if l.count() != 1 {
		t.Fatalf("evict calls = %d, want 1", l.count())
	}
	if e.Pending("s1") {
		t.Fatalf("timer still pending after firing")
	}
}

func TestEvictorRestartCoalesces(t *testing.T) {
	l := &evictLog{}
	e := NewEvictor(40*time.Millisecond, l.evict)
	defer e.Stop()

	e.Schedule("s1")
	time.Sleep(10 * time.Millisecond)
	e.Schedule("s1")
	e.Schedule("s1")

	time.Sleep(150 * time.Millisecond)
	if got := l.count(); got != 1 {
		t.Fatalf("evict calls = %d, want 1", got)
	}
}

func TestEvictorStop(t *testing.T) {
	l := &evictLog{ok: true}
	e := NewEvictor(10*time.Millisecond, l.evict)
	e.Schedule("s1")
	e.Stop()
	e.Schedule("s2")

	time.Sleep(50 * time.Millisecond)
	if got := l.count(); got != 0 {
		t.Fatalf("evict calls after Stop = %d, want 0", got)
	}
}

func TestEvictorConcurrentSchedule(t *testing.T) {
	l := &evictLog{ok: true}
	e := NewEvictor(time.Millisecond, l.evict)
	defer e.Stop()

	sids := []core.SessionID{"s1", "s2", "s3", "s4"}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.Schedule(sids[(i+j)%len(sids)])
			}
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		idle := true
		for _, sid := range sids {
			if e.Pending(sid) {
				idle = false
			}
		}
		if idle {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, sid := range sids {
		if e.Pending(sid) {
			t.Fatalf("%s still pending; a fired timer was not cleared", sid)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	seen := make(map[core.SessionID]bool)
	for _, sid := range l.calls {
		seen[sid] = true
	}
	for _, sid := range sids {
		if !seen[sid] {
			t.Fatalf("%s never evicted", sid)
		}
	}
}
