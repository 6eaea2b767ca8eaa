package core

import (
	"sync"
	"testing"
)

func TestStoreGetOrCreateReturnsSameHandle(t *testing.T) {
	st := NewStore()

	const n = 32
	got := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = st.GetOrCreate("s1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("GetOrCreate returned distinct handles")
		}
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}
}

func TestStoreDelete(t *testing.T) {
	st := NewStore()
	st.Delete("missing")

	old := st.GetOrCreate("s1")
	old.SetOffer(raw(`"A"`))
	st.Delete("s1")
	if _, ok := st.Get("s1"); ok {
		t.Fatalf("s1 still present after Delete")
	}
	st.Delete("s1")

	fresh := st.GetOrCreate("s1")
	if fresh == old {
		t.Fatalf("GetOrCreate after Delete returned the old handle")
	}
	if fresh.Snapshot().Offer != nil {
		t.Fatalf("fresh session carries old offer")
	}
}

func TestStoreDeleteIf(t *testing.T) {
	st := NewStore()
	if st.DeleteIf("missing", func() bool { return true }) {
		t.Fatalf("DeleteIf on missing id reported deletion")
	}

	st.GetOrCreate("s1")
	if st.DeleteIf("s1", func() bool { return false }) {
		t.Fatalf("DeleteIf deleted although cond is false")
	}
	if _, ok := st.Get("s1"); !ok {
		t.Fatalf("s1 gone after refused DeleteIf")
	}
	if !st.DeleteIf("s1", func() bool { return true }) {
		t.Fatalf("DeleteIf refused although cond is true")
	}
	if st.Len() != 0 {
		t.Fatalf("Len = %d, want 0", st.Len())
	}
}
