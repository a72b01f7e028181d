package limiter

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_AllowWithinBurst(t *testing.T) {
	store := NewStore(60, 3, time.Minute)
	defer store.Close()

	for i := 0; i < 3; i++ {
		if !store.Allow("10.0.0.1") {
			t.Fatalf("request %d denied, want allowed within burst", i+1)
		}
	}

	if store.Allow("10.0.0.1") {
		t.Error("request beyond burst allowed, want denied")
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore(60, 1, time.Minute)
	defer store.Close()

	if !store.Allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if !store.Allow("10.0.0.2") {
		t.Error("second client denied, want its own bucket")
	}
	if store.Allow("10.0.0.1") {
		t.Error("first client allowed twice with burst 1")
	}
}

func TestStore_Refill(t *testing.T) {
	store := NewStore(60, 1, time.Minute)
	defer store.Close()

	current := time.Now()
	store.now = func() time.Time { return current }

	if !store.Allow("k") {
		t.Fatal("first request denied")
	}
	if store.Allow("k") {
		t.Fatal("second request allowed before refill")
	}

	// 60 per minute refills one token per second
	current = current.Add(1100 * time.Millisecond)
	if !store.Allow("k") {
		t.Error("request denied after refill")
	}
}

func TestStore_BurstDefaultsToRate(t *testing.T) {
	store := NewStore(5, 0, time.Minute)
	defer store.Close()

	if store.burst != 5 {
		t.Errorf("burst = %d, want 5", store.burst)
	}
}

func TestStore_SweepRemovesIdle(t *testing.T) {
	store := NewStore(60, 5, time.Minute)
	defer store.Close()

	current := time.Now()
	store.now = func() time.Time { return current }

	store.Allow("old")
	current = current.Add(30 * time.Second)
	store.Allow("recent")

	current = current.Add(45 * time.Second)
	store.sweep()

	if store.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", store.Size())
	}
	if _, ok := store.visitors["recent"]; !ok {
		t.Error("recent visitor was swept")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(6000, 1000, time.Minute)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", id)
			for j := 0; j < 50; j++ {
				store.Allow(key)
			}
		}(i)
	}
	wg.Wait()

	if store.Size() != 10 {
		t.Errorf("Size() = %d, want 10", store.Size())
	}
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	store := NewStore(60, 1, time.Minute)
	store.Close()
	store.Close()
}
