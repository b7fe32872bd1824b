package identity

import (
	"sync"
	"testing"
)

func TestMemoryRegistryRevokeIsIdempotent(t *testing.T) {
	reg := NewMemoryRegistry()

	if reg.IsRevoked("tok-1") {
		t.Fatal("fresh registry should not report revoked")
	}
	reg.Revoke("tok-1")
	reg.Revoke("tok-1")
	if !reg.IsRevoked("tok-1") {
		t.Fatal("expected tok-1 to be revoked")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one entry, got %d", reg.Len())
	}
	if reg.IsRevoked("tok-2") {
		t.Fatal("unrelated token reported revoked")
	}
}

func TestMemoryRegistryIgnoresEmptyToken(t *testing.T) {
	reg := NewMemoryRegistry()
	reg.Revoke("")
	if reg.Len() != 0 {
		t.Fatalf("empty token must not be stored, got %d entries", reg.Len())
	}
	if reg.IsRevoked("") {
		t.Fatal("empty token must never read as revoked")
	}
}

func TestMemoryRegistryConcurrentAccess(t *testing.T) {
	reg := NewMemoryRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Revoke("shared")
			_ = reg.IsRevoked("shared")
		}()
	}
	wg.Wait()
	if !reg.IsRevoked("shared") {
		t.Fatal("expected shared token revoked after concurrent writes")
	}
}
