package redis

import "testing"

func TestIdempotencyStore_Key(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	if s.ttl != defaultIdempotencyTTL {
		t.Fatalf("expected default ttl, got %v", s.ttl)
	}
	if got := s.key("planet:staff", "abc"); got != "idem:planet:staff:abc" {
		t.Fatalf("unexpected key: %s", got)
	}
}
