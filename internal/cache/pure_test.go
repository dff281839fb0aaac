package cache

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/catsfront/catsfront/internal/model"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	if hashIP(ip) != hashIP(ip) {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if hash := hashIP(tt.ip); len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	if hashIP("10.0.0.1") == hashIP("10.0.0.2") {
		t.Error("Different IPs should produce different hashes")
	}
}

func TestCatKey(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		1:      "cat:1",
		42:     "cat:42",
		900001: "cat:900001",
	}
	for id, want := range tests {
		if got := catKey(id); got != want {
			t.Errorf("catKey(%d) = %q, want %q", id, got, want)
		}
	}
}

func TestCatFields_RoundTrip(t *testing.T) {
	t.Parallel()

	cat := &model.Cat{ID: 7, Name: "Tom", Breed: "Tabby", Age: 3, Weight: 4.5}

	// HSET stores every value as a string.
	hash := make(map[string]string)
	for k, v := range catFields(cat) {
		hash[k] = v.(string)
	}

	got, err := cachedCatFromHash(hash).ToCat()
	if err != nil {
		t.Fatalf("ToCat: %v", err)
	}
	if diff := cmp.Diff(cat, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBucketTTL(t *testing.T) {
	tests := []struct {
		rate, burst int
		want        time.Duration
	}{
		{10, 20, minBucketTTL},
		{1, 30, 30 * time.Second},
		{2, 45, 23 * time.Second},
	}
	for _, tt := range tests {
		if got := bucketTTL(tt.rate, tt.burst); got != tt.want {
			t.Errorf("bucketTTL(%d, %d) = %v, want %v", tt.rate, tt.burst, got, tt.want)
		}
	}
}
