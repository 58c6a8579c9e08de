package cache

import (
	"testing"
	"time"
)

func TestSetGetAndExpiry(t *testing.T) {
	c := New(30 * time.Millisecond)

	c.Set("balance:1", 60.0)

	v, ok := c.Get("balance:1")
	if !ok || v.(float64) != 60.0 {
		t.Fatalf("expected hit with 60.0, got %v %v", v, ok)
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("balance:1"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestInvalidateUser(t *testing.T) {
	c := New(time.Minute)

	c.Set(UserKey("balance", 1), 60.0)
	c.Set(UserKey("monthly_summary", 1), "s")
	c.Set(UserKey("balance", 11), 99.0)

	c.InvalidateUser(1)

	if _, ok := c.Get(UserKey("balance", 1)); ok {
		t.Fatalf("balance:1 should be gone")
	}
	if _, ok := c.Get(UserKey("monthly_summary", 1)); ok {
		t.Fatalf("monthly_summary:1 should be gone")
	}

	// user 11 shares a digit suffix but not the full key suffix
	if _, ok := c.Get(UserKey("balance", 11)); !ok {
		t.Fatalf("balance:11 should survive")
	}
}

func TestUserKey(t *testing.T) {
	if UserKey("balance", 7) != "balance:7" {
		t.Fatalf("unexpected key %q", UserKey("balance", 7))
	}
}
