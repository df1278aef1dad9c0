package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "scene:abc"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "scene:abc", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "scene:abc")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "scene:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scene:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "scene:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	s1 := k.SceneKey("model123", SceneKeyOpts{Theme: "brand", Legend: true})
	s2 := k.SceneKey("model123", SceneKeyOpts{Theme: "mono", Legend: true})
	if s1 == s2 {
		t.Error("different themes should produce different scene keys")
	}
	if !strings.HasPrefix(s1, KindScene+":") {
		t.Errorf("scene key %q lacks prefix", s1)
	}
	if s1 != k.SceneKey("model123", SceneKeyOpts{Theme: "brand", Legend: true}) {
		t.Error("SceneKey should be deterministic")
	}

	a1 := k.ArtifactKey("scene123", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("scene123", ArtifactKeyOpts{Format: "png"})
	if a1 == a2 {
		t.Error("different formats should produce different artifact keys")
	}
	if !strings.HasPrefix(a1, KindArtifact+":") {
		t.Errorf("artifact key %q lacks prefix", a1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "team:docs:")

	want := "team:docs:" + inner.SceneKey("h", SceneKeyOpts{})
	if got := scoped.SceneKey("h", SceneKeyOpts{}); got != want {
		t.Errorf("SceneKey = %q, want %q", got, want)
	}
	want = "team:docs:" + inner.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.SceneKey("h", SceneKeyOpts{}); got != "p:"+inner.SceneKey("h", SceneKeyOpts{}) {
		t.Errorf("nil inner keyer: %q", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()
	errPlain := errors.New("plain")

	tests := []struct {
		name      string
		fail      func(call int) error
		wantErr   error
		wantCalls int
	}{
		{"success", func(int) error { return nil }, nil, 1},
		{"non-retryable", func(int) error { return errPlain }, errPlain, 1},
		{"recovers", func(call int) error {
			if call < 2 {
				return Retryable(ErrNetwork)
			}
			return nil
		}, nil, 2},
		{"exhausted", func(int) error { return Retryable(ErrNetwork) }, ErrNetwork, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				return tt.fail(calls)
			})
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
