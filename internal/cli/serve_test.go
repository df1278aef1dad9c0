package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/matzehuels/diagramkit/pkg/config"
)

func TestRunServeShutsDownOnCancel(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Server.Port = 0
	cfg.Cache.Backend = config.CacheNone

	c := New(&bytes.Buffer{}, LogInfo)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.runServe(ctx, cfg, false, true) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewStore(t *testing.T) {
	s, err := newStore(context.Background(), config.StorageConfig{Backend: config.StorageMemory})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(context.Background())
	if _, err := s.List(context.Background(), 0); err != nil {
		t.Errorf("List() = %v", err)
	}
}
