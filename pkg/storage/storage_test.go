package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
)

func testDiagram(name string) *Diagram {
	return &Diagram{
		Name:      name,
		ModelHash: "hash-" + name,
		Model: &diagram.Model{
			Title: name,
			Nodes: []diagram.Node{{ID: "Users", Category: "Core", Position: geom.Pt(1, 2)}},
		},
	}
}

// testStore exercises the Store contract.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	d := testDiagram("first")
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(d.ID); err != nil {
		t.Errorf("Save should assign a UUID, got %q", d.ID)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("Save should set timestamps")
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "first" || got.Model.Title != "first" || got.Model.Nodes[0].Position != geom.Pt(1, 2) {
		t.Errorf("Get = %+v", got)
	}

	created := d.CreatedAt
	time.Sleep(5 * time.Millisecond)
	replacement := testDiagram("renamed")
	replacement.ID = d.ID
	if err := s.Save(ctx, replacement); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, _ = s.Get(ctx, d.ID)
	if got.Name != "renamed" {
		t.Errorf("replace not applied: %q", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on replace: %v -> %v", created, got.CreatedAt)
	}

	time.Sleep(5 * time.Millisecond)
	second := testDiagram("second")
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("List should return newest first, got %d items", len(list))
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d items", len(list))
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d := testDiagram("a")
	if err := s.Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	d.Name = "mutated"
	got, _ := s.Get(ctx, d.ID)
	if got.Name != "a" {
		t.Errorf("store shares caller memory: %q", got.Name)
	}
}

// TestMongoStore runs against DIAGRAMKIT_TEST_MONGO (a mongodb:// URI)
// when set, using a throwaway database.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DIAGRAMKIT_TEST_MONGO")
	if uri == "" {
		t.Skip("DIAGRAMKIT_TEST_MONGO not set")
	}
	ctx := context.Background()
	db := "diagramkit_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}
