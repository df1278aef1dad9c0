// Package storage persists composed diagrams for the HTTP API.
//
// A [Store] keeps [Diagram] records: the source model, the composed
// scene and bookkeeping fields. [MemoryStore] serves tests and
// single-process use; [MongoStore] backs the API in production.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Diagram is a stored composition.
type Diagram struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	ModelHash string         `json:"model_hash" bson:"model_hash"`
	Model     *diagram.Model `json:"model" bson:"model"`
	Scene     *scene.Scene   `json:"scene,omitempty" bson:"scene,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Store persists diagrams. Implementations are safe for concurrent use.
type Store interface {
	// Save inserts or replaces d. An empty ID is filled with a new UUID;
	// CreatedAt is kept on replace.
	Save(ctx context.Context, d *Diagram) error

	// Get returns the diagram with the given id or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns up to limit diagrams, newest first.
	List(ctx context.Context, limit int) ([]*Diagram, error)

	// Delete removes a diagram or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare assigns an id and timestamps before a save.
func prepare(d *Diagram, now time.Time) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

func notFound(id string) error {
	return errors.NewRef(errors.ErrCodeNotFound, id, "diagram %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
