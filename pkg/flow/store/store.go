// Package store persists flow documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a directory for CLI usage
//   - mongo: MongoDB-backed storage for server deployments
//
// All implementations report a missing flow with ErrCodeFlowNotFound and
// emit load/save timings through the observability store hooks.
package store

import (
	"context"

	"github.com/storyflow/storyflow/pkg/flow"
)

// Summary is a lightweight listing entry: enough to render a picker without
// loading full documents.
type Summary struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Modules int    `json:"modules" bson:"modules"`
	Edges   int    `json:"edges" bson:"edges"`
}

// Store is a flow document repository. Save validates the document before
// writing and overwrites any existing flow with the same id.
type Store interface {
	// Name identifies the backend in logs, hooks, and cache keys.
	Name() string

	Load(ctx context.Context, id string) (*flow.Flow, error)
	Save(ctx context.Context, f *flow.Flow) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)

	Close(ctx context.Context) error
}

func summarize(f *flow.Flow) Summary {
	return Summary{
		ID:      f.ID,
		Name:    f.Name,
		Modules: len(f.Modules()),
		Edges:   len(f.Edges),
	}
}
