// Package store persists named topology snapshots.
//
// A [Snapshot] freezes an extracted graph together with the layer
// configuration and column mapping that produced it, so a saved view can be
// reopened later without the original frames. Two backends implement
// [Store]:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [MongoStore]: MongoDB, for shared deployments
//
// Snapshot IDs are random UUIDs assigned by [New].
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/topolayer/pkg/errors"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/topology"
)

// Snapshot is a saved topology.
type Snapshot struct {
	ID        string               `json:"id" bson:"_id"`
	Name      string               `json:"name" bson:"name"`
	CreatedAt time.Time            `json:"createdAt" bson:"created_at"`
	Layers    []layers.Layer       `json:"layers" bson:"layers"`
	Fields    topology.ParseConfig `json:"fields" bson:"fields"`
	Units     graph.Units          `json:"units" bson:"units"`
	Graph     graph.Graph          `json:"graph" bson:"graph"`
}

// Info is the listing form of a snapshot.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Layers    int       `json:"layers"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

// New builds a snapshot with a fresh ID. The layer list must hold between
// [layers.MinLayers] and [layers.MaxLayers] entries.
func New(name string, g graph.Graph, ls []layers.Layer, fields topology.ParseConfig, units graph.Units) (*Snapshot, error) {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return nil, err
	}
	if err := layers.CheckCount(len(ls)); err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Layers:    append([]layers.Layer(nil), ls...),
		Fields:    fields,
		Units:     units,
		Graph:     g,
	}, nil
}

// Info returns the listing form of s.
func (s *Snapshot) Info() Info {
	return Info{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Layers:    len(s.Layers),
		Nodes:     len(s.Graph.Nodes),
		Edges:     len(s.Graph.Edges),
	}
}

// Index rebuilds the layer index of the saved graph.
func (s *Snapshot) Index() *layers.Index {
	nodes, edges := s.Graph.Records()
	return layers.Build(nodes, edges, len(s.Layers))
}

// Store is the interface for snapshot backends.
type Store interface {
	// Save inserts a snapshot. Saving an existing ID fails.
	Save(ctx context.Context, s *Snapshot) error

	// Get returns the snapshot with the given ID, or an error with code
	// SNAPSHOT_NOT_FOUND.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a snapshot. Deleting an unknown ID is a not-found error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", id)
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", id)
	}
	return nil
}
