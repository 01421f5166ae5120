package notify

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/vk/genhub/internal/inmemorystore"
	"github.com/vk/genhub/internal/stage"
)

// Snapshot is the status document served while a run is in progress.
type Snapshot struct {
	RunID   string                 `json:"run_id"`
	Genomes []inmemorystore.Record `json:"genomes"`
	Cluster *ClusterSummary        `json:"cluster,omitempty"`
}

// Tracker records build progress in an in-memory store so it can be
// queried while the run is in flight.
type Tracker struct {
	runID   string
	store   *inmemorystore.Store
	cluster atomic.Pointer[ClusterSummary]
}

// NewTracker creates a tracker with a fresh run ID.
func NewTracker() *Tracker {
	return &Tracker{
		runID: uuid.NewString(),
		store: inmemorystore.New(),
	}
}

// RunID identifies this invocation in every emitted event.
func (t *Tracker) RunID() string { return t.runID }

// Register marks labels as pending before any worker starts.
func (t *Tracker) Register(labels ...string) {
	for _, l := range labels {
		t.store.Update(l, func(*inmemorystore.Record) {})
	}
}

func (t *Tracker) StageStarted(_ context.Context, label string, s stage.Name) {
	t.store.Update(label, func(r *inmemorystore.Record) {
		r.Status = inmemorystore.StatusRunning
		r.Stage = string(s)
		r.Stages++
	})
}

func (t *Tracker) GenomeComplete(_ context.Context, label, species string) {
	t.store.Update(label, func(r *inmemorystore.Record) {
		r.Status = inmemorystore.StatusCompleted
		r.Species = species
	})
}

func (t *Tracker) GenomeFailed(_ context.Context, label string, err error) {
	t.store.Update(label, func(r *inmemorystore.Record) {
		r.Status = inmemorystore.StatusFailed
		if err != nil {
			r.Error = err.Error()
		}
	})
}

func (t *Tracker) ClusterComplete(_ context.Context, summary ClusterSummary) {
	t.cluster.Store(&summary)
}

// Snapshot returns the current state of every tracked genome.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		RunID:   t.runID,
		Genomes: t.store.Snapshot(),
		Cluster: t.cluster.Load(),
	}
}
