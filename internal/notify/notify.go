// Package notify delivers build progress events to observers: the log, a
// socket.io progress endpoint and the in-memory status tracker.
package notify

import (
	"context"
	"time"

	"github.com/vk/genhub/internal/stage"
)

// Event kinds.
const (
	KindStageStarted    = "stage_started"
	KindGenomeComplete  = "genome_complete"
	KindGenomeFailed    = "genome_failed"
	KindClusterComplete = "cluster_complete"
)

// ClusterSummary describes a finished aggregation.
type ClusterSummary struct {
	Genomes  int
	Clusters int
	Table    string
}

// Event is the serializable form of every notification.
type Event struct {
	RunID    string    `json:"run_id"`
	Kind     string    `json:"kind"`
	Label    string    `json:"label,omitempty"`
	Species  string    `json:"species,omitempty"`
	Stage    string    `json:"stage,omitempty"`
	Error    string    `json:"error,omitempty"`
	Genomes  int       `json:"genomes,omitempty"`
	Clusters int       `json:"clusters,omitempty"`
	Table    string    `json:"table,omitempty"`
	Time     time.Time `json:"time"`
}

// Notifier receives build progress. Implementations must be safe for
// concurrent use and must not block the build.
type Notifier interface {
	StageStarted(ctx context.Context, label string, s stage.Name)
	GenomeComplete(ctx context.Context, label, species string)
	GenomeFailed(ctx context.Context, label string, err error)
	ClusterComplete(ctx context.Context, summary ClusterSummary)
}

// Nop discards every event.
type Nop struct{}

func (Nop) StageStarted(context.Context, string, stage.Name) {}
func (Nop) GenomeComplete(context.Context, string, string)   {}
func (Nop) GenomeFailed(context.Context, string, error)      {}
func (Nop) ClusterComplete(context.Context, ClusterSummary)  {}

// Multi fans every event out to each notifier in order.
type Multi []Notifier

func (m Multi) StageStarted(ctx context.Context, label string, s stage.Name) {
	for _, n := range m {
		n.StageStarted(ctx, label, s)
	}
}

func (m Multi) GenomeComplete(ctx context.Context, label, species string) {
	for _, n := range m {
		n.GenomeComplete(ctx, label, species)
	}
}

func (m Multi) GenomeFailed(ctx context.Context, label string, err error) {
	for _, n := range m {
		n.GenomeFailed(ctx, label, err)
	}
}

func (m Multi) ClusterComplete(ctx context.Context, summary ClusterSummary) {
	for _, n := range m {
		n.ClusterComplete(ctx, summary)
	}
}
