package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/stage"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the socket.io event name progress is emitted under.
const DefaultEvent = "genhub"

// SocketOptions configures the socket.io progress publisher.
type SocketOptions struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// Socket publishes every event to a socket.io endpoint. Emission is
// buffered by the client until the connection is established, so a slow
// or absent listener never stalls the build.
type Socket struct {
	runID string
	event string
	io    *socket.Socket
	now   func() time.Time
}

// NewSocket connects to the endpoint named by opts.URL. The URL path is
// used as the engine.io path.
func NewSocket(ctx context.Context, runID string, opts SocketOptions) (*Socket, error) {
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse progress URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("progress URL %q must include scheme and host", opts.URL)
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}
	event := opts.Event
	if event == "" {
		event = DefaultEvent
	}

	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", namespace)

	sopts := socket.DefaultOptions()
	if parsed.Path != "" {
		sopts.SetPath(parsed.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), sopts)
	io := manager.Socket(namespace, sopts)

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Progress socket connected", "sid", io.Id())
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			logger.Warn("Progress socket connection failed", "error", errs[0])
		}
	})
	io.Connect()

	return &Socket{runID: runID, event: event, io: io, now: time.Now}, nil
}

// Close disconnects from the endpoint.
func (s *Socket) Close() error {
	s.io.Disconnect()
	return nil
}

func (s *Socket) emit(ctx context.Context, ev Event) {
	ev.RunID = s.runID
	ev.Time = s.now().UTC()
	if err := s.io.Emit(s.event, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit progress event", "kind", ev.Kind, "error", err)
	}
}

func (s *Socket) StageStarted(ctx context.Context, label string, st stage.Name) {
	s.emit(ctx, Event{Kind: KindStageStarted, Label: label, Stage: string(st)})
}

func (s *Socket) GenomeComplete(ctx context.Context, label, species string) {
	s.emit(ctx, Event{Kind: KindGenomeComplete, Label: label, Species: species})
}

func (s *Socket) GenomeFailed(ctx context.Context, label string, err error) {
	ev := Event{Kind: KindGenomeFailed, Label: label}
	if err != nil {
		ev.Error = err.Error()
	}
	s.emit(ctx, ev)
}

func (s *Socket) ClusterComplete(ctx context.Context, summary ClusterSummary) {
	s.emit(ctx, Event{Kind: KindClusterComplete, Genomes: summary.Genomes, Clusters: summary.Clusters, Table: summary.Table})
}
