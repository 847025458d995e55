// Package ingest copies audit events from running engine containers into
// the audit database.
package ingest

import (
	"context"
	"log"
	"time"

	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/docker"
	"github.com/rusenback/bpmmon/internal/model"
)

// Sink receives decoded events. Write blocks while the sink is busy.
type Sink interface {
	Write(ctx context.Context, e audit.Event) error
}

type stream struct {
	cancel func()
	done   chan struct{}
}

// Watcher keeps one audit stream per running engine container
type Watcher struct {
	client   docker.EngineClient
	sink     Sink
	interval time.Duration
	streams  map[string]*stream
}

// NewWatcher creates a watcher that rescans containers every interval
func NewWatcher(client docker.EngineClient, sink Sink, interval time.Duration) *Watcher {
	return &Watcher{
		client:   client,
		sink:     sink,
		interval: interval,
		streams:  make(map[string]*stream),
	}
}

// Run scans until ctx is done, then stops every stream
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer w.stopAll()

	w.sync(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sync(ctx)
		}
	}
}

// sync starts streams for new or restarted containers and stops streams of
// containers that are gone or no longer running
func (w *Watcher) sync(ctx context.Context) {
	servers, err := w.client.ListServerTemplates()
	if err != nil {
		log.Printf("ingest: listing server templates failed: %v", err)
		return
	}

	running := make(map[string]bool, len(servers))
	for _, s := range servers {
		if s.State != "running" {
			continue
		}
		running[s.ContainerID] = true

		if st, ok := w.streams[s.ContainerID]; ok {
			select {
			case <-st.done:
				// stream ended, follow again
			default:
				continue
			}
		}
		w.start(ctx, s)
	}

	for id, st := range w.streams {
		if !running[id] {
			st.cancel()
			delete(w.streams, id)
		}
	}
}

func (w *Watcher) start(ctx context.Context, s model.ServerTemplate) {
	events, errs, cancel := w.client.StreamAuditEvents(s)
	st := &stream{cancel: cancel, done: make(chan struct{})}
	w.streams[s.ContainerID] = st
	log.Printf("ingest: following server template=%s container=%s", s.ID, s.Name)

	go func() {
		defer close(st.done)
		for e := range events {
			if err := w.sink.Write(ctx, e); err != nil {
				log.Printf("ingest: stopped writing events of %s: %v", s.Name, err)
				st.cancel()
				return
			}
		}
		if err, ok := <-errs; ok && err != nil {
			log.Printf("ingest: stream of %s ended: %v", s.Name, err)
		}
	}()
}

func (w *Watcher) stopAll() {
	for id, st := range w.streams {
		st.cancel()
		delete(w.streams, id)
	}
}
