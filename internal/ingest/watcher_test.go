package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/model"
)

type fakeStream struct {
	events    chan audit.Event
	errs      chan error
	cancelled bool
}

type fakeClient struct {
	servers []model.ServerTemplate
	streams map[string]*fakeStream
	opened  int
}

func (f *fakeClient) ListServerTemplates() ([]model.ServerTemplate, error) {
	return f.servers, nil
}

func (f *fakeClient) StreamAuditEvents(s model.ServerTemplate) (<-chan audit.Event, <-chan error, func()) {
	st := &fakeStream{events: make(chan audit.Event, 10), errs: make(chan error, 1)}
	f.streams[s.ContainerID] = st
	f.opened++
	return st.events, st.errs, func() { st.cancelled = true }
}

func (f *fakeClient) Close() error { return nil }

type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *memorySink) Write(_ context.Context, e audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memorySink) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSyncFollowsRunningServers(t *testing.T) {
	client := &fakeClient{
		servers: []model.ServerTemplate{
			{ID: "tmpl-a", ContainerID: "a", Name: "engine-a", State: "running"},
			{ID: "tmpl-b", ContainerID: "b", Name: "engine-b", State: "exited"},
		},
		streams: map[string]*fakeStream{},
	}
	sink := &memorySink{}
	w := NewWatcher(client, sink, time.Minute)

	w.sync(context.Background())

	if client.opened != 1 || client.streams["a"] == nil {
		t.Fatalf("expected one stream for the running container, opened=%d", client.opened)
	}

	client.streams["a"].events <- audit.Event{Kind: audit.KindNode, ProcessInstanceID: 1, NodeType: "StartNode"}
	waitFor(t, func() bool { return sink.len() == 1 })

	// a second scan keeps the live stream
	w.sync(context.Background())
	if client.opened != 1 {
		t.Errorf("expected stream to be reused, opened=%d", client.opened)
	}

	// container stops: stream is cancelled
	first := client.streams["a"]
	client.servers[0].State = "exited"
	w.sync(context.Background())
	if !first.cancelled {
		t.Errorf("expected stream of stopped container to be cancelled")
	}
	if len(w.streams) != 0 {
		t.Errorf("expected no streams, got %d", len(w.streams))
	}
}

func TestSyncRestartsEndedStream(t *testing.T) {
	client := &fakeClient{
		servers: []model.ServerTemplate{{ID: "tmpl-a", ContainerID: "a", State: "running"}},
		streams: map[string]*fakeStream{},
	}
	w := NewWatcher(client, &memorySink{}, time.Minute)

	w.sync(context.Background())
	st := client.streams["a"]
	close(st.events)
	close(st.errs)
	waitFor(t, func() bool {
		select {
		case <-w.streams["a"].done:
			return true
		default:
			return false
		}
	})

	w.sync(context.Background())
	if client.opened != 2 {
		t.Errorf("expected the ended stream to be reopened, opened=%d", client.opened)
	}
	w.stopAll()
}

type closedSink struct{}

func (closedSink) Write(context.Context, audit.Event) error {
	return errors.New("storage closed")
}

func TestSinkErrorStopsStream(t *testing.T) {
	client := &fakeClient{
		servers: []model.ServerTemplate{{ID: "tmpl-a", ContainerID: "a", State: "running"}},
		streams: map[string]*fakeStream{},
	}
	w := NewWatcher(client, closedSink{}, time.Minute)

	w.sync(context.Background())
	client.streams["a"].events <- audit.Event{Kind: audit.KindNode, ProcessInstanceID: 1, NodeType: "StartNode"}

	waitFor(t, func() bool {
		select {
		case <-w.streams["a"].done:
			return true
		default:
			return false
		}
	})
}
