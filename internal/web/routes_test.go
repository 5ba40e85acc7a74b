package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avezina/codeocr/internal/results"
	"github.com/avezina/codeocr/internal/runner"
)

// fakeStore serves a fixed set of runs without a database.
type fakeStore struct {
	runs map[string]*results.Run
}

func (f *fakeStore) ListBatches(limit, offset int) ([]results.Batch, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListRuns(limit, offset int) ([]results.Run, int, error) {
	runs := make([]results.Run, 0, len(f.runs))
	for _, r := range f.runs {
		runs = append(runs, *r)
	}
	return runs, len(runs), nil
}

func (f *fakeStore) GetRun(id string) (*results.Run, error) {
	r, ok := f.runs[id]
	if !ok {
		return nil, results.ErrRunNotFound
	}
	return r, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *ProgressHub) {
	t.Helper()
	hub := NewProgressHub()
	mux := http.NewServeMux()
	RegisterRoutes(mux, Deps{Hub: hub})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hub
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestResultsEndpointsWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/api/batches", "/api/runs", "/api/runs/abc"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestRunLookup(t *testing.T) {
	store := &fakeStore{runs: map[string]*results.Run{
		"run-1": {ID: "run-1", BatchID: "batch-1", SampleID: "demo_main.py", Ratio: 1, Status: "ok"},
	}}
	mux := http.NewServeMux()
	RegisterRoutes(mux, Deps{Store: store, Hub: NewProgressHub()})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/runs/run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET known run status = %d, want 200", resp.StatusCode)
	}
	var run results.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		t.Fatal(err)
	}
	if run.SampleID != "demo_main.py" {
		t.Errorf("SampleID = %q, want %q", run.SampleID, "demo_main.py")
	}

	resp, err = http.Get(srv.URL + "/api/runs/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET unknown run status = %d, want 404", resp.StatusCode)
	}
}

func TestProgressBroadcast(t *testing.T) {
	srv, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The subscription happens inside the server handler after the
	// upgrade; wait for it to register before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.subs)
		hub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(runner.Event{Type: "sample_done", SampleID: "demo_main.py"})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no frame received: %v", err)
	}
	if !strings.Contains(string(msg), `"sample_done"`) {
		t.Fatalf("unexpected frame: %s", msg)
	}
}

func TestSlowSubscriberDropped(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.subscribe()
	for i := 0; i < cap(ch)+1; i++ {
		hub.Broadcast(runner.Event{Type: "page_done"})
	}
	// The channel was closed when the buffer filled.
	for range ch {
	}
	hub.mu.Lock()
	n := len(hub.subs)
	hub.mu.Unlock()
	if n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}
