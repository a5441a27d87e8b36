package server

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern, topic string
		want           bool
	}{
		{"girder.task.created", "girder.task.created", true},
		{"girder.task.*", "girder.task.created", true},
		{"girder.task.*", "girder.cashflow.created", false},
		{"girder.>", "girder.cashflow.deleted", true},
		{"girder.>", "girder", false},
		{"girder.task.created", "girder.task", false},
	} {
		if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}

func TestSSEHubBroadcastAndFilter(t *testing.T) {
	hub := newSSEHub()
	all := hub.subscribe(nil)
	tasksOnly := hub.subscribe([]string{"girder.task.>"})
	defer hub.unsubscribe(all)
	defer hub.unsubscribe(tasksOnly)

	hub.broadcast("girder.task.created", []byte(`{"a":1}`))
	hub.broadcast("girder.cashflow.created", []byte(`{"b":2}`))

	if got := len(all.ch); got != 2 {
		t.Errorf("unfiltered client got %d events, want 2", got)
	}
	if got := len(tasksOnly.ch); got != 1 {
		t.Errorf("filtered client got %d events, want 1", got)
	}
}

func TestSSEHubReplaySince(t *testing.T) {
	hub := newSSEHub()
	for i := 1; i <= 5; i++ {
		hub.broadcast("girder.task.updated", []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	replayed := hub.eventsSince(3)
	if len(replayed) != 2 {
		t.Fatalf("got %d replayed events, want 2", len(replayed))
	}
	if replayed[0].ID != 4 || replayed[1].ID != 5 {
		t.Errorf("replayed IDs = %d, %d", replayed[0].ID, replayed[1].ID)
	}
}

func TestEventStreamDeliversMutations(t *testing.T) {
	_, _, h := newTestServer()
	ts := httptest.NewServer(h)
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/events/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting to stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// Give the stream handler time to register with the hub, then mutate.
	time.Sleep(50 * time.Millisecond)
	rec := doJSON(t, h, "POST", "/tasks", map[string]any{"projectKey": "macro_lan", "name": "Stream me"})
	requireStatus(t, rec, 201)

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	deadline := time.After(2 * time.Second)
	var sawEvent, sawData bool
	for !(sawEvent && sawData) {
		select {
		case line := <-lines:
			if line == "event:girder.task.created" {
				sawEvent = true
			}
			if strings.HasPrefix(line, "data:") && strings.Contains(line, "Stream me") {
				sawData = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for SSE event")
		}
	}
}
