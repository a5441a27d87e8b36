package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carvallo/girder/internal/dashboard"
)

func TestFetchTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"projects":{"macro_lan":{"name":"Macro LAN","tasks":[{"id":"recT1","name":"Survey","progress":50}],"team":[],"critical":[],"cashflow":[]}}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	tree, err := c.FetchTree(context.Background())
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	p, ok := tree["macro_lan"]
	if !ok {
		t.Fatalf("tree = %v", tree)
	}
	if len(p.Tasks) != 1 || p.Tasks[0].Progress != 50 {
		t.Errorf("tasks = %+v", p.Tasks)
	}
}

func TestCreateTaskUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("Authorization = %q", auth)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"ok":true,"record":{"id":"recNew","name":"Dig","status":"pending"}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	task, err := c.CreateTask(context.Background(), dashboard.TaskInput{ProjectKey: "p1", Name: "Dig"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "recNew" || task.Status != "pending" {
		t.Errorf("task = %+v", task)
	}
}

func TestUpdateTaskOmitsUnsetFields(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		fmt.Fprint(w, `{"ok":true,"record":{"id":"recT1","status":"done"}}`)
	}))
	defer srv.Close()

	status := "done"
	c := NewHTTPClient(srv.URL, "")
	if _, err := c.UpdateTask(context.Background(), "recT1", dashboard.TaskPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	// Unset pointer fields are omitted entirely, so the server sees exactly
	// the fields the caller supplied.
	if len(got) != 1 {
		t.Errorf("body has %d fields, want 1: %v", len(got), got)
	}
	if string(got["status"]) != `"done"` {
		t.Errorf("body = %v", got)
	}
}

func TestDeleteCashflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/cashflow/recF1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"ok":true,"deleted":{"id":"recF1","deleted":true}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	del, err := c.DeleteCashflow(context.Background(), "recF1")
	if err != nil {
		t.Fatalf("DeleteCashflow: %v", err)
	}
	if !del.Deleted || del.ID != "recF1" {
		t.Errorf("deletion = %+v", del)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error":"unknown project key \"nope\""}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.CreateTask(context.Background(), dashboard.TaskInput{ProjectKey: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 400 || apiErr.Message == "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	status, err := c.Health(context.Background())
	if err != nil || status != "ok" {
		t.Fatalf("Health = %q, %v", status, err)
	}
}
