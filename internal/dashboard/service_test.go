package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/schema"
)

// capturedWrite records one create or update issued against the fake backend.
type capturedWrite struct {
	table  string
	id     string
	fields map[string]any
}

type fakeBackend struct {
	tables  map[string][]airtable.Record
	listErr map[string]error

	creates []capturedWrite
	updates []capturedWrite
	deletes []capturedWrite
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tables:  make(map[string][]airtable.Record),
		listErr: make(map[string]error),
	}
}

func (f *fakeBackend) ListAll(_ context.Context, table string) ([]airtable.Record, error) {
	if err := f.listErr[table]; err != nil {
		return nil, err
	}
	return f.tables[table], nil
}

func (f *fakeBackend) CreateRecord(_ context.Context, table string, fields map[string]any) (*airtable.Record, error) {
	f.creates = append(f.creates, capturedWrite{table: table, fields: fields})
	return &airtable.Record{ID: "recNew", Fields: fields}, nil
}

func (f *fakeBackend) UpdateRecord(_ context.Context, table, id string, fields map[string]any) (*airtable.Record, error) {
	f.updates = append(f.updates, capturedWrite{table: table, id: id, fields: fields})
	return &airtable.Record{ID: id, Fields: fields}, nil
}

func (f *fakeBackend) DeleteRecord(_ context.Context, table, id string) (*airtable.Deletion, error) {
	f.deletes = append(f.deletes, capturedWrite{table: table, id: id})
	return &airtable.Deletion{ID: id, Deleted: true}, nil
}

func (f *fakeBackend) writeCount() int {
	return len(f.creates) + len(f.updates) + len(f.deletes)
}

func seedProjects(f *fakeBackend) {
	f.tables["Projects"] = []airtable.Record{
		{ID: "recP1", Fields: map[string]any{"Project ID": "macro_lan", "Name": "Macro LAN"}},
	}
}

func newTestService(f *fakeBackend) *Service {
	return NewService(f, schema.Default())
}

func TestFetchTreeAggregates(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	f.tables["Tasks"] = []airtable.Record{
		{ID: "recT1", Fields: map[string]any{"Project": []any{"recP1"}, "Task": "Survey"}},
	}

	tree, err := newTestService(f).FetchTree(context.Background())
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	if len(tree["macro_lan"].Tasks) != 1 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestFetchTreeOptionalTableDegrades(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	f.listErr["Cashflow"] = &airtable.APIError{StatusCode: 404, Body: "table not provisioned"}

	tree, err := newTestService(f).FetchTree(context.Background())
	if err != nil {
		t.Fatalf("optional table failure should not fail the tree: %v", err)
	}
	if got := tree["macro_lan"].Cashflow; len(got) != 0 {
		t.Errorf("cashflow = %+v, want empty", got)
	}
}

func TestFetchTreeRequiredTableFailurePropagates(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	f.listErr["Tasks"] = &airtable.APIError{StatusCode: 500, Body: "boom"}

	_, err := newTestService(f).FetchTree(context.Background())
	var apiErr *airtable.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *airtable.APIError, got %v", err)
	}
}

func TestCreateTaskTranslatesAndLinks(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	svc := newTestService(f)

	task, err := svc.CreateTask(context.Background(), TaskInput{
		ProjectKey: "macro_lan",
		Name:       "Dig trench",
		Owner:      "Dana",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "recNew" {
		t.Errorf("task.ID = %q", task.ID)
	}
	if task.Status != "pending" || task.Progress != 0 {
		t.Errorf("defaults not applied: %+v", task)
	}

	if len(f.creates) != 1 {
		t.Fatalf("got %d creates", len(f.creates))
	}
	fields := f.creates[0].fields
	if f.creates[0].table != "Tasks" {
		t.Errorf("table = %q", f.creates[0].table)
	}
	if !reflect.DeepEqual(fields["Project"], []string{"recP1"}) {
		t.Errorf("Project link = %v, want [recP1]", fields["Project"])
	}
	if fields["Task"] != "Dig trench" || fields["Status"] != "pending" {
		t.Errorf("fields = %v", fields)
	}
}

func TestCreateTaskUnknownKeyIssuesNoWrite(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	svc := newTestService(f)

	_, err := svc.CreateTask(context.Background(), TaskInput{ProjectKey: "nonexistent", Name: "x"})
	var unknownKey *UnknownProjectKeyError
	if !errors.As(err, &unknownKey) {
		t.Fatalf("expected *UnknownProjectKeyError, got %v", err)
	}
	if unknownKey.Key != "nonexistent" {
		t.Errorf("Key = %q", unknownKey.Key)
	}
	if f.writeCount() != 0 {
		t.Errorf("backend received %d writes, want 0", f.writeCount())
	}
}

func TestCreateTaskRequiresProjectKey(t *testing.T) {
	f := newFakeBackend()
	_, err := newTestService(f).CreateTask(context.Background(), TaskInput{Name: "x"})
	var ie InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if f.writeCount() != 0 {
		t.Errorf("backend received writes for invalid input")
	}
}

func TestUpdateTaskPartialPatch(t *testing.T) {
	f := newFakeBackend()
	svc := newTestService(f)

	status := "done"
	if _, err := svc.UpdateTask(context.Background(), "recT1", TaskPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if len(f.updates) != 1 {
		t.Fatalf("got %d updates", len(f.updates))
	}
	fields := f.updates[0].fields
	if len(fields) != 1 {
		t.Errorf("patch contains %d fields, want exactly 1: %v", len(fields), fields)
	}
	if fields["Status"] != "done" {
		t.Errorf("fields = %v", fields)
	}
}

func TestUpdateTaskClearsExplicitEmptyField(t *testing.T) {
	f := newFakeBackend()
	svc := newTestService(f)

	empty := ""
	if _, err := svc.UpdateTask(context.Background(), "recT1", TaskPatch{Owner: &empty}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	fields := f.updates[0].fields
	if v, ok := fields["Owner"]; !ok || v != "" {
		t.Errorf("fields = %v, want Owner present and empty", fields)
	}
}

func TestUpdateTaskRelinksProject(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	svc := newTestService(f)

	key := "macro_lan"
	if _, err := svc.UpdateTask(context.Background(), "recT1", TaskPatch{ProjectKey: &key}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !reflect.DeepEqual(f.updates[0].fields["Project"], []string{"recP1"}) {
		t.Errorf("fields = %v", f.updates[0].fields)
	}

	bad := "nope"
	_, err := svc.UpdateTask(context.Background(), "recT2", TaskPatch{ProjectKey: &bad})
	var unknownKey *UnknownProjectKeyError
	if !errors.As(err, &unknownKey) {
		t.Fatalf("expected *UnknownProjectKeyError, got %v", err)
	}
	if len(f.updates) != 1 {
		t.Errorf("unknown key still reached the backend")
	}
}

func TestUpdateTaskEmptyPatchRejected(t *testing.T) {
	f := newFakeBackend()
	_, err := newTestService(f).UpdateTask(context.Background(), "recT1", TaskPatch{})
	var ie InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	f := newFakeBackend()
	del, err := newTestService(f).DeleteTask(context.Background(), "recT1")
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if !del.Deleted || del.ID != "recT1" {
		t.Errorf("deletion = %+v", del)
	}
	if len(f.deletes) != 1 || f.deletes[0].table != "Tasks" {
		t.Errorf("deletes = %+v", f.deletes)
	}
}

func TestCreateCashflowDefaults(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	svc := newTestService(f)

	entry, err := svc.CreateCashflow(context.Background(), CashflowInput{
		ProjectKey: "macro_lan",
		Concept:    "Deposit",
	})
	if err != nil {
		t.Fatalf("CreateCashflow: %v", err)
	}
	if entry.Type != "out" || entry.Currency != "USD" || entry.Amount != 0 {
		t.Errorf("defaults not applied: %+v", entry)
	}

	fields := f.creates[0].fields
	if fields["Type"] != "out" || fields["Currency"] != "USD" {
		t.Errorf("fields = %v", fields)
	}
	if _, ok := fields["Related task"]; ok {
		t.Error("unset relatedTask should not be sent")
	}
}

func TestCreateCashflowLinksRelatedTask(t *testing.T) {
	f := newFakeBackend()
	seedProjects(f)
	svc := newTestService(f)

	if _, err := svc.CreateCashflow(context.Background(), CashflowInput{
		ProjectKey:  "macro_lan",
		Concept:     "Milestone",
		RelatedTask: "recT9",
	}); err != nil {
		t.Fatalf("CreateCashflow: %v", err)
	}
	if got := f.creates[0].fields["Related task"]; !reflect.DeepEqual(got, []string{"recT9"}) {
		t.Errorf("Related task = %v", got)
	}
}

func TestUpdateCashflowClearsRelatedTask(t *testing.T) {
	f := newFakeBackend()
	svc := newTestService(f)

	empty := ""
	if _, err := svc.UpdateCashflow(context.Background(), "recF1", CashflowPatch{RelatedTask: &empty}); err != nil {
		t.Fatalf("UpdateCashflow: %v", err)
	}
	if got := f.updates[0].fields["Related task"]; !reflect.DeepEqual(got, []string{}) {
		t.Errorf("Related task = %v, want empty list", got)
	}
}

func TestDeleteCashflowRequiresID(t *testing.T) {
	f := newFakeBackend()
	_, err := newTestService(f).DeleteCashflow(context.Background(), "")
	var ie InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError, got %v", err)
	}
}
