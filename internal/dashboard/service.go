// Package dashboard holds the core of the gateway: the denormalization pass
// that joins the five Airtable tables into the nested project tree, and the
// mutation translator that turns simplified camelCase write requests into
// Airtable field sets.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/model"
	"github.com/carvallo/girder/internal/schema"
)

// Backend is the slice of the Airtable client the service needs.
// *airtable.Client satisfies it; tests substitute a capture fake.
type Backend interface {
	ListAll(ctx context.Context, table string) ([]airtable.Record, error)
	CreateRecord(ctx context.Context, table string, fields map[string]any) (*airtable.Record, error)
	UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (*airtable.Record, error)
	DeleteRecord(ctx context.Context, table, id string) (*airtable.Deletion, error)
}

// Service implements the read and write paths of the dashboard gateway.
type Service struct {
	backend Backend
	schema  schema.Schema
}

// NewService returns a Service over the given backend and table schema.
func NewService(b Backend, s schema.Schema) *Service {
	return &Service{backend: b, schema: s}
}

// FetchTree fetches the five tables concurrently, then aggregates them into
// the project tree. Tables marked optional in the schema degrade to empty on
// fetch failure (with a warning); any other table's failure fails the call.
func (s *Service) FetchTree(ctx context.Context) (model.Tree, error) {
	var recs RecordSets

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(m schema.EntityMap, dst *[]airtable.Record) {
		g.Go(func() error {
			out, err := s.backend.ListAll(ctx, m.Table)
			if err != nil {
				if m.Optional {
					slog.Warn("optional table fetch failed, serving empty", "table", m.Table, "error", err)
					return nil
				}
				return err
			}
			*dst = out
			return nil
		})
	}
	fetch(s.schema.Projects, &recs.Projects)
	fetch(s.schema.Tasks, &recs.Tasks)
	fetch(s.schema.Team, &recs.Team)
	fetch(s.schema.Critical, &recs.Critical)
	fetch(s.schema.Cashflow, &recs.Cashflow)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildTree(s.schema, recs), nil
}

// projectLookup fetches the Projects table and builds a fresh key lookup.
// Writes are separate requests from reads, so the lookup is always rebuilt.
func (s *Service) projectLookup(ctx context.Context) (Lookup, error) {
	projects, err := s.backend.ListAll(ctx, s.schema.Projects.Table)
	if err != nil {
		return Lookup{}, err
	}
	return BuildLookup(projects, s.schema.Projects.KeyField), nil
}

// resolveProjectID resolves a project key to its record ID, with the
// key-naming error contract shared by all mutations.
func (s *Service) resolveProjectID(ctx context.Context, key string) (string, error) {
	lookup, err := s.projectLookup(ctx)
	if err != nil {
		return "", err
	}
	id, ok := lookup.RecordID(key)
	if !ok {
		return "", &UnknownProjectKeyError{Key: key}
	}
	return id, nil
}

// --- Task mutations ---

// TaskInput is the simplified create-task request. Unset optional fields get
// defaults: status "pending", progress 0, empty strings elsewhere.
type TaskInput struct {
	ProjectKey  string   `json:"projectKey"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Status      string   `json:"status"`
	Progress    *float64 `json:"progress"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

// TaskPatch is a partial task update. Nil means leave the backend field
// untouched; a present-but-empty value clears it.
type TaskPatch struct {
	ProjectKey  *string  `json:"projectKey,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Owner       *string  `json:"owner,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Progress    *float64 `json:"progress,omitempty"`
	StartDate   *string  `json:"startDate,omitempty"`
	EndDate     *string  `json:"endDate,omitempty"`
}

// CreateTask resolves the project key, translates the input into Airtable
// columns, and creates the record. No write is issued when the key is
// unknown.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	if in.ProjectKey == "" {
		return nil, InputError("projectKey is required")
	}
	projectID, err := s.resolveProjectID(ctx, in.ProjectKey)
	if err != nil {
		return nil, err
	}

	m := s.schema.Tasks
	status := in.Status
	if status == "" {
		status = "pending"
	}
	progress := 0.0
	if in.Progress != nil {
		progress = *in.Progress
	}
	fields := map[string]any{
		m.LinkField:             []string{projectID},
		m.Column("name"):        in.Name,
		m.Column("description"): in.Description,
		m.Column("owner"):       in.Owner,
		m.Column("status"):      status,
		m.Column("progress"):    progress,
		m.Column("startDate"):   in.StartDate,
		m.Column("endDate"):     in.EndDate,
	}

	rec, err := s.backend.CreateRecord(ctx, m.Table, fields)
	if err != nil {
		return nil, err
	}
	task := taskFromRecord(m, *rec)
	return &task, nil
}

// UpdateTask applies a partial update: only the fields present in the patch
// are sent to the backend. A supplied projectKey re-links the task.
func (s *Service) UpdateTask(ctx context.Context, id string, p TaskPatch) (*model.Task, error) {
	if id == "" {
		return nil, InputError("record id is required")
	}

	m := s.schema.Tasks
	fields := map[string]any{}
	if p.ProjectKey != nil {
		projectID, err := s.resolveProjectID(ctx, *p.ProjectKey)
		if err != nil {
			return nil, err
		}
		fields[m.LinkField] = []string{projectID}
	}
	setString(fields, m.Column("name"), p.Name)
	setString(fields, m.Column("description"), p.Description)
	setString(fields, m.Column("owner"), p.Owner)
	setString(fields, m.Column("status"), p.Status)
	setString(fields, m.Column("startDate"), p.StartDate)
	setString(fields, m.Column("endDate"), p.EndDate)
	if p.Progress != nil {
		fields[m.Column("progress")] = *p.Progress
	}
	if len(fields) == 0 {
		return nil, InputError("no fields to update")
	}

	rec, err := s.backend.UpdateRecord(ctx, m.Table, id, fields)
	if err != nil {
		return nil, err
	}
	task := taskFromRecord(m, *rec)
	return &task, nil
}

// DeleteTask deletes the task record.
func (s *Service) DeleteTask(ctx context.Context, id string) (*model.Deletion, error) {
	if id == "" {
		return nil, InputError("record id is required")
	}
	del, err := s.backend.DeleteRecord(ctx, s.schema.Tasks.Table, id)
	if err != nil {
		return nil, err
	}
	return &model.Deletion{ID: del.ID, Deleted: del.Deleted}, nil
}

// --- Cashflow mutations ---

// CashflowInput is the simplified create-cashflow request. Defaults: type
// "out", amount 0, currency "USD".
type CashflowInput struct {
	ProjectKey   string   `json:"projectKey"`
	Concept      string   `json:"concept"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	Amount       *float64 `json:"amount"`
	Currency     string   `json:"currency"`
	Counterparty string   `json:"counterparty"`
	Status       string   `json:"status"`
	Notes        string   `json:"notes"`
	RelatedTask  string   `json:"relatedTask"`
}

// CashflowPatch is a partial cashflow update with the same nil-vs-empty
// semantics as TaskPatch.
type CashflowPatch struct {
	ProjectKey   *string  `json:"projectKey,omitempty"`
	Concept      *string  `json:"concept,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	Counterparty *string  `json:"counterparty,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	RelatedTask  *string  `json:"relatedTask,omitempty"`
}

// CreateCashflow resolves the project key and creates the cashflow record.
func (s *Service) CreateCashflow(ctx context.Context, in CashflowInput) (*model.CashflowEntry, error) {
	if in.ProjectKey == "" {
		return nil, InputError("projectKey is required")
	}
	projectID, err := s.resolveProjectID(ctx, in.ProjectKey)
	if err != nil {
		return nil, err
	}

	m := s.schema.Cashflow
	typ := in.Type
	if typ == "" {
		typ = "out"
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	amount := 0.0
	if in.Amount != nil {
		amount = *in.Amount
	}
	fields := map[string]any{
		m.LinkField:              []string{projectID},
		m.Column("concept"):      in.Concept,
		m.Column("date"):         in.Date,
		m.Column("type"):         typ,
		m.Column("amount"):       amount,
		m.Column("currency"):     currency,
		m.Column("counterparty"): in.Counterparty,
		m.Column("status"):       in.Status,
		m.Column("notes"):        in.Notes,
	}
	if in.RelatedTask != "" {
		fields[m.Column("relatedTask")] = []string{in.RelatedTask}
	}

	rec, err := s.backend.CreateRecord(ctx, m.Table, fields)
	if err != nil {
		return nil, err
	}
	entry := cashflowFromRecord(m, *rec)
	return &entry, nil
}

// UpdateCashflow applies a partial update to a cashflow record.
func (s *Service) UpdateCashflow(ctx context.Context, id string, p CashflowPatch) (*model.CashflowEntry, error) {
	if id == "" {
		return nil, InputError("record id is required")
	}

	m := s.schema.Cashflow
	fields := map[string]any{}
	if p.ProjectKey != nil {
		projectID, err := s.resolveProjectID(ctx, *p.ProjectKey)
		if err != nil {
			return nil, err
		}
		fields[m.LinkField] = []string{projectID}
	}
	setString(fields, m.Column("concept"), p.Concept)
	setString(fields, m.Column("date"), p.Date)
	setString(fields, m.Column("type"), p.Type)
	setString(fields, m.Column("currency"), p.Currency)
	setString(fields, m.Column("counterparty"), p.Counterparty)
	setString(fields, m.Column("status"), p.Status)
	setString(fields, m.Column("notes"), p.Notes)
	if p.Amount != nil {
		fields[m.Column("amount")] = *p.Amount
	}
	if p.RelatedTask != nil {
		if *p.RelatedTask == "" {
			fields[m.Column("relatedTask")] = []string{}
		} else {
			fields[m.Column("relatedTask")] = []string{*p.RelatedTask}
		}
	}
	if len(fields) == 0 {
		return nil, InputError("no fields to update")
	}

	rec, err := s.backend.UpdateRecord(ctx, m.Table, id, fields)
	if err != nil {
		return nil, err
	}
	entry := cashflowFromRecord(m, *rec)
	return &entry, nil
}

// DeleteCashflow deletes the cashflow record.
func (s *Service) DeleteCashflow(ctx context.Context, id string) (*model.Deletion, error) {
	if id == "" {
		return nil, InputError("record id is required")
	}
	del, err := s.backend.DeleteRecord(ctx, s.schema.Cashflow.Table, id)
	if err != nil {
		return nil, err
	}
	return &model.Deletion{ID: del.ID, Deleted: del.Deleted}, nil
}

// setString includes a pointer field in the patch when present. An empty
// string clears the backend column.
func setString(fields map[string]any, col string, v *string) {
	if v != nil {
		fields[col] = *v
	}
}
