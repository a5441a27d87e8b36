package dashboard

import (
	"log/slog"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/model"
	"github.com/carvallo/girder/internal/schema"
)

// RecordSets holds the fetched inputs to one aggregation pass.
type RecordSets struct {
	Projects []airtable.Record
	Tasks    []airtable.Record
	Team     []airtable.Record
	Critical []airtable.Record
	Cashflow []airtable.Record
}

// BuildTree denormalizes the five record sets into the nested project tree.
// It is a pure single pass: build the key lookup from Projects, seed one
// Project per resolvable key, then walk each child set appending entries to
// their parent in input order. Children whose project link does not resolve
// are dropped; a per-table drop count is logged at debug level so integrity
// drift stays visible without changing the response.
func BuildTree(s schema.Schema, recs RecordSets) model.Tree {
	lookup := BuildLookup(recs.Projects, s.Projects.KeyField)

	tree := make(model.Tree, lookup.Keys())
	for _, rec := range recs.Projects {
		key, ok := lookup.Key(rec.ID)
		if !ok {
			continue
		}
		tree[key] = projectFromRecord(s.Projects, rec)
	}

	dropped := 0
	for _, rec := range recs.Tasks {
		p := resolveParent(tree, lookup, s.Tasks.LinkField, rec)
		if p == nil {
			dropped++
			continue
		}
		p.Tasks = append(p.Tasks, taskFromRecord(s.Tasks, rec))
	}
	logDropped(s.Tasks.Table, dropped)

	dropped = 0
	for _, rec := range recs.Team {
		p := resolveParent(tree, lookup, s.Team.LinkField, rec)
		if p == nil {
			dropped++
			continue
		}
		p.Team = append(p.Team, teamMemberFromRecord(s.Team, rec))
	}
	logDropped(s.Team.Table, dropped)

	dropped = 0
	for _, rec := range recs.Critical {
		p := resolveParent(tree, lookup, s.Critical.LinkField, rec)
		if p == nil {
			dropped++
			continue
		}
		if item := stringField(rec.Fields, s.Critical.Column("item")); item != "" {
			p.Critical = append(p.Critical, item)
		}
	}
	logDropped(s.Critical.Table, dropped)

	dropped = 0
	for _, rec := range recs.Cashflow {
		p := resolveParent(tree, lookup, s.Cashflow.LinkField, rec)
		if p == nil {
			dropped++
			continue
		}
		p.Cashflow = append(p.Cashflow, cashflowFromRecord(s.Cashflow, rec))
	}
	logDropped(s.Cashflow.Table, dropped)

	return tree
}

// resolveParent resolves a child record's project link to its tree entry,
// or nil when the link is missing or points at an unknown project.
func resolveParent(tree model.Tree, lookup Lookup, linkField string, rec airtable.Record) *model.Project {
	id := linkedRecordID(rec.Fields, linkField)
	if id == "" {
		return nil
	}
	key, ok := lookup.Key(id)
	if !ok {
		return nil
	}
	return tree[key]
}

func logDropped(table string, n int) {
	if n > 0 {
		slog.Debug("dropped records with unresolved project link", "table", table, "count", n)
	}
}

func projectFromRecord(m schema.EntityMap, rec airtable.Record) *model.Project {
	f := rec.Fields
	return &model.Project{
		Name:       stringField(f, m.Column("name")),
		Subtitle:   stringField(f, m.Column("subtitle")),
		Status:     stringField(f, m.Column("status")),
		Client:     stringField(f, m.Column("client")),
		Amount:     stringField(f, m.Column("amount")),
		Start:      stringField(f, m.Column("start")),
		End:        stringField(f, m.Column("end")),
		PM:         stringField(f, m.Column("pm")),
		GanttStart: dateField(f, m.Column("ganttStart")),
		GanttEnd:   dateField(f, m.Column("ganttEnd")),
		Tasks:      []model.Task{},
		Team:       []model.TeamMember{},
		Critical:   []string{},
		Cashflow:   []model.CashflowEntry{},
	}
}

func taskFromRecord(m schema.EntityMap, rec airtable.Record) model.Task {
	f := rec.Fields
	t := model.Task{
		ID:          rec.ID,
		Seq:         numberField(f, m.Column("seq")),
		Name:        stringField(f, m.Column("name")),
		Description: stringField(f, m.Column("description")),
		Owner:       stringField(f, m.Column("owner")),
		Status:      stringField(f, m.Column("status")),
		Progress:    numberField(f, m.Column("progress")),
		StartDate:   stringField(f, m.Column("startDate")),
		EndDate:     stringField(f, m.Column("endDate")),
	}
	if t.Status == "" {
		t.Status = "pending"
	}
	return t
}

func teamMemberFromRecord(m schema.EntityMap, rec airtable.Record) model.TeamMember {
	f := rec.Fields
	return model.TeamMember{
		Name:     stringField(f, m.Column("name")),
		Role:     stringField(f, m.Column("role")),
		Initials: stringField(f, m.Column("initials")),
	}
}

func cashflowFromRecord(m schema.EntityMap, rec airtable.Record) model.CashflowEntry {
	f := rec.Fields
	e := model.CashflowEntry{
		ID:           rec.ID,
		Concept:      stringField(f, m.Column("concept")),
		Date:         stringField(f, m.Column("date")),
		Type:         stringField(f, m.Column("type")),
		Amount:       numberField(f, m.Column("amount")),
		Currency:     stringField(f, m.Column("currency")),
		Counterparty: stringField(f, m.Column("counterparty")),
		Status:       stringField(f, m.Column("status")),
		Notes:        stringField(f, m.Column("notes")),
		RelatedTask:  linkedRecordID(f, m.Column("relatedTask")),
	}
	if e.Currency == "" {
		e.Currency = "USD"
	}
	return e
}
