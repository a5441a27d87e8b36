// Package model defines the dashboard's API shape: the nested project tree
// and its child entries, all camelCase JSON. These are read models built
// fresh on every request; Airtable stays the system of record.
package model

// Tree is the aggregated response, keyed by human-readable project key
// (e.g. "macro_lan").
type Tree map[string]*Project

// Project is one project's denormalized view: display metadata plus ordered
// child sequences. Missing metadata fields render as empty strings; gantt
// dates are null when absent, "YYYY-MM-DD" when present.
type Project struct {
	Name       string          `json:"name"`
	Subtitle   string          `json:"subtitle"`
	Status     string          `json:"status"`
	Client     string          `json:"client"`
	Amount     string          `json:"amount"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
	PM         string          `json:"pm"`
	GanttStart *string         `json:"ganttStart"`
	GanttEnd   *string         `json:"ganttEnd"`
	Tasks      []Task          `json:"tasks"`
	Team       []TeamMember    `json:"team"`
	Critical   []string        `json:"critical"`
	Cashflow   []CashflowEntry `json:"cashflow"`
}

// Task is one task row. ID is the Airtable record identifier, kept so the
// dashboard can address the row in later mutations; Seq is the base's own
// optional numeric ID.
type Task struct {
	ID          string  `json:"id"`
	Seq         float64 `json:"seq,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Owner       string  `json:"owner"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

// TeamMember is one person assigned to a project.
type TeamMember struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Initials string `json:"initials"`
}

// CashflowEntry is one cashflow event. Type is passed through from the
// backend verbatim; no normalization is applied on read.
type CashflowEntry struct {
	ID           string  `json:"id"`
	Concept      string  `json:"concept"`
	Date         string  `json:"date"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Counterparty string  `json:"counterparty"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	RelatedTask  string  `json:"relatedTask"`
}

// Deletion acknowledges a delete passthrough.
type Deletion struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
