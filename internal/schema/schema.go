// Package schema describes how dashboard entities map onto Airtable tables.
// The table names, link columns, and column names live here as data, so one
// binary can serve bases whose column names have drifted: point
// GIRDER_SCHEMA at a TOML file to override any part of the default mapping.
package schema

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// EntityMap binds one dashboard entity kind to its Airtable table.
// KeyField is the column holding the human-readable project key (Projects
// only); LinkField is the linked-record column pointing at the parent
// project (child tables only). Columns maps internal camelCase field names
// to Airtable column names. Optional tables degrade to empty on fetch
// failure instead of failing the whole response.
type EntityMap struct {
	Table     string            `toml:"table"`
	KeyField  string            `toml:"key_field,omitempty"`
	LinkField string            `toml:"link_field,omitempty"`
	Optional  bool              `toml:"optional,omitempty"`
	Columns   map[string]string `toml:"columns"`
}

// Column returns the Airtable column for an internal field name, falling
// back to the internal name itself when unmapped.
func (m EntityMap) Column(field string) string {
	if col, ok := m.Columns[field]; ok {
		return col
	}
	return field
}

// Schema is the full table mapping for one Airtable base.
type Schema struct {
	Projects EntityMap `toml:"projects"`
	Tasks    EntityMap `toml:"tasks"`
	Team     EntityMap `toml:"team"`
	Critical EntityMap `toml:"critical"`
	Cashflow EntityMap `toml:"cashflow"`
}

// Default returns the canonical base layout.
func Default() Schema {
	return Schema{
		Projects: EntityMap{
			Table:    "Projects",
			KeyField: "Project ID",
			Columns: map[string]string{
				"name":       "Name",
				"subtitle":   "Subtitle",
				"status":     "Status",
				"client":     "Client",
				"amount":     "Amount",
				"start":      "Start",
				"end":        "End",
				"pm":         "PM",
				"ganttStart": "Gantt start",
				"ganttEnd":   "Gantt end",
			},
		},
		Tasks: EntityMap{
			Table:     "Tasks",
			LinkField: "Project",
			Columns: map[string]string{
				"seq":         "ID",
				"name":        "Task",
				"description": "Description",
				"owner":       "Owner",
				"status":      "Status",
				"progress":    "Progress",
				"startDate":   "Start date",
				"endDate":     "End date",
			},
		},
		Team: EntityMap{
			Table:     "Team",
			LinkField: "Project",
			Columns: map[string]string{
				"name":     "Name",
				"role":     "Role",
				"initials": "Initials",
			},
		},
		Critical: EntityMap{
			Table:     "Critical risks",
			LinkField: "Project",
			Columns: map[string]string{
				"item": "Item",
			},
		},
		Cashflow: EntityMap{
			Table:     "Cashflow",
			LinkField: "Project",
			Optional:  true,
			Columns: map[string]string{
				"concept":      "Concept",
				"date":         "Date",
				"type":         "Type",
				"amount":       "Amount",
				"currency":     "Currency",
				"counterparty": "Counterparty",
				"status":       "Status",
				"notes":        "Notes",
				"relatedTask":  "Related task",
			},
		},
	}
}

// LoadFile merges a TOML override file on top of the default schema.
// Only the pieces present in the file are replaced: an entity section
// overrides table/key/link names individually, and its columns table
// overrides per-column (unlisted columns keep their defaults).
func LoadFile(path string) (Schema, error) {
	var override Schema
	if _, err := toml.DecodeFile(path, &override); err != nil {
		return Schema{}, fmt.Errorf("loading schema %s: %w", path, err)
	}
	s := Default()
	mergeEntity(&s.Projects, override.Projects)
	mergeEntity(&s.Tasks, override.Tasks)
	mergeEntity(&s.Team, override.Team)
	mergeEntity(&s.Critical, override.Critical)
	mergeEntity(&s.Cashflow, override.Cashflow)
	return s, nil
}

func mergeEntity(dst *EntityMap, src EntityMap) {
	if src.Table != "" {
		dst.Table = src.Table
	}
	if src.KeyField != "" {
		dst.KeyField = src.KeyField
	}
	if src.LinkField != "" {
		dst.LinkField = src.LinkField
	}
	if src.Optional {
		dst.Optional = true
	}
	for field, col := range src.Columns {
		dst.Columns[field] = col
	}
}
