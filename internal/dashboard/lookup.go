package dashboard

import "github.com/carvallo/girder/internal/airtable"

// Lookup maps Airtable record identifiers to human-readable project keys and
// back. It is derived solely from the Projects table and rebuilt from scratch
// on every read or write request; nothing is cached across requests.
type Lookup struct {
	keyByID map[string]string
	idByKey map[string]string
}

// BuildLookup builds the bidirectional mapping from the Projects records.
// Records whose key field is absent or empty are excluded, which makes them
// (and any children linked to them) unreachable in the output.
func BuildLookup(projects []airtable.Record, keyField string) Lookup {
	l := Lookup{
		keyByID: make(map[string]string, len(projects)),
		idByKey: make(map[string]string, len(projects)),
	}
	for _, rec := range projects {
		key, _ := rec.Fields[keyField].(string)
		if key == "" {
			continue
		}
		l.keyByID[rec.ID] = key
		l.idByKey[key] = rec.ID
	}
	return l
}

// Key resolves a record identifier to its project key.
func (l Lookup) Key(recordID string) (string, bool) {
	key, ok := l.keyByID[recordID]
	return key, ok
}

// RecordID resolves a project key to its record identifier.
func (l Lookup) RecordID(key string) (string, bool) {
	id, ok := l.idByKey[key]
	return id, ok
}

// Keys returns the number of resolvable projects.
func (l Lookup) Keys() int { return len(l.idByKey) }
