// Package snapshot models captured device state and its on-disk form: one
// JSON file per backup plus an append-only metadata index next to them.
package snapshot

import (
	"bytes"
	"encoding/json"
)

// TimeFormat is the UTC timestamp layout written into snapshot files.
const TimeFormat = "2006-01-02T15:04:05Z"

// Snapshot is a capture of network settings at one point in time. Groups
// and their entries keep the order they were captured in; that order is
// what the marshalled file shows and what restore walks.
type Snapshot struct {
	Timestamp string
	Groups    []Group
}

// Group holds the entries of one category, keyed <type>_<name>.
type Group struct {
	Name    string
	Entries []Entry
}

// Entry records one setting's live value next to its schema default.
// MatchesDefault is only set by comparing reads, never in backups.
type Entry struct {
	Key            string
	Current        string
	Default        string
	Description    string
	MatchesDefault *bool
}

// Empty reports whether the snapshot holds no entries at all.
func (s *Snapshot) Empty() bool {
	return s.EntryCount() == 0
}

// EntryCount returns the total number of entries across all groups.
func (s *Snapshot) EntryCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Entries)
	}
	return n
}

// Find returns the group with the given name.
func (s *Snapshot) Find(name string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

type entryFields struct {
	Current        string `json:"current"`
	Default        string `json:"default"`
	Description    string `json:"description"`
	MatchesDefault *bool  `json:"matches_default,omitempty"`
}

// MarshalJSON emits the snapshot with groups and keys in capture order.
// Plain maps would sort keys alphabetically, so the object is built by hand.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"timestamp":`)
	ts, err := json.Marshal(s.Timestamp)
	if err != nil {
		return nil, err
	}
	buf.Write(ts)
	buf.WriteString(`,"network_settings":{`)
	for i, g := range s.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(g.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(":{")
		for j, e := range g.Entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			fields, err := json.Marshal(entryFields{
				Current:        e.Current,
				Default:        e.Default,
				Description:    e.Description,
				MatchesDefault: e.MatchesDefault,
			})
			if err != nil {
				return nil, err
			}
			buf.Write(fields)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
