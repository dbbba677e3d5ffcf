package snapshot

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseSnapshot reads snapshot JSON back into the model. Structure is
// checked strictly so a mangled file fails here with a message naming the
// bad spot, not later in the middle of a restore. The timestamp is taken
// as-is; restore does not depend on it.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("snapshot is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("snapshot root must be a JSON object")
	}

	settings, ok := member(root, "network_settings")
	if !ok {
		return nil, fmt.Errorf("snapshot has no \"network_settings\" object")
	}
	if !settings.IsObject() {
		return nil, fmt.Errorf("\"network_settings\" must be a JSON object")
	}

	snap := &Snapshot{}
	if ts, ok := member(root, "timestamp"); ok {
		snap.Timestamp = scalarText(ts)
	}

	var parseErr error
	settings.ForEach(func(name, entries gjson.Result) bool {
		if !entries.IsObject() {
			parseErr = fmt.Errorf("network_settings.%s: must be an object of setting keys", name.String())
			return false
		}
		group := Group{Name: name.String()}
		entries.ForEach(func(key, fields gjson.Result) bool {
			if !fields.IsObject() {
				parseErr = fmt.Errorf("network_settings.%s: entry %q must be an object", name.String(), key.String())
				return false
			}
			entry := Entry{Key: key.String()}
			if v, ok := member(fields, "current"); ok {
				entry.Current = scalarText(v)
			}
			if v, ok := member(fields, "default"); ok {
				entry.Default = scalarText(v)
			}
			if v, ok := member(fields, "description"); ok {
				entry.Description = scalarText(v)
			}
			if v, ok := member(fields, "matches_default"); ok && v.IsBool() {
				matches := v.Bool()
				entry.MatchesDefault = &matches
			}
			group.Entries = append(group.Entries, entry)
			return true
		})
		if parseErr != nil {
			return false
		}
		snap.Groups = append(snap.Groups, group)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return snap, nil
}

// member finds a key by literal comparison. Snapshot keys contain dots and
// slashes, which gjson's path syntax would treat as separators.
func member(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// scalarText renders a scalar the way it should appear as a setting value:
// strings unquoted, numbers and booleans as their literal token, null empty.
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}
