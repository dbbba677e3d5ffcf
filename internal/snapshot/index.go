package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IndexFileName is the metadata index kept next to the snapshot files.
const IndexFileName = "backup-metadata.json"

const emptyIndex = `{"version":"1.0","backups":[]}`

// Record is one index entry describing a saved snapshot.
type Record struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

// Index is the append-only backup metadata file. Appends splice the new
// record into the raw document, so everything already in the file, the
// version header included, survives byte for byte.
type Index struct {
	path string
}

func NewIndex(dir string) *Index {
	return &Index{path: filepath.Join(dir, IndexFileName)}
}

func (ix *Index) Path() string {
	return ix.path
}

// Append adds a record to the end of the backups array, creating the index
// on first use.
func (ix *Index) Append(rec Record) error {
	raw, err := ix.raw()
	if err != nil {
		return err
	}

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal backup record: %w", err)
	}
	updated, err := sjson.SetRawBytes(raw, "backups.-1", recJSON)
	if err != nil {
		return fmt.Errorf("failed to update backup index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(ix.path), 0700); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	tmpFile := ix.path + ".tmp"
	if err := os.WriteFile(tmpFile, updated, 0644); err != nil {
		return fmt.Errorf("failed to write backup index: %w", err)
	}
	if err := os.Rename(tmpFile, ix.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename backup index: %w", err)
	}
	return nil
}

// Records returns all index entries in append order. A missing index reads
// as no records.
func (ix *Index) Records() ([]Record, error) {
	raw, err := ix.raw()
	if err != nil {
		return nil, err
	}

	var records []Record
	var parseErr error
	gjson.GetBytes(raw, "backups").ForEach(func(_, elem gjson.Result) bool {
		var rec Record
		if err := json.Unmarshal([]byte(elem.Raw), &rec); err != nil {
			parseErr = fmt.Errorf("backup index is corrupt: %w", err)
			return false
		}
		records = append(records, rec)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}

// Lookup finds the first record with the given name.
func (ix *Index) Lookup(name string) (Record, bool, error) {
	records, err := ix.Records()
	if err != nil {
		return Record{}, false, err
	}
	for _, rec := range records {
		if rec.Name == name {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// Raw returns the index document as stored, or an empty index if the file
// does not exist yet.
func (ix *Index) Raw() ([]byte, error) {
	return ix.raw()
}

func (ix *Index) raw() ([]byte, error) {
	raw, err := os.ReadFile(ix.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte(emptyIndex), nil
		}
		return nil, fmt.Errorf("failed to read backup index: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("backup index is corrupt: %s is not valid JSON", ix.path)
	}
	if !gjson.GetBytes(raw, "backups").IsArray() {
		return nil, fmt.Errorf("backup index is corrupt: %s has no \"backups\" array", ix.path)
	}
	return raw, nil
}
