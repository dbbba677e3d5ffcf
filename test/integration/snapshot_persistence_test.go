//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andronet-dev/andronet/internal/snapshot"
)

func persistenceSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Timestamp: "2026-08-25T10:30:00Z",
		Groups: []snapshot.Group{
			{
				Name: "system_properties_dns",
				Entries: []snapshot.Entry{
					{Key: "net.dns1", Current: "192.168.1.1", Default: "8.8.8.8", Description: "Primary DNS server"},
				},
			},
			{
				Name: "kernel_parameters_ipv4",
				Entries: []snapshot.Entry{
					{Key: "/proc/sys/net/ipv4/ip_forward", Current: "1", Default: "0", Description: "IPv4 forwarding"},
				},
			},
			{
				Name: "android_specific_wifi",
				Entries: []snapshot.Entry{
					{Key: "settings.global.wifi_sleep_policy", Current: "0", Default: "2", Description: "Keep wifi on during sleep"},
				},
			},
		},
	}
}

// TestIntegration_StoreAndIndexGrowTogether saves a sequence of backups the
// way the CLI does and verifies the directory, the filenames and the index
// stay consistent with each other.
func TestIntegration_StoreAndIndexGrowTogether(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	store := snapshot.NewStore(dir)
	index := snapshot.NewIndex(dir)

	assert.True(t, store.Empty())

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	names := []string{"first-run", "pre-apply", "manual"}
	for i, name := range names {
		path, err := store.Save(persistenceSnapshot(), name, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)

		require.NoError(t, index.Append(snapshot.Record{
			Name:      name,
			File:      filepath.Base(path),
			Timestamp: "2026-08-25T10:30:00Z",
			CreatedBy: "andronet backup",
		}))
	}

	assert.False(t, store.Empty())

	records, err := index.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, names[i], rec.Name, "index keeps append order")

		loaded, err := snapshot.LoadFile(filepath.Join(dir, rec.File))
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.EntryCount())
	}

	rec, found, err := index.Lookup("pre-apply")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "pre-apply-20260825-110000.json", rec.File)

	_, found, err = index.Lookup("never-saved")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestIntegration_IndexPreservesForeignContent appends to an index written
// by a different (perhaps newer) tool version and verifies fields the
// current code knows nothing about survive byte for byte.
func TestIntegration_IndexPreservesForeignContent(t *testing.T) {
	dir := t.TempDir()
	seeded := `{"version":"1.0","generator":"andronet 2.0","backups":[` +
		`{"name":"old","file":"old-20260101-000000.json","timestamp":"2026-01-01T00:00:00Z","description":"","created_by":"andronet backup","labels":["keep"]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.IndexFileName), []byte(seeded), 0644))

	index := snapshot.NewIndex(dir)
	require.NoError(t, index.Append(snapshot.Record{Name: "new", File: "new-20260825-100000.json"}))

	raw, err := index.Raw()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"generator":"andronet 2.0"`)
	assert.Contains(t, string(raw), `"labels":["keep"]`)

	records, err := index.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "old", records[0].Name)
	assert.Equal(t, "new", records[1].Name)
}

// TestIntegration_CorruptIndexDoesNotBlockSnapshots verifies the failure
// boundary between the two files: a mangled index reports errors, while
// snapshot saves and loads in the same directory keep working.
func TestIntegration_CorruptIndexDoesNotBlockSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.IndexFileName), []byte("{not json"), 0644))

	index := snapshot.NewIndex(dir)
	_, err := index.Records()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")

	err = index.Append(snapshot.Record{Name: "x", File: "x.json"})
	require.Error(t, err, "append must not clobber a file it cannot parse")

	store := snapshot.NewStore(dir)
	path, err := store.Save(persistenceSnapshot(), "manual", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := snapshot.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.EntryCount())
}

// TestIntegration_SnapshotFileFidelity round-trips keys containing dots and
// slashes through the file format and verifies nothing is mangled.
func TestIntegration_SnapshotFileFidelity(t *testing.T) {
	dir := t.TempDir()
	original := persistenceSnapshot()

	path, err := snapshot.NewStore(dir).Save(original, "manual", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := snapshot.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, original.Timestamp, loaded.Timestamp)
	require.Len(t, loaded.Groups, 3)
	for i, group := range original.Groups {
		assert.Equal(t, group.Name, loaded.Groups[i].Name)
		require.Len(t, loaded.Groups[i].Entries, len(group.Entries))
		for j, entry := range group.Entries {
			got := loaded.Groups[i].Entries[j]
			assert.Equal(t, entry.Key, got.Key)
			assert.Equal(t, entry.Current, got.Current)
			assert.Equal(t, entry.Default, got.Default)
			assert.Equal(t, entry.Description, got.Description)
			assert.Nil(t, got.MatchesDefault, "backups never carry comparison marks")
		}
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	idxDNS := strings.Index(content, "system_properties_dns")
	idxKernel := strings.Index(content, "kernel_parameters_ipv4")
	idxWifi := strings.Index(content, "android_specific_wifi")
	assert.True(t, idxDNS < idxKernel && idxKernel < idxWifi, "file keeps capture order")
}

// TestIntegration_LoadFileErrors pins the error messages restore surfaces
// for the two common failure shapes.
func TestIntegration_LoadFileErrors(t *testing.T) {
	_, err := snapshot.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot file not found")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"timestamp": "x"}`), 0644))
	_, err = snapshot.LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse snapshot file")
}
