//go:build integration

package integration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andronet-dev/andronet/internal/catalog"
	"github.com/andronet-dev/andronet/internal/device"
	"github.com/andronet-dev/andronet/internal/engine"
	"github.com/andronet-dev/andronet/internal/schema"
	"github.com/andronet-dev/andronet/internal/snapshot"
)

const lifecycleSchemaJSON = `{
  "categories": {
    "system_properties": {
      "dns": {
        "net.dns1": {"default": "8.8.8.8", "description": "Primary DNS server"},
        "net.dns2": {"default": "8.8.4.4", "description": "Secondary DNS server"}
      }
    },
    "kernel_parameters": {
      "ipv4": {
        "/proc/sys/net/ipv4/ip_forward": {"default": "0", "description": "IPv4 forwarding"}
      }
    },
    "environment_variables": {
      "proxy": {
        "NO_PROXY": {"default": "localhost,127.0.0.1", "description": "Proxy bypass list"}
      }
    },
    "android_specific": {
      "wifi": {
        "settings.global.wifi_sleep_policy": {"default": "2", "description": "Keep wifi on during sleep"}
      }
    }
  }
}`

func lifecycleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	doc, err := schema.Parse([]byte(lifecycleSchemaJSON))
	require.NoError(t, err)
	return catalog.Build(doc)
}

func driftedDevice() *device.Fake {
	fake := device.NewFake()
	fake.Props["net.dns1"] = "192.168.1.1"
	fake.Props["net.dns2"] = "192.168.1.2"
	fake.Files["/proc/sys/net/ipv4/ip_forward"] = "1"
	fake.Env["NO_PROXY"] = "corp.example.com"
	fake.Settings["global wifi_sleep_policy"] = "0"
	return fake
}

// TestIntegration_ApplyRestoreLifecycle walks the full cycle a user goes
// through: capture the drifted state, apply the defaults, verify the device
// matches the schema, then restore the capture and verify the drift is back.
func TestIntegration_ApplyRestoreLifecycle(t *testing.T) {
	cat := lifecycleCatalog(t)
	fake := driftedDevice()

	before, readResult, err := engine.Read(engine.ReadOptions{Catalog: cat, Bridge: fake})
	require.NoError(t, err)
	assert.Equal(t, 5, readResult.Read)
	assert.Equal(t, 0, readResult.Unreadable)

	applyResult, err := engine.Apply(engine.ApplyOptions{
		Catalog: cat,
		Bridge:  fake,
		Yes:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, applyResult.Applied)
	assert.Equal(t, 0, applyResult.Failed)

	_, afterApply, err := engine.Read(engine.ReadOptions{Catalog: cat, Bridge: fake, Compare: true})
	require.NoError(t, err)
	assert.Equal(t, 5, afterApply.Matches, "every setting should match its default after apply")
	assert.Equal(t, 0, afterApply.Mismatches)

	restoreResult, err := engine.Restore(engine.RestoreOptions{
		Snapshot: before,
		Bridge:   fake,
		Yes:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, restoreResult.TotalRestored())
	assert.Equal(t, 0, restoreResult.TotalFailed())

	assert.Equal(t, "192.168.1.1", fake.Props["net.dns1"])
	assert.Equal(t, "192.168.1.2", fake.Props["net.dns2"])
	assert.Equal(t, "1", fake.Files["/proc/sys/net/ipv4/ip_forward"])
	assert.Equal(t, "corp.example.com", fake.Env["NO_PROXY"])
	assert.Equal(t, "0", fake.Settings["global wifi_sleep_policy"])
}

// TestIntegration_BackupAccumulationAcrossApplies runs apply twice against
// one backup directory and verifies the store and index grow together: the
// first backup is named first-run, later ones pre-apply, and each index
// record points at a loadable file.
func TestIntegration_BackupAccumulationAcrossApplies(t *testing.T) {
	cat := lifecycleCatalog(t)
	fake := driftedDevice()

	dir := filepath.Join(t.TempDir(), "backups")
	store := snapshot.NewStore(dir)
	index := snapshot.NewIndex(dir)

	first := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	_, err := engine.Apply(engine.ApplyOptions{
		Catalog: cat, Bridge: fake, Store: store, Index: index,
		Yes: true, Now: func() time.Time { return first },
	})
	require.NoError(t, err)

	fake.Props["net.dns1"] = "10.0.0.53"

	_, err = engine.Apply(engine.ApplyOptions{
		Catalog: cat, Bridge: fake, Store: store, Index: index,
		Yes: true, Now: func() time.Time { return second },
	})
	require.NoError(t, err)

	records, err := index.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first-run", records[0].Name)
	assert.Equal(t, "pre-apply", records[1].Name)

	for _, rec := range records {
		snap, err := snapshot.LoadFile(filepath.Join(dir, rec.File))
		require.NoError(t, err, "index record %s should point at a loadable file", rec.Name)
		assert.Equal(t, 5, snap.EntryCount())
		assert.Equal(t, "andronet apply", rec.CreatedBy)
	}

	// The second backup was taken after the first apply, so it holds the
	// applied default, not the original drift.
	preApply, err := snapshot.LoadFile(filepath.Join(dir, records[1].File))
	require.NoError(t, err)
	group, ok := preApply.Find("system_properties_dns")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.53", group.Entries[0].Current)
}

// TestIntegration_RestoreFromSavedFile round-trips a capture through the
// store: save, load by path, restore from the loaded copy.
func TestIntegration_RestoreFromSavedFile(t *testing.T) {
	cat := lifecycleCatalog(t)
	fake := driftedDevice()

	before, _, err := engine.Read(engine.ReadOptions{Catalog: cat, Bridge: fake})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := snapshot.NewStore(dir).Save(before, "manual", time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "manual-20260825-120000.json", filepath.Base(path))

	_, err = engine.Apply(engine.ApplyOptions{Catalog: cat, Bridge: fake, Yes: true})
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8", fake.Props["net.dns1"])

	loaded, err := snapshot.LoadFile(path)
	require.NoError(t, err)

	result, err := engine.Restore(engine.RestoreOptions{Snapshot: loaded, Bridge: fake, Yes: true})
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalRestored())
	assert.Equal(t, "192.168.1.1", fake.Props["net.dns1"])
}

// TestIntegration_PartialDeviceStaysRestorable captures a device where one
// tool is broken, then verifies the unreadable entry rides along in the
// snapshot without blocking restore of the rest.
func TestIntegration_PartialDeviceStaysRestorable(t *testing.T) {
	cat := lifecycleCatalog(t)

	broken := driftedDevice()
	broken.Missing["settings"] = true

	before, readResult, err := engine.Read(engine.ReadOptions{Catalog: cat, Bridge: broken})
	require.NoError(t, err)
	assert.Equal(t, 1, readResult.Unreadable)
	assert.Equal(t, 5, before.EntryCount(), "unreadable entries stay in the snapshot")

	healthy := driftedDevice()
	healthy.Settings["global wifi_sleep_policy"] = "1"

	result, err := engine.Restore(engine.RestoreOptions{Snapshot: before, Bridge: healthy, Yes: true})
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRestored())
	assert.Equal(t, 1, result.TotalSkipped(), "the entry captured empty is skipped, not written")
	assert.Equal(t, "1", healthy.Settings["global wifi_sleep_policy"], "skipped entry leaves the device value alone")
}
