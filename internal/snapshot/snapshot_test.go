package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Timestamp: "2026-08-25T10:00:00Z",
		Groups: []Group{
			{Name: "system_properties_wifi", Entries: []Entry{
				{Key: "wifi.supplicant_scan_interval", Current: "15", Default: "180", Description: "Seconds between wifi scans"},
				{Key: "ro.wifi.channels", Current: "", Default: "", Description: "Wifi channel count"},
			}},
			{Name: "kernel_parameters_ipv4", Entries: []Entry{
				{Key: "/proc/sys/net/ipv4/tcp_keepalive_time", Current: "7200", Default: "600", Description: "Keepalive interval"},
			}},
		},
	}
}

func TestMarshal_KeepsCaptureOrder(t *testing.T) {
	data, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	want := `{"timestamp":"2026-08-25T10:00:00Z","network_settings":{` +
		`"system_properties_wifi":{` +
		`"wifi.supplicant_scan_interval":{"current":"15","default":"180","description":"Seconds between wifi scans"},` +
		`"ro.wifi.channels":{"current":"","default":"","description":"Wifi channel count"}},` +
		`"kernel_parameters_ipv4":{` +
		`"/proc/sys/net/ipv4/tcp_keepalive_time":{"current":"7200","default":"600","description":"Keepalive interval"}}}}`
	assert.Equal(t, want, string(data))
}

func TestMarshal_MatchesDefaultOnlyWhenSet(t *testing.T) {
	matches := false
	snap := &Snapshot{
		Timestamp: "2026-08-25T10:00:00Z",
		Groups: []Group{
			{Name: "system_properties_dns", Entries: []Entry{
				{Key: "net.dns1", Current: "1.1.1.1", Default: "8.8.8.8", Description: "Primary DNS", MatchesDefault: &matches},
			}},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matches_default":false`)

	data, err = json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "matches_default")
}

func TestParseSnapshot_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	matches := true
	snap.Groups[1].Entries[0].MatchesDefault = &matches

	data, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)

	parsed, err := ParseSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, parsed)
}

func TestParseSnapshot_LiteralKeys(t *testing.T) {
	data := []byte(`{
	  "timestamp": "2026-08-25T10:00:00Z",
	  "network_settings": {
	    "kernel_parameters_ipv4": {
	      "/proc/sys/net/ipv4/ip_forward": {"current": "0", "default": "0", "description": "IP forwarding"}
	    },
	    "android_specific_wifi": {
	      "settings.global.wifi_sleep_policy": {"current": "2", "default": "2", "description": "Sleep policy"}
	    }
	  }
	}`)

	snap, err := ParseSnapshot(data)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 2)
	assert.Equal(t, "/proc/sys/net/ipv4/ip_forward", snap.Groups[0].Entries[0].Key)
	assert.Equal(t, "settings.global.wifi_sleep_policy", snap.Groups[1].Entries[0].Key)
}

func TestParseSnapshot_TolerantFields(t *testing.T) {
	data := []byte(`{
	  "network_settings": {
	    "system_properties_tcp": {
	      "net.tcp.buffersize.wifi": {"current": 4096, "default": null, "matches_default": "yes"}
	    }
	  }
	}`)

	snap, err := ParseSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "", snap.Timestamp)

	entry := snap.Groups[0].Entries[0]
	assert.Equal(t, "4096", entry.Current, "numeric values keep their literal token")
	assert.Equal(t, "", entry.Default)
	assert.Equal(t, "", entry.Description)
	assert.Nil(t, entry.MatchesDefault, "non-boolean matches_default is ignored")
}

func TestParseSnapshot_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "not json", data: "not json", wantErr: "snapshot is not valid JSON"},
		{name: "root array", data: "[]", wantErr: "snapshot root must be a JSON object"},
		{name: "no network_settings", data: "{}", wantErr: `snapshot has no "network_settings" object`},
		{name: "network_settings scalar", data: `{"network_settings": 42}`, wantErr: `"network_settings" must be a JSON object`},
		{name: "group array", data: `{"network_settings": {"system_properties_wifi": []}}`, wantErr: "network_settings.system_properties_wifi: must be an object of setting keys"},
		{name: "entry scalar", data: `{"network_settings": {"system_properties_wifi": {"net.dns1": "8.8.8.8"}}}`, wantErr: `entry "net.dns1" must be an object`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmptyAndEntryCount(t *testing.T) {
	assert.True(t, (&Snapshot{}).Empty())
	assert.True(t, (&Snapshot{Groups: []Group{{Name: "system_properties_wifi"}}}).Empty())

	snap := sampleSnapshot()
	assert.False(t, snap.Empty())
	assert.Equal(t, 3, snap.EntryCount())
}

func TestFind(t *testing.T) {
	snap := sampleSnapshot()

	group, ok := snap.Find("kernel_parameters_ipv4")
	require.True(t, ok)
	assert.Len(t, group.Entries, 1)

	_, ok = snap.Find("environment_variables_proxy")
	assert.False(t, ok)
}
