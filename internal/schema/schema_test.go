package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
  "version": "1.0",
  "categories": {
    "system_properties": {
      "wifi": {
        "wifi.interface": {"description": "Primary WLAN interface", "type": "string", "default": "wlan0"},
        "wifi.supplicant_scan_interval": {"description": "Scan interval", "type": "int", "default": 15}
      },
      "dns": {
        "net.dns1": {"description": "Primary resolver", "default": "8.8.8.8"}
      }
    },
    "kernel_parameters": {
      "ipv4": {
        "/proc/sys/net/ipv4/ip_forward": {"description": "IPv4 forwarding", "type": "boolean", "default": "0"}
      }
    },
    "environment_variables": {
      "proxy": {
        "HTTP_PROXY": {"description": "HTTP proxy (session only)", "default": ""},
        "NO_PROXY": {"default": null}
      }
    },
    "android_specific": {
      "wifi": {
        "settings.global.wifi_sleep_policy": {"description": "Keep Wi-Fi awake {2 = never sleep}", "default": "2"}
      }
    }
  }
}`

func TestParse_ValidDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestCategoryNames_DocumentOrder(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, []string{"wifi", "dns"}, doc.CategoryNames(SystemProperties))
	assert.Equal(t, []string{"ipv4"}, doc.CategoryNames(KernelParameters))
	assert.Equal(t, []string{"proxy"}, doc.CategoryNames(EnvironmentVariables))
	assert.Equal(t, []string{"wifi"}, doc.CategoryNames(AndroidSpecific))
}

func TestItemKeys_DocumentOrder(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, []string{"wifi.interface", "wifi.supplicant_scan_interval"},
		doc.ItemKeys(SystemProperties, "wifi"))
	assert.Equal(t, []string{"/proc/sys/net/ipv4/ip_forward"},
		doc.ItemKeys(KernelParameters, "ipv4"))
	assert.Nil(t, doc.ItemKeys(SystemProperties, "nonexistent"))
}

func TestField(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	tests := []struct {
		name  string
		ctype CategoryType
		cname string
		key   string
		field string
		want  string
	}{
		{
			name:  "string default verbatim",
			ctype: SystemProperties,
			cname: "wifi",
			key:   "wifi.interface",
			field: "default",
			want:  "wlan0",
		},
		{
			name:  "numeric default as literal token",
			ctype: SystemProperties,
			cname: "wifi",
			key:   "wifi.supplicant_scan_interval",
			field: "default",
			want:  "15",
		},
		{
			name:  "empty default",
			ctype: EnvironmentVariables,
			cname: "proxy",
			key:   "HTTP_PROXY",
			field: "default",
			want:  "",
		},
		{
			name:  "null default",
			ctype: EnvironmentVariables,
			cname: "proxy",
			key:   "NO_PROXY",
			field: "default",
			want:  "",
		},
		{
			name:  "missing field",
			ctype: SystemProperties,
			cname: "dns",
			key:   "net.dns1",
			field: "type",
			want:  "",
		},
		{
			name:  "missing key",
			ctype: SystemProperties,
			cname: "wifi",
			key:   "no.such.key",
			field: "default",
			want:  "",
		},
		{
			name:  "missing category",
			ctype: KernelParameters,
			cname: "ipv6",
			key:   "/proc/sys/net/ipv6/anything",
			field: "default",
			want:  "",
		},
		{
			name:  "description containing braces",
			ctype: AndroidSpecific,
			cname: "wifi",
			key:   "settings.global.wifi_sleep_policy",
			field: "description",
			want:  "Keep Wi-Fi awake {2 = never sleep}",
		},
		{
			name:  "default after brace-laden sibling field",
			ctype: AndroidSpecific,
			cname: "wifi",
			key:   "settings.global.wifi_sleep_policy",
			field: "default",
			want:  "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Field(tt.ctype, tt.cname, tt.key, tt.field))
		})
	}
}

func TestField_FirstMatchWinsOnDuplicateKeys(t *testing.T) {
	doc, err := Parse([]byte(`{
		"categories": {
			"system_properties": {
				"wifi": {
					"wifi.interface": {"default": "wlan0"},
					"wifi.interface": {"default": "wlan1"}
				}
			}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "wlan0", doc.Field(SystemProperties, "wifi", "wifi.interface", "default"))
}

func TestParse_RoundTripsEveryDefault(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	wantDefaults := map[string]string{
		"wifi.interface":                    "wlan0",
		"wifi.supplicant_scan_interval":     "15",
		"net.dns1":                          "8.8.8.8",
		"/proc/sys/net/ipv4/ip_forward":     "0",
		"HTTP_PROXY":                        "",
		"NO_PROXY":                          "",
		"settings.global.wifi_sleep_policy": "2",
	}

	seen := 0
	for _, ctype := range CategoryTypes() {
		for _, cname := range doc.CategoryNames(ctype) {
			for _, key := range doc.ItemKeys(ctype, cname) {
				want, ok := wantDefaults[key]
				require.True(t, ok, "unexpected key %s", key)
				assert.Equal(t, want, doc.Field(ctype, cname, key, "default"), "default for %s", key)
				seen++
			}
		}
	}
	assert.Equal(t, len(wantDefaults), seen)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wlan0", doc.Field(SystemProperties, "wifi", "wifi.interface", "default"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestParseCategoryType(t *testing.T) {
	for _, ctype := range CategoryTypes() {
		parsed, ok := ParseCategoryType(string(ctype))
		assert.True(t, ok)
		assert.Equal(t, ctype, parsed)
	}

	_, ok := ParseCategoryType("network_properties")
	assert.False(t, ok)
}
