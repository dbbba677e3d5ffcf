package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "not json",
			data:    `{"categories": {`,
			wantErr: "not valid JSON",
		},
		{
			name:    "root is an array",
			data:    `[1, 2, 3]`,
			wantErr: "root must be a JSON object",
		},
		{
			name:    "no categories object",
			data:    `{"version": "1.0"}`,
			wantErr: `no "categories" object`,
		},
		{
			name:    "categories is a string",
			data:    `{"categories": "oops"}`,
			wantErr: `"categories" must be an object`,
		},
		{
			name:    "unknown category type",
			data:    `{"categories": {"network_properties": {}}}`,
			wantErr: "categories.network_properties: unknown category type",
		},
		{
			name:    "category type is an array",
			data:    `{"categories": {"system_properties": ["wifi"]}}`,
			wantErr: "categories.system_properties: must be an object of category names",
		},
		{
			name:    "category name is a string",
			data:    `{"categories": {"system_properties": {"wifi": "wlan0"}}}`,
			wantErr: "categories.system_properties.wifi: must be an object of setting keys",
		},
		{
			name:    "setting is a bare value",
			data:    `{"categories": {"system_properties": {"wifi": {"wifi.interface": "wlan0"}}}}`,
			wantErr: "categories.system_properties.wifi.wifi.interface: must be an object of fields",
		},
		{
			name:    "field value is an array",
			data:    `{"categories": {"system_properties": {"wifi": {"wifi.interface": {"default": ["wlan0"]}}}}}`,
			wantErr: "field values must be scalars, got an array",
		},
		{
			name:    "field value is a nested object",
			data:    `{"categories": {"system_properties": {"wifi": {"wifi.interface": {"default": {"v": "wlan0"}}}}}}`,
			wantErr: "field values must be scalars, got an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_TolerancesInsideTheShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown top-level keys",
			data: `{"version": "2.0", "notes": ["a"], "categories": {}}`,
		},
		{
			name: "empty categories",
			data: `{"categories": {}}`,
		},
		{
			name: "empty category type",
			data: `{"categories": {"kernel_parameters": {}}}`,
		},
		{
			name: "unknown leaf fields",
			data: `{"categories": {"system_properties": {"wifi": {"wifi.interface": {"default": "wlan0", "unit": "name", "since": 21}}}}}`,
		},
		{
			name: "boolean and null field values",
			data: `{"categories": {"android_specific": {"wifi": {"settings.global.wifi_scan_always_enabled": {"default": true, "example": null}}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.NoError(t, err)
		})
	}
}
