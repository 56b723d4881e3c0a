// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package cfgfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Items []string `json:"items" yaml:"items" toml:"items"`
}

func TestUnmarshal(t *testing.T) {
	want := testConfig{Name: "demo", Items: []string{"a", "b"}}
	tests := []struct {
		ext  string
		data string
	}{
		{ext: ".json", data: `{"name": "demo", "items": ["a", "b"]}`},
		{ext: ".jsonc", data: "{\n  // comment\n  \"name\": \"demo\",\n  \"items\": [\"a\", \"b\",],\n}"},
		{ext: ".yaml", data: "name: demo\nitems: [a, b]\n"},
		{ext: ".yml", data: "name: demo\nitems:\n  - a\n  - b\n"},
		{ext: ".toml", data: "name = \"demo\"\nitems = [\"a\", \"b\"]\n"},
	}
	for _, test := range tests {
		t.Run(test.ext, func(t *testing.T) {
			var got testConfig
			require.NoError(t, Unmarshal([]byte(test.data), test.ext, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestUnmarshalUnsupported(t *testing.T) {
	var got testConfig
	err := Unmarshal([]byte("name=demo"), ".ini", &got)
	assert.ErrorContains(t, err, "Unsupported file format '.ini' for config file")
}

func TestParseFileWithExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nixfmtrc")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "rc"}`), 0o644))

	var got testConfig
	require.NoError(t, ParseFileWithExtension(path, ".json", &got))
	assert.Equal(t, "rc", got.Name)

	assert.Error(t, ParseFile(path, &got), "extension-less file should not parse")
}

func TestIsSupportedExtension(t *testing.T) {
	for _, ext := range []string{".json", ".jsonc", ".yaml", ".yml", ".toml"} {
		assert.True(t, IsSupportedExtension(ext), ext)
	}
	for _, ext := range []string{"", ".ini", ".xml", ".nix"} {
		assert.False(t, IsSupportedExtension(ext), ext)
	}
}
