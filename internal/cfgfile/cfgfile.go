// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

// Package cfgfile reads configuration files in any of the formats supported
// by nixgen, choosing the format by file extension.
package cfgfile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func Unmarshal(data []byte, extension string, valuePtr any) error {
	switch extension {
	case ".json", ".jsonc":
		return errors.WithStack(unmarshalJSON(data, valuePtr))
	case ".yml", ".yaml":
		return errors.WithStack(unmarshalYaml(data, valuePtr))
	case ".toml":
		return errors.WithStack(unmarshalToml(data, valuePtr))
	}
	return errors.Errorf("Unsupported file format '%s' for config file", extension)
}

func ParseFile(path string, valuePtr any) error {
	return ParseFileWithExtension(path, filepath.Ext(path), valuePtr)
}

// ParseFileWithExtension lets the caller override the extension of the `path`
// filename. For example, a file named .nixfmtrc can be read as ".json".
func ParseFileWithExtension(path, ext string, valuePtr any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}

	return Unmarshal(data, ext, valuePtr)
}

// IsSupportedExtension reports whether Unmarshal understands ext.
func IsSupportedExtension(ext string) bool {
	switch ext {
	case ".json", ".jsonc", ".yml", ".yaml", ".toml":
		return true
	default:
		return false
	}
}
