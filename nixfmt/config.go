// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixfmt

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"go.jetify.com/nixgen/internal/cfgfile"
)

// Config selects and configures a formatter. It's usually read from a file
// with [LoadConfig]:
//
//	{
//	  // one of nixpkgs-fmt, nixfmt or alejandra
//	  "formatter": "nixfmt",
//	  "args": ["--width=100"],
//	  "timeout": "10s",
//	}
type Config struct {
	Formatter string   `json:"formatter,omitempty" yaml:"formatter,omitempty" toml:"formatter,omitempty"`
	Path      string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Args      []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`

	// Timeout is a duration string accepted by [time.ParseDuration].
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// LoadConfig reads a formatter config from a .json, .jsonc, .yaml, .yml or
// .toml file. Other extensions are rejected without reading the file.
func LoadConfig(path string) (*Config, error) {
	if ext := filepath.Ext(path); !cfgfile.IsSupportedExtension(ext) {
		return nil, errors.Errorf("nixfmt: load config %s: unsupported file extension %q", path, ext)
	}
	cfg := &Config{}
	if err := cfgfile.ParseFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "nixfmt: load config %s", path)
	}
	return cfg, nil
}

// Tool returns a [Tool] configured by c. The logger may be nil.
//
// An unknown formatter name is only allowed together with an explicit path,
// since there's no way to tell how an arbitrary executable reads its input.
func (c *Config) Tool(logger *slog.Logger) (*Tool, error) {
	name := strings.TrimSpace(c.Formatter)
	path := strings.TrimSpace(c.Path)
	if name != "" && path == "" && !slices.Contains(KnownFormatters(), name) {
		return nil, errors.Errorf("nixfmt: unknown formatter %q (want one of %s)",
			name, strings.Join(KnownFormatters(), ", "))
	}

	var timeout time.Duration
	if c.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, errors.Wrap(err, "nixfmt: invalid timeout")
		}
		if timeout < 0 {
			return nil, errors.Errorf("nixfmt: negative timeout %s", c.Timeout)
		}
	}

	return &Tool{
		Name:    name,
		Path:    path,
		Args:    slices.Clone(c.Args),
		Timeout: timeout,
		Logger:  logger,
	}, nil
}
