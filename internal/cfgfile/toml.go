// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package cfgfile

import (
	"github.com/pelletier/go-toml/v2"
)

func unmarshalToml(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
