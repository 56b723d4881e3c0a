// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package cfgfile

import (
	"encoding/json"

	"github.com/tailscale/hujson"
)

// unmarshalJSON accepts JSON with comments and trailing commas.
func unmarshalJSON(data []byte, v any) error {
	data, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
