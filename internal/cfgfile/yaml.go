// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package cfgfile

import "gopkg.in/yaml.v3"

func unmarshalYaml(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
