// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/eectl/eectl/internal/config"
)

// Meta contains runtime metadata shared by commands: the CLI arguments, the
// loaded configuration and its namespace, the context and the starting
// working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	Namespace   string
	StartingDir string
}

// ConfigFile returns the config file backing flag value sources, or "".
func (m Meta) ConfigFile() string {
	return m.Config.Source
}
