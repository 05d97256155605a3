// Copyright 2026 The sig Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli wires the sig subcommands: project init, artifact signing and
// verification, gated updates, and the audit and chain inspection surfaces.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/cmd/sig/cli/options"
	"github.com/disreguard/sig/pkg/config"
)

var ro = &options.RootOptions{}

// New creates the root sig command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "sig",
		Short:             "Content signing and gated updates for prompt artifacts.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	ro.AddFlags(cmd)

	cmd.AddCommand(Init())
	cmd.AddCommand(Sign())
	cmd.AddCommand(Unsign())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Check())
	cmd.AddCommand(List())
	cmd.AddCommand(Status())
	cmd.AddCommand(Update())
	cmd.AddCommand(Chain())
	cmd.AddCommand(Audit())
	cmd.AddCommand(Content())
	return cmd
}

// projectRoot resolves the project directory from the --project flag or by
// walking up from the working directory looking for a .sig directory.
func projectRoot() string {
	return config.FindProjectRoot(ro.Project)
}

// commandContext derives a context bounded by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), ro.Timeout)
}
