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

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/cmd/sig/cli/options"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/templates"
)

// Init creates the init subcommand. It bootstraps the .sig directory and
// writes the initial configuration in the current (or given) directory.
func Init() *cobra.Command {
	o := &options.InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Initialize signing in a project directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ro.Project
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				var err error
				if dir, err = os.Getwd(); err != nil {
					return err
				}
			}

			for _, engine := range o.Engines {
				if !templates.Known(engine) {
					return fmt.Errorf("unknown template engine %q (known: %v)", engine, templates.Names())
				}
			}

			if _, err := config.Init(dir, o.Engines, o.Identity); err != nil {
				return err
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				abs = dir
			}
			fmt.Printf("Initialized %s in %s\n", config.DirName, abs)
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}
