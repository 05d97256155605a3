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

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/cmd/sig/cli/options"
	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/config"
)

// Audit creates the audit subcommand, printing the audit trail in log order.
func Audit() *cobra.Command {
	o := &options.AuditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := audit.NewLog(config.SigDir(projectRoot())).Read(o.File)
			if err != nil {
				return err
			}
			if o.Limit > 0 && len(entries) > o.Limit {
				entries = entries[len(entries)-o.Limit:]
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries.")
				return nil
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s\t%s\t%s", e.Timestamp, e.Event, e.File)
				if e.Identity != "" {
					line += "\tby " + e.Identity
				}
				if e.Detail != "" {
					line += "\t" + e.Detail
				}
				if e.Source != nil {
					line += fmt.Sprintf("\t[%s %s]", e.Source.SourceType, e.Source.SourceID)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}
