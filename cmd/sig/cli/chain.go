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
	"github.com/disreguard/sig/pkg/chain"
	"github.com/disreguard/sig/pkg/config"
)

// Chain creates the chain subcommand, printing an artifact's update chain
// and optionally validating its hash links.
func Chain() *cobra.Command {
	o := &options.ChainOptions{}

	cmd := &cobra.Command{
		Use:   "chain FILE",
		Short: "Show an artifact's update chain.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger := chain.NewLedger(config.SigDir(projectRoot()))

			entries, err := ledger.ReadAll(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Printf("No updates recorded for %s\n", args[0])
				return nil
			}

			for i, e := range entries {
				fmt.Printf("%d\t%s\t%s -> %s\tby %s\t%s: %s\n",
					i, e.Timestamp, e.PreviousHash, e.Hash, e.UpdatedBy,
					e.Source.SourceType, e.Source.Reason)
			}

			if o.Validate {
				v, err := ledger.Validate(args[0])
				if err != nil {
					return err
				}
				if !v.Valid {
					return fmt.Errorf("chain broken at entry %d: %s (want %s, got %s)",
						v.Index, v.Error, v.Want, v.Got)
				}
				fmt.Printf("Chain valid (%d entries)\n", v.Length)
			}
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}
