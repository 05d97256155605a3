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
	"strings"

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/pkg/verify"
)

// Verify creates the verify subcommand. Verification is audited; a failed
// verification makes the command fail.
func Verify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE...",
		Short: "Verify artifacts against their signatures.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			root := projectRoot()
			failed := 0
			for _, file := range args {
				res, err := verify.File(ctx, root, file)
				if err != nil {
					return err
				}
				if res.Verified {
					fmt.Printf("OK %s (signed by %s at %s)\n", res.File, res.SignedBy, res.SignedAt)
					if len(res.Placeholders) > 0 {
						fmt.Printf("   placeholders: %s\n", strings.Join(res.Placeholders, ", "))
					}
					if res.Chain != nil {
						fmt.Printf("   chain: %d update(s), head %s\n", res.Chain.Length, res.Chain.Head)
					}
				} else {
					failed++
					fmt.Printf("FAIL %s: %s\n", res.File, res.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed verification", failed, len(args))
			}
			return nil
		},
	}
}

// Check creates the check subcommand: a status probe that writes no audit
// records.
func Check() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Report signing status without auditing.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot()
			for _, file := range args {
				res, err := verify.Check(root, file)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", res.Status, res.File)
			}
			return nil
		},
	}
}
