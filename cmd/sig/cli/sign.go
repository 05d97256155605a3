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
	"github.com/disreguard/sig/pkg/signing"
)

// Sign creates the sign subcommand. Each named artifact is hashed and its
// signature committed together with the exact signed bytes.
func Sign() *cobra.Command {
	o := &options.SignOptions{}

	cmd := &cobra.Command{
		Use:   "sign FILE...",
		Short: "Sign one or more project artifacts.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			root := projectRoot()
			logger := ro.NewObservability().Logger
			for _, file := range args {
				sig, err := signing.SignFile(ctx, root, file, signing.Options{
					Identity:  o.Identity,
					Engine:    o.Engine,
					Algorithm: o.Algorithm,
				})
				if err != nil {
					return fmt.Errorf("signing %s: %w", file, err)
				}
				logger.Debug("signed %s as %s", sig.File, sig.SignedBy)
				fmt.Printf("Signed %s (%s)\n", sig.File, sig.Hash)
			}
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// Unsign creates the unsign subcommand: the explicit administrative delete
// of an artifact's signature and stored content.
func Unsign() *cobra.Command {
	return &cobra.Command{
		Use:   "unsign FILE...",
		Short: "Remove an artifact's signature.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot()
			for _, file := range args {
				if err := signing.Unsign(root, file); err != nil {
					return fmt.Errorf("unsigning %s: %w", file, err)
				}
				fmt.Printf("Removed signature for %s\n", file)
			}
			return nil
		},
	}
}
