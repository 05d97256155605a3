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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/cmd/sig/cli/options"
	"github.com/disreguard/sig/pkg/chain"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/content"
	"github.com/disreguard/sig/pkg/signing"
	"github.com/disreguard/sig/pkg/update"
)

// Update creates the update subcommand: the gated mutation path. The new
// content comes from --content-file or stdin; the update is committed only
// when every authorization stage passes, and a denial makes the command fail
// with the denial code.
func Update() *cobra.Command {
	o := &options.UpdateOptions{}

	long := `Propose a new version of a signed, mutable artifact.

The proposed content passes through the authorization pipeline: the
artifact must be mutable under policy, already signed, the authorizing
identity must match the policy, and, when the policy demands it, the
provenance source must independently verify. An approved update moves the
artifact's signature forward and appends a linked entry to its update
chain; a denied update changes nothing and is recorded in the audit log.`

	cmd := &cobra.Command{
		Use:   "update [OPTIONS] FILE",
		Short: "Update a signed artifact through the authorization gate.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			newContent, err := readContent(o.ContentFile)
			if err != nil {
				return err
			}

			root := projectRoot()
			cfg := config.Load(root)
			identity := o.Identity
			if identity == "" {
				identity = cfg.DefaultIdentity()
			}
			if identity == "" {
				identity = signing.OSIdentity()
			}

			messages := content.NewPersistentStore(config.SigDir(root),
				content.PersistentStoreOptions{DefaultIdentity: cfg.DefaultIdentity()})

			res, err := update.UpdateAndSign(ctx, root, update.Request{
				File:     args[0],
				Content:  newContent,
				Identity: identity,
				Provenance: chain.Provenance{
					SourceType:     chain.SourceType(o.SourceType),
					SourceID:       o.SourceID,
					SourceIdentity: o.SourceIdentity,
					SourceHash:     o.SourceHash,
					Reason:         o.Reason,
				},
				Messages: messages,
			})
			if err != nil {
				return err
			}

			if !res.Approved {
				fmt.Printf("Denied (%s): %s\n", res.Reason, res.Message)
				return fmt.Errorf("update denied: %s", res.Reason)
			}
			fmt.Printf("Updated %s (%s -> %s), chain length %d\n",
				res.File, res.PreviousHash, res.Hash, res.ChainLength)
			return nil
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// readContent reads the proposed content from a file, or stdin for "-" or
// an empty path.
func readContent(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading content from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content from %s: %w", path, err)
	}
	return data, nil
}
