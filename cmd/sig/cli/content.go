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

	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/content"
)

// Content creates the content subcommand group for persisted ephemeral
// content: signed messages that later serve as provenance sources for
// gated updates.
func Content() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Sign and verify persisted ephemeral content.",
	}
	cmd.AddCommand(contentSign())
	cmd.AddCommand(contentVerify())
	cmd.AddCommand(contentList())
	cmd.AddCommand(contentDelete())
	return cmd
}

// contentStore builds the persistent content store for the current project.
func contentStore() *content.PersistentStore {
	root := projectRoot()
	return content.NewPersistentStore(config.SigDir(root),
		content.PersistentStoreOptions{DefaultIdentity: config.Load(root).DefaultIdentity()})
}

func contentSign() *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "sign ID [CONTENT]",
		Short: "Sign content under an identifier.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body string
			if len(args) == 2 {
				body = args[1]
			} else {
				data, err := readContent("")
				if err != nil {
					return err
				}
				body = string(data)
			}

			sig, err := contentStore().SignIfChanged(body, content.SignOptions{
				ID:       args[0],
				Identity: identity,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Signed %s (%s) by %s\n", sig.ID, sig.Hash, sig.SignedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "",
		"signer identity (default: configured identity, then environment)")
	return cmd
}

func contentVerify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify ID...",
		Short: "Verify stored content against its signature.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := contentStore()
			failed := 0
			for _, id := range args {
				res := st.Verify(id)
				if res.Verified {
					fmt.Printf("OK %s (signed by %s at %s)\n",
						res.ID, res.Signature.SignedBy, res.Signature.SignedAt)
				} else {
					failed++
					fmt.Printf("FAIL %s: %s\n", res.ID, res.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d id(s) failed verification", failed, len(args))
			}
			return nil
		},
	}
}

func contentList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted content signatures.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigs := contentStore().List()
			if len(sigs) == 0 {
				fmt.Println("No content signatures found.")
				return nil
			}
			for _, sig := range sigs {
				fmt.Printf("%s\t%s\t%s\t%s\n", sig.ID, sig.Hash, sig.SignedBy, sig.SignedAt)
			}
			return nil
		},
	}
}

func contentDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete persisted content signatures.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := contentStore()
			for _, id := range args {
				had, err := st.Delete(id)
				if err != nil {
					return err
				}
				if had {
					fmt.Printf("Deleted %s\n", id)
				} else {
					fmt.Printf("No signature for %s\n", id)
				}
			}
			return nil
		},
	}
}
