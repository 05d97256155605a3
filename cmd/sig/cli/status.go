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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/store"
	"github.com/disreguard/sig/pkg/verify"
)

// List creates the list subcommand, printing every stored signature.
func List() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all signed artifacts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigs, err := store.NewFileStore(config.SigDir(projectRoot())).List()
			if err != nil {
				return err
			}
			if len(sigs) == 0 {
				fmt.Println("No signatures found.")
				return nil
			}
			for _, sig := range sigs {
				fmt.Printf("%s\t%s\t%s\t%s\n", sig.File, sig.Hash, sig.SignedBy, sig.SignedAt)
			}
			return nil
		},
	}
}

// expectedUnsigned walks the project for files matched by the sign.include
// globs (minus sign.exclude) that carry no signature. Globs match the
// slash-relative path; the .sig directory is never considered.
func expectedUnsigned(root string, cfg config.Config, signed map[string]bool) ([]string, error) {
	if cfg.Sign == nil || len(cfg.Sign.Include) == 0 {
		return nil, nil
	}

	matchAny := func(patterns []string, rel string) bool {
		for _, pat := range patterns {
			if ok, err := filepath.Match(pat, rel); err == nil && ok {
				return true
			}
			// Also try matching the base name so "*.md" covers subdirectories.
			if ok, err := filepath.Match(pat, filepath.Base(rel)); err == nil && ok {
				return true
			}
		}
		return false
	}

	var unsigned []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == config.DirName || strings.HasPrefix(rel, config.DirName+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if signed[rel] || !matchAny(cfg.Sign.Include, rel) || matchAny(cfg.Sign.Exclude, rel) {
			return nil
		}
		unsigned = append(unsigned, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning project files: %w", err)
	}
	return unsigned, nil
}

// Status creates the status subcommand: a per-artifact status table with a
// summary line, covering every signed artifact and every file the sign
// configuration expects to be signed.
func Status() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the status of all signed artifacts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := projectRoot()
			results, err := verify.CheckAll(root)
			if err != nil {
				return err
			}

			counts := map[verify.Status]int{}
			signed := map[string]bool{}
			for _, res := range results {
				counts[res.Status]++
				signed[res.File] = true
				fmt.Printf("%s\t%s\n", res.Status, res.File)
			}

			// Project files covered by sign.include but never signed.
			unsigned, err := expectedUnsigned(root, config.Load(root), signed)
			if err != nil {
				return err
			}
			for _, file := range unsigned {
				fmt.Printf("%s\t%s\n", verify.StatusUnsigned, file)
			}

			if len(results)+len(unsigned) == 0 {
				fmt.Println("No signatures found.")
				return nil
			}
			fmt.Printf("\n%d signed, %d modified, %d corrupted, %d unsigned\n",
				counts[verify.StatusSigned], counts[verify.StatusModified],
				counts[verify.StatusCorrupted], len(unsigned))

			if counts[verify.StatusModified]+counts[verify.StatusCorrupted] > 0 {
				return fmt.Errorf("project has unverifiable artifacts")
			}
			return nil
		},
	}
}
