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

package options

import (
	"github.com/spf13/cobra"
)

// UpdateOptions defines flags for the update command.
type UpdateOptions struct {
	// ContentFile is the path to read the proposed content from; "-" or
	// empty reads stdin.
	ContentFile string
	// Identity is the identity authorizing the mutation.
	Identity string
	// SourceType is the provenance kind: signed-message or signed-template.
	SourceType string
	// SourceID identifies the provenance source (message id or artifact path).
	SourceID string
	// SourceIdentity is who signed the source.
	SourceIdentity string
	// SourceHash is the digest of the source content.
	SourceHash string
	// Reason is the human-readable justification. Required.
	Reason string
}

var _ FlagAdder = (*UpdateOptions)(nil)

// AddFlags adds update flags to the cobra command.
func (o *UpdateOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ContentFile, "content-file", "",
		"file to read the new content from (default: stdin)")
	cmd.Flags().StringVar(&o.Identity, "by", "",
		"identity authorizing the update (default: configured identity, then OS user)")
	cmd.Flags().StringVar(&o.SourceType, "source-type", "",
		"provenance source kind (signed-message, signed-template)")
	cmd.Flags().StringVar(&o.SourceID, "source-id", "",
		"provenance source id (message id or artifact path)")
	cmd.Flags().StringVar(&o.SourceIdentity, "source-identity", "",
		"identity that signed the provenance source")
	cmd.Flags().StringVar(&o.SourceHash, "source-hash", "",
		"digest of the provenance source content")
	cmd.Flags().StringVar(&o.Reason, "reason", "",
		"justification for the update [required]")
	_ = cmd.MarkFlagRequired("reason")
}

// AuditOptions defines flags for the audit command.
type AuditOptions struct {
	// File filters entries to one artifact.
	File string
	// Limit caps the number of entries shown, newest last. Zero shows all.
	Limit int
}

var _ FlagAdder = (*AuditOptions)(nil)

// AddFlags adds audit flags to the cobra command.
func (o *AuditOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.File, "file", "",
		"only show entries for this artifact")
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 0,
		"show only the most recent N entries")
}

// ChainOptions defines flags for the chain command.
type ChainOptions struct {
	// Validate re-walks the chain and reports the first broken link.
	Validate bool
}

var _ FlagAdder = (*ChainOptions)(nil)

// AddFlags adds chain flags to the cobra command.
func (o *ChainOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Validate, "validate", false,
		"validate the hash links and report the first break")
}
