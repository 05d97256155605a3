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

// SignOptions defines flags for the sign command.
type SignOptions struct {
	// Identity overrides the configured and OS-derived signer identity.
	Identity string
	// Engine tags the signature with a template engine name.
	Engine string
	// Algorithm overrides the configured hash algorithm.
	Algorithm string
}

var _ FlagAdder = (*SignOptions)(nil)

// AddFlags adds signing flags to the cobra command.
func (o *SignOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Identity, "identity", "",
		"signer identity (default: configured identity, then OS user)")
	cmd.Flags().StringVar(&o.Engine, "engine", "",
		"template engine to tag the signature with (e.g. jinja, mustache)")
	cmd.Flags().StringVar(&o.Algorithm, "algorithm", "",
		"hash algorithm (sha256, blake2b; default sha256)")
}

// InitOptions defines flags for the init command.
type InitOptions struct {
	// Engines lists the template engines to configure.
	Engines []string
	// Identity sets the default signing identity in the configuration.
	Identity string
}

var _ FlagAdder = (*InitOptions)(nil)

// AddFlags adds init flags to the cobra command.
func (o *InitOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.Engines, "engine", nil,
		"template engine(s) to configure (repeatable)")
	cmd.Flags().StringVar(&o.Identity, "identity", "",
		"default signing identity to record in the configuration")
}
