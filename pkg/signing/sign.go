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

// Package signing issues signatures for project artifacts. Signing reads
// the artifact's current bytes, computes the digest, and commits the
// signature together with those exact bytes as the artifact's head.
package signing

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/signature"
	"github.com/disreguard/sig/pkg/store"
	"github.com/disreguard/sig/pkg/tracing"
)

// Options parameterizes a sign operation. All fields are optional.
type Options struct {
	// Identity overrides the configured and OS-derived signer identity.
	Identity string
	// Engine overrides the configured template engine tag.
	Engine string
	// Algorithm overrides the configured hash algorithm.
	Algorithm string
}

// SignFile signs the artifact at filePath (relative to projectRoot) and
// returns the issued signature. The digest is computed over the artifact's
// exact current bytes, which are stored alongside the signature.
func SignFile(ctx context.Context, projectRoot, filePath string, opts Options) (*signature.Signature, error) {
	var sig *signature.Signature
	err := tracing.Run(ctx, "sig.sign", map[string]interface{}{"file": filePath},
		func(ctx context.Context) error {
			var err error
			sig, err = signFile(projectRoot, filePath, opts)
			return err
		})
	return sig, err
}

func signFile(projectRoot, filePath string, opts Options) (*signature.Signature, error) {
	rel, err := store.ResolveContained(projectRoot, filePath)
	if err != nil {
		return nil, err
	}
	cfg := config.Load(projectRoot)
	sigDir := config.SigDir(projectRoot)

	content, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = cfg.DefaultAlgorithm()
	}
	if algorithm == "" {
		algorithm = hashing.DefaultAlgorithm
	}
	digest, err := hashing.Sum(algorithm, content)
	if err != nil {
		return nil, err
	}

	identity := opts.Identity
	if identity == "" {
		identity = cfg.DefaultIdentity()
	}
	if identity == "" {
		identity = OSIdentity()
	}

	engine := opts.Engine
	if engine == "" {
		if names := cfg.EngineNames(""); len(names) > 0 {
			engine = names[0]
		}
	}

	sig := &signature.Signature{
		File:           rel,
		Hash:           digest.String(),
		Algorithm:      digest.Algorithm(),
		SignedBy:       identity,
		SignedAt:       signature.Now(),
		ContentLength:  len(content),
		TemplateEngine: engine,
	}

	if err := store.NewFileStore(sigDir).Put(sig, content); err != nil {
		return nil, err
	}

	_ = audit.NewLog(sigDir).Append(audit.Entry{
		Event:    audit.EventSign,
		File:     rel,
		Hash:     sig.Hash,
		Identity: sig.SignedBy,
	})
	return sig, nil
}

// Unsign removes the artifact's signature and stored content. This is the
// explicit administrative delete: it bypasses the authorization gate and is
// not itself authenticated.
func Unsign(projectRoot, filePath string) error {
	rel, err := store.ResolveContained(projectRoot, filePath)
	if err != nil {
		return err
	}
	return store.NewFileStore(config.SigDir(projectRoot)).Delete(rel)
}

// OSIdentity returns the signing identity derived from the operating system:
// the current user's name, falling back to $USER, $USERNAME, and finally
// "unknown".
func OSIdentity() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "unknown"
}
