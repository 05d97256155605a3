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

// Package update is the authorization pipeline gating mutations of signed
// artifacts. A proposed mutation passes through five sequential stages;
// the first failing stage terminates the pipeline with its denial code.
// Only a fully approved mutation moves the artifact's head signature
// forward and appends to its update chain. Every outcome, approval or
// denial, is audit-logged with the attempted provenance.
//
// The pipeline owns no persistent state: it reads from and issues commands
// to the policy resolver, the signature store, the content store, and the
// ledger.
package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/chain"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/content"
	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/policy"
	"github.com/disreguard/sig/pkg/signature"
	"github.com/disreguard/sig/pkg/store"
	"github.com/disreguard/sig/pkg/tracing"
	"github.com/disreguard/sig/pkg/verify"
)

// Reason is a pipeline denial code. The five codes are mutually exclusive:
// the first failing stage determines the code.
type Reason string

const (
	// ReasonNotMutable: the resolved policy has mutable=false.
	ReasonNotMutable Reason = "not_mutable"
	// ReasonNotSigned: the artifact has no existing signature. An artifact
	// must be explicitly signed once, establishing the initial head digest,
	// before it becomes updatable.
	ReasonNotSigned Reason = "not_signed"
	// ReasonUnauthorizedIdentity: the policy's authorizedIdentities set is
	// non-empty and the caller matches none of its patterns.
	ReasonUnauthorizedIdentity Reason = "unauthorized_identity"
	// ReasonUnsignedSource: the policy requires a signed source and the
	// provenance carries no sourceId.
	ReasonUnsignedSource Reason = "unsigned_source"
	// ReasonSourceVerificationFailed: a sourceId was supplied but its
	// independent verification failed.
	ReasonSourceVerificationFailed Reason = "source_verification_failed"
)

// MessageVerifier verifies a signed ephemeral message by id. Both
// content.Store and content.PersistentStore satisfy it.
type MessageVerifier interface {
	Verify(id string) content.VerifyResult
}

// Request is a proposed mutation of a signed artifact.
type Request struct {
	// File is the artifact path relative to the project root.
	File string
	// Content is the proposed new content.
	Content []byte
	// Identity is the identity authorizing the mutation.
	Identity string
	// Provenance asserts why the mutation is justified. Never trusted at
	// face value.
	Provenance chain.Provenance
	// Messages optionally verifies signed-message provenance. A caller
	// operating without a message store can only satisfy signed-template
	// provenance.
	Messages MessageVerifier
}

// Result is the pipeline outcome. Denials are expected, routine outcomes,
// not errors: the error return of UpdateAndSign is reserved for structural
// problems and I/O failures.
type Result struct {
	Approved bool   `json:"approved"`
	File     string `json:"file"`
	// Reason and Message are set on denial.
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	// Hash, PreviousHash and ChainLength are set on approval.
	Hash         string `json:"hash,omitempty"`
	PreviousHash string `json:"previousHash,omitempty"`
	ChainLength  int    `json:"chainLength,omitempty"`
}

// artifactLocks serializes the read-head/authorize/commit sequence per
// artifact within this process, so two concurrent updates cannot both read
// the same head and append conflicting chain entries. Cross-process ordering
// is not guaranteed; Validate detects a chain broken that way after the
// fact.
var artifactLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: map[string]*sync.Mutex{}}

func lockArtifact(key string) func() {
	artifactLocks.mu.Lock()
	l, ok := artifactLocks.m[key]
	if !ok {
		l = &sync.Mutex{}
		artifactLocks.m[key] = l
	}
	artifactLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// UpdateAndSign runs the authorization pipeline for a proposed mutation and,
// on approval, commits it: the new content and signature become the
// artifact's head, a chain entry links the old head digest to the new one,
// and the live artifact file is rewritten. A failed or denied request leaves
// all previously committed state untouched.
func UpdateAndSign(ctx context.Context, projectRoot string, req Request) (Result, error) {
	var result Result
	err := tracing.Run(ctx, "sig.update", map[string]interface{}{"file": req.File},
		func(ctx context.Context) error {
			var err error
			result, err = updateAndSign(ctx, projectRoot, req)
			return err
		})
	return result, err
}

func updateAndSign(ctx context.Context, projectRoot string, req Request) (Result, error) {
	rel, err := store.ResolveContained(projectRoot, req.File)
	if err != nil {
		return Result{}, err
	}
	if req.Provenance.Reason == "" {
		return Result{}, fmt.Errorf("provenance reason is required")
	}

	unlock := lockArtifact(projectRoot + "\x00" + rel)
	defer unlock()

	cfg := config.Load(projectRoot)
	sigDir := config.SigDir(projectRoot)
	st := store.NewFileStore(sigDir)
	ledger := chain.NewLedger(sigDir)
	log := audit.NewLog(sigDir)

	deny := func(reason Reason, message string) (Result, error) {
		_ = log.Append(audit.Entry{
			Event:    audit.EventUpdateDenied,
			File:     rel,
			Identity: req.Identity,
			Detail:   fmt.Sprintf("%s: %s", reason, message),
			Source:   &req.Provenance,
		})
		return Result{File: rel, Reason: reason, Message: message}, nil
	}

	// Stage 1: the artifact must be mutable under policy.
	pol := policy.Resolve(cfg.Files, rel)
	if !pol.Mutable {
		return deny(ReasonNotMutable, fmt.Sprintf("%s is not mutable under policy", rel))
	}

	// Stage 2: the artifact must already have a signed head.
	loaded, err := st.Load(rel)
	if err != nil {
		return Result{}, err
	}
	if loaded.State != store.StateFound {
		return deny(ReasonNotSigned, fmt.Sprintf("%s has no signature; sign it before updating", rel))
	}
	head := loaded.Signature

	// Stage 3: the authorizing identity must match the policy.
	if len(pol.AuthorizedIdentities) > 0 && !policy.MatchesAny(pol.AuthorizedIdentities, req.Identity) {
		return deny(ReasonUnauthorizedIdentity,
			fmt.Sprintf("identity %q is not authorized to update %s", req.Identity, rel))
	}

	// Stages 4 and 5: provenance, when the policy demands a signed source.
	if pol.RequireSignedSource {
		if req.Provenance.SourceID == "" {
			return deny(ReasonUnsignedSource, "policy requires provenance with a signed source")
		}
		if msg, ok := verifySource(ctx, projectRoot, req); !ok {
			return deny(ReasonSourceVerificationFailed, msg)
		}
	}

	// All stages passed: commit.
	digest, err := hashing.Sum(head.Algorithm, req.Content)
	if err != nil {
		return Result{}, err
	}
	now := signature.Now()

	newSig := &signature.Signature{
		File:           rel,
		Hash:           digest.String(),
		Algorithm:      digest.Algorithm(),
		SignedBy:       req.Identity,
		SignedAt:       now,
		ContentLength:  len(req.Content),
		TemplateEngine: head.TemplateEngine,
	}
	if err := st.Put(newSig, req.Content); err != nil {
		return Result{}, err
	}

	livePath := filepath.Join(projectRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(livePath), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(livePath, req.Content, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", rel, err)
	}

	entry := chain.Entry{
		Timestamp:     now,
		Hash:          digest.String(),
		PreviousHash:  head.Hash,
		UpdatedBy:     req.Identity,
		ContentLength: len(req.Content),
		Source:        req.Provenance,
	}
	if err := ledger.Append(rel, entry); err != nil {
		return Result{}, err
	}
	length, err := ledger.Length(rel)
	if err != nil {
		return Result{}, err
	}

	_ = log.Append(audit.Entry{
		Event:    audit.EventUpdate,
		File:     rel,
		Hash:     digest.String(),
		Identity: req.Identity,
		Source:   &req.Provenance,
	})

	return Result{
		Approved:     true,
		File:         rel,
		Hash:         digest.String(),
		PreviousHash: head.Hash,
		ChainLength:  length,
	}, nil
}

// verifySource independently verifies the provenance source. The source
// kinds form a closed set; the switch is exhaustive.
func verifySource(ctx context.Context, projectRoot string, req Request) (string, bool) {
	prov := req.Provenance
	switch prov.SourceType {
	case chain.SourceSignedMessage:
		if req.Messages == nil {
			return "no content store available to verify signed-message source", false
		}
		res := req.Messages.Verify(prov.SourceID)
		if !res.Verified {
			return fmt.Sprintf("source message %q failed verification: %s", prov.SourceID, res.Err), false
		}
		return "", true

	case chain.SourceSignedTemplate:
		res, err := verify.File(ctx, projectRoot, prov.SourceID)
		if err != nil {
			return fmt.Sprintf("source template %q is not a valid artifact path: %v", prov.SourceID, err), false
		}
		if !res.Verified {
			return fmt.Sprintf("source template %q failed verification: %s", prov.SourceID, res.Err), false
		}
		return "", true

	default:
		return fmt.Sprintf("unknown provenance source type %q", prov.SourceType), false
	}
}
