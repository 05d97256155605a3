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

// Package content signs and verifies ephemeral, session-held content such
// as inbound messages. Signed messages later serve as provenance evidence
// for gated artifact updates.
//
// The in-memory Store holds signatures for the life of the process; the
// PersistentStore keeps them under .sig/content/ until explicitly deleted.
package content

import (
	"sync"

	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/signature"
)

// SignOptions parameterizes signing a piece of ephemeral content.
type SignOptions struct {
	// ID is the caller-supplied identifier the signature is keyed by.
	ID string
	// Identity is the signer identity recorded in the signature.
	Identity string
	// Metadata carries free-form string metadata (channel, sender, etc.).
	Metadata map[string]string
}

// VerifyResult is the structured outcome of verifying content by id.
// Failures are distinguishable by Err: "no signature for id" versus "stored
// content no longer matches its own signature".
type VerifyResult struct {
	Verified  bool                        `json:"verified"`
	ID        string                      `json:"id"`
	Content   string                      `json:"content,omitempty"`
	Signature *signature.ContentSignature `json:"signature,omitempty"`
	Err       string                      `json:"error,omitempty"`
}

// Verification failure reasons. Part of the caller-visible contract: the
// pipeline and protocol adapters branch on them.
const (
	ErrNoSignature = "No signature found for id"
	ErrNoContent   = "No content found for id"
	ErrMismatch    = "Content hash mismatch"
)

// Sign computes a ContentSignature over content. Stateless: the caller is
// responsible for storing the signature.
func Sign(content string, opts SignOptions) signature.ContentSignature {
	d := hashing.SumSHA256([]byte(content))
	return signature.ContentSignature{
		ID:            opts.ID,
		Hash:          d.String(),
		Algorithm:     d.Algorithm(),
		SignedBy:      opts.Identity,
		SignedAt:      signature.Now(),
		ContentLength: len(content),
		Metadata:      opts.Metadata,
	}
}

// Matches reports whether content still matches its signature's digest.
func Matches(content string, sig *signature.ContentSignature) bool {
	want, err := hashing.ParseDigest(sig.Hash)
	if err != nil {
		return false
	}
	got, err := hashing.Sum(want.Algorithm(), []byte(content))
	if err != nil {
		return false
	}
	return got.Equal(want)
}

// Store is the in-memory registry of signed session content. Signing
// overwrites any prior signature and content under the same id (last writer
// wins within a session). Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sigs     map[string]signature.ContentSignature
	contents map[string]string
}

// NewStore creates an empty session-scoped content store.
func NewStore() *Store {
	return &Store{
		sigs:     map[string]signature.ContentSignature{},
		contents: map[string]string{},
	}
}

// Sign signs content and stores both the signature and the content.
func (s *Store) Sign(content string, opts SignOptions) signature.ContentSignature {
	sig := Sign(content, opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigs[opts.ID] = sig
	s.contents[opts.ID] = content
	return sig
}

// Verify checks the stored content for id against its stored signature and
// returns both on success. The two failure modes (no signature, stored
// content mismatch) are reported distinctly; the mismatch case is
// structurally impossible here since Sign sets both records together, but
// the contract covers it for the persisted variant.
func (s *Store) Verify(id string) VerifyResult {
	s.mu.RLock()
	sig, haveSig := s.sigs[id]
	content, haveContent := s.contents[id]
	s.mu.RUnlock()

	if !haveSig {
		return VerifyResult{ID: id, Err: ErrNoSignature}
	}
	if !haveContent {
		return VerifyResult{ID: id, Err: ErrNoContent}
	}
	if !Matches(content, &sig) {
		return VerifyResult{ID: id, Err: ErrMismatch}
	}
	return VerifyResult{Verified: true, ID: id, Content: content, Signature: &sig}
}

// Get returns the signature for id without verifying.
func (s *Store) Get(id string) (signature.ContentSignature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.sigs[id]
	return sig, ok
}

// List returns all stored signatures.
func (s *Store) List() []signature.ContentSignature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]signature.ContentSignature, 0, len(s.sigs))
	for _, sig := range s.sigs {
		out = append(out, sig)
	}
	return out
}

// Delete removes the signature and content for id, reporting whether a
// signature existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, had := s.sigs[id]
	delete(s.sigs, id)
	delete(s.contents, id)
	return had
}

// Clear removes everything.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigs = map[string]signature.ContentSignature{}
	s.contents = map[string]string{}
}

// Has reports whether a signature exists for id.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sigs[id]
	return ok
}

// Size returns the number of stored signatures.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sigs)
}
