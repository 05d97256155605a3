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

package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/signature"
	"github.com/disreguard/sig/pkg/store"
)

const (
	// ContentDir is the subdirectory of the .sig directory holding persisted
	// content signatures.
	ContentDir = "content"
	metaExt    = ".sig.json"
	contentExt = ".sig.content"
)

// PersistentStore keeps content signatures on disk under .sig/content/,
// keyed by validated identifiers. Unlike the in-memory Store, its signature
// and content are separate records that can individually be lost or
// corrupted, so Verify distinguishes all three failure modes.
type PersistentStore struct {
	sigDir string
	// defaultIdentity is the configured fallback signing identity; may be
	// empty.
	defaultIdentity string
	log             *audit.Log
}

// PersistentStoreOptions configures a PersistentStore.
type PersistentStoreOptions struct {
	// DefaultIdentity is consulted when a sign call carries no identity,
	// before falling back to the environment.
	DefaultIdentity string
}

// NewPersistentStore creates a store rooted at the given .sig directory.
func NewPersistentStore(sigDir string, opts PersistentStoreOptions) *PersistentStore {
	return &PersistentStore{
		sigDir:          sigDir,
		defaultIdentity: opts.DefaultIdentity,
		log:             audit.NewLog(sigDir),
	}
}

// DefaultIdentity resolves the identity used when the caller supplies none:
// the configured default, then $USER, then $USERNAME, then "unknown".
func (s *PersistentStore) DefaultIdentity() string {
	if s.defaultIdentity != "" {
		return s.defaultIdentity
	}
	return EnvIdentity()
}

// EnvIdentity returns the identity implied by the environment, or the
// "unknown" sentinel.
func EnvIdentity() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "unknown"
}

func (s *PersistentStore) metaPath(id string) string {
	return filepath.Join(s.sigDir, ContentDir, id+metaExt)
}

func (s *PersistentStore) contentPath(id string) string {
	return filepath.Join(s.sigDir, ContentDir, id+contentExt)
}

// auditFile is the artifact name content events are logged under.
func auditFile(id string) string {
	return "content:" + id
}

// Sign signs content under the options' id and persists both records,
// overwriting any previous signature.
func (s *PersistentStore) Sign(content string, opts SignOptions) (signature.ContentSignature, error) {
	if err := store.ValidateContentID(opts.ID); err != nil {
		return signature.ContentSignature{}, err
	}
	if opts.Identity == "" {
		opts.Identity = s.DefaultIdentity()
	}
	sig := Sign(content, opts)

	meta, err := signature.MarshalRecord(sig)
	if err != nil {
		return signature.ContentSignature{}, fmt.Errorf("encoding content signature %s: %w", opts.ID, err)
	}
	if err := os.MkdirAll(filepath.Join(s.sigDir, ContentDir), 0o755); err != nil {
		return signature.ContentSignature{}, fmt.Errorf("creating content directory: %w", err)
	}
	if err := os.WriteFile(s.metaPath(opts.ID), meta, 0o644); err != nil {
		return signature.ContentSignature{}, fmt.Errorf("writing content signature %s: %w", opts.ID, err)
	}
	if err := os.WriteFile(s.contentPath(opts.ID), []byte(content), 0o644); err != nil {
		return signature.ContentSignature{}, fmt.Errorf("writing content %s: %w", opts.ID, err)
	}

	_ = s.log.Append(audit.Entry{
		Event:    audit.EventSign,
		File:     auditFile(opts.ID),
		Hash:     sig.Hash,
		Identity: sig.SignedBy,
	})
	return sig, nil
}

// SignIfChanged re-signs only when the proposed content's digest differs
// from the existing signature's digest. When equal, the existing signature
// is returned unchanged (original timestamp preserved), making repeated
// re-submission of identical content idempotent.
func (s *PersistentStore) SignIfChanged(content string, opts SignOptions) (signature.ContentSignature, error) {
	if err := store.ValidateContentID(opts.ID); err != nil {
		return signature.ContentSignature{}, err
	}

	existing := s.Load(opts.ID)
	if existing != nil && existing.Hash == hashing.SumSHA256([]byte(content)).String() {
		// The content record may have been lost independently; restore it.
		if _, ok := s.LoadContent(opts.ID); !ok {
			if err := os.MkdirAll(filepath.Join(s.sigDir, ContentDir), 0o755); err != nil {
				return signature.ContentSignature{}, fmt.Errorf("creating content directory: %w", err)
			}
			if err := os.WriteFile(s.contentPath(opts.ID), []byte(content), 0o644); err != nil {
				return signature.ContentSignature{}, fmt.Errorf("restoring content %s: %w", opts.ID, err)
			}
		}
		return *existing, nil
	}
	return s.Sign(content, opts)
}

// Verify checks the stored content for id against its stored signature,
// logging the outcome. Failure reasons distinguish a missing signature, a
// missing content record, and a digest mismatch.
func (s *PersistentStore) Verify(id string) VerifyResult {
	if err := store.ValidateContentID(id); err != nil {
		return VerifyResult{ID: id, Err: err.Error()}
	}

	sig := s.Load(id)
	if sig == nil {
		s.logVerifyFail(id, ErrNoSignature)
		return VerifyResult{ID: id, Err: ErrNoSignature}
	}
	content, ok := s.LoadContent(id)
	if !ok {
		s.logVerifyFail(id, ErrNoContent)
		return VerifyResult{ID: id, Err: ErrNoContent}
	}
	if !Matches(content, sig) {
		s.logVerifyFail(id, ErrMismatch)
		return VerifyResult{ID: id, Err: ErrMismatch}
	}

	_ = s.log.Append(audit.Entry{
		Event: audit.EventVerify,
		File:  auditFile(id),
		Hash:  sig.Hash,
	})
	return VerifyResult{Verified: true, ID: id, Content: content, Signature: sig}
}

func (s *PersistentStore) logVerifyFail(id, reason string) {
	_ = s.log.Append(audit.Entry{
		Event:  audit.EventVerifyFail,
		File:   auditFile(id),
		Detail: reason,
	})
}

// Load returns the stored signature for id, or nil when it is missing or
// does not parse as a valid record.
func (s *PersistentStore) Load(id string) *signature.ContentSignature {
	if store.ValidateContentID(id) != nil {
		return nil
	}
	raw, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		return nil
	}
	var sig signature.ContentSignature
	if err := json.Unmarshal(raw, &sig); err != nil {
		return nil
	}
	if sig.ID == "" || sig.Hash == "" || sig.SignedBy == "" || sig.SignedAt == "" {
		return nil
	}
	return &sig
}

// LoadContent returns the stored content bytes for id as a string.
func (s *PersistentStore) LoadContent(id string) (string, bool) {
	if store.ValidateContentID(id) != nil {
		return "", false
	}
	raw, err := os.ReadFile(s.contentPath(id))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// Delete removes both records for id, reporting whether a signature existed.
func (s *PersistentStore) Delete(id string) (bool, error) {
	if err := store.ValidateContentID(id); err != nil {
		return false, err
	}
	had := s.Has(id)
	for _, p := range []string{s.metaPath(id), s.contentPath(id)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return had, fmt.Errorf("deleting %s: %w", p, err)
		}
	}
	return had, nil
}

// List returns all valid persisted content signatures.
func (s *PersistentStore) List() []signature.ContentSignature {
	entries, err := os.ReadDir(filepath.Join(s.sigDir, ContentDir))
	if err != nil {
		return nil
	}

	var sigs []signature.ContentSignature
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metaExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), metaExt)
		if sig := s.Load(id); sig != nil {
			sigs = append(sigs, *sig)
		}
	}
	return sigs
}

// Has reports whether a signature record exists for id.
func (s *PersistentStore) Has(id string) bool {
	if store.ValidateContentID(id) != nil {
		return false
	}
	_, err := os.Stat(s.metaPath(id))
	return err == nil
}
