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

// Package verify confirms that an artifact's current bytes still match its
// committed signature. Integrity failures (missing signature, corrupted
// record, digest mismatch) are reported as structured results, never as
// errors, so call sites can branch on them; every verification writes an
// audit record.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/chain"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/signature"
	"github.com/disreguard/sig/pkg/store"
	"github.com/disreguard/sig/pkg/templates"
	"github.com/disreguard/sig/pkg/tracing"
)

// Failure messages surfaced in Result.Err. Part of the caller-visible
// contract.
const (
	ErrNoSignature = "No signature found"
	ErrCorrupted   = "Signature file is corrupted or tampered with"
	ErrFileMissing = "File not found"
	ErrModified    = "Content has been modified since signing"
)

// Result is the outcome of verifying one artifact.
type Result struct {
	Verified bool   `json:"verified"`
	File     string `json:"file"`
	// Template is the authenticated signed content, returned only when
	// verification succeeds.
	Template string `json:"template,omitempty"`
	// Hash is the digest of the artifact's current bytes.
	Hash         string         `json:"hash,omitempty"`
	SignedBy     string         `json:"signedBy,omitempty"`
	SignedAt     string         `json:"signedAt,omitempty"`
	Err          string         `json:"error,omitempty"`
	Placeholders []string       `json:"placeholders,omitempty"`
	Chain        *chain.Summary `json:"chain,omitempty"`
}

// Status classifies an artifact's signing state.
type Status string

const (
	StatusSigned    Status = "signed"
	StatusModified  Status = "modified"
	StatusUnsigned  Status = "unsigned"
	StatusCorrupted Status = "corrupted"
)

// CheckResult is the outcome of a status check. Unlike File, Check writes
// no audit records.
type CheckResult struct {
	File      string               `json:"file"`
	Status    Status               `json:"status"`
	Signature *signature.Signature `json:"signature,omitempty"`
}

// File verifies the artifact at filePath against its committed signature.
// The error return is reserved for structural problems (paths escaping the
// project root); all verification outcomes land in the Result.
func File(ctx context.Context, projectRoot, filePath string) (Result, error) {
	var result Result
	err := tracing.Run(ctx, "sig.verify", map[string]interface{}{"file": filePath},
		func(ctx context.Context) error {
			var err error
			result, err = verifyFile(projectRoot, filePath)
			return err
		})
	return result, err
}

func verifyFile(projectRoot, filePath string) (Result, error) {
	rel, err := store.ResolveContained(projectRoot, filePath)
	if err != nil {
		return Result{}, err
	}
	cfg := config.Load(projectRoot)
	sigDir := config.SigDir(projectRoot)
	st := store.NewFileStore(sigDir)
	log := audit.NewLog(sigDir)

	loaded, err := st.Load(rel)
	if err != nil {
		return Result{}, err
	}
	if loaded.State != store.StateFound {
		detail := ErrNoSignature
		if loaded.State == store.StateCorrupted {
			detail = ErrCorrupted
		}
		_ = log.Append(audit.Entry{Event: audit.EventVerifyFail, File: rel, Detail: detail})
		return Result{File: rel, Err: detail}, nil
	}
	sig := loaded.Signature

	current, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(rel)))
	if err != nil {
		_ = log.Append(audit.Entry{Event: audit.EventVerifyFail, File: rel, Detail: ErrFileMissing})
		return Result{File: rel, Err: ErrFileMissing}, nil
	}

	currentHash, err := hashing.Sum(sig.Algorithm, current)
	if err != nil {
		return Result{}, fmt.Errorf("verifying %s: %w", rel, err)
	}
	verified := currentHash.String() == sig.Hash

	if verified {
		_ = log.Append(audit.Entry{Event: audit.EventVerify, File: rel, Hash: currentHash.String()})
	} else {
		_ = log.Append(audit.Entry{
			Event:  audit.EventVerifyFail,
			File:   rel,
			Hash:   currentHash.String(),
			Detail: fmt.Sprintf("Expected %s, got %s", sig.Hash, currentHash.String()),
		})
	}

	result := Result{
		Verified: verified,
		File:     rel,
		Hash:     currentHash.String(),
		SignedBy: sig.SignedBy,
		SignedAt: sig.SignedAt,
	}
	if !verified {
		result.Err = ErrModified
		return result, nil
	}

	// Return the attested bytes, not the live copy, even though they are
	// equal here: callers treat Template as the authenticated content.
	if stored, ok, _ := st.LoadContent(rel); ok {
		result.Template = string(stored)
	} else {
		result.Template = string(current)
	}

	if engines := cfg.EngineNames(sig.TemplateEngine); len(engines) > 0 {
		if found := templates.ExtractPlaceholders(result.Template, engines, cfg.CustomPatterns()); len(found) > 0 {
			result.Placeholders = found
		}
	}

	if summary, err := chain.NewLedger(sigDir).Summarize(rel); err == nil && summary != nil {
		result.Chain = summary
	}
	return result, nil
}

// Check reports the artifact's signing status without auditing: signed,
// modified, unsigned, or corrupted.
func Check(projectRoot, filePath string) (CheckResult, error) {
	rel, err := store.ResolveContained(projectRoot, filePath)
	if err != nil {
		return CheckResult{}, err
	}
	st := store.NewFileStore(config.SigDir(projectRoot))

	loaded, err := st.Load(rel)
	if err != nil {
		return CheckResult{}, err
	}
	switch loaded.State {
	case store.StateNotFound:
		return CheckResult{File: rel, Status: StatusUnsigned}, nil
	case store.StateCorrupted:
		return CheckResult{File: rel, Status: StatusCorrupted}, nil
	}
	sig := loaded.Signature

	current, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(rel)))
	if err != nil {
		return CheckResult{File: rel, Status: StatusModified, Signature: sig}, nil
	}
	currentHash, err := hashing.Sum(sig.Algorithm, current)
	if err != nil || currentHash.String() != sig.Hash {
		return CheckResult{File: rel, Status: StatusModified, Signature: sig}, nil
	}
	return CheckResult{File: rel, Status: StatusSigned, Signature: sig}, nil
}

// CheckAll checks every signed artifact in the project.
func CheckAll(projectRoot string) ([]CheckResult, error) {
	sigs, err := store.NewFileStore(config.SigDir(projectRoot)).List()
	if err != nil {
		return nil, err
	}
	results := make([]CheckResult, 0, len(sigs))
	for _, sig := range sigs {
		r, err := Check(projectRoot, sig.File)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
