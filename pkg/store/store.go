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

// Package store persists artifact signatures together with the exact signed
// content bytes. Each artifact is two linked records: the signature metadata
// and the byte sequence the digest was computed over. Retrieval returns the
// content that was signed, never a live copy of the artifact, so verification
// always compares "what changed" against "what was attested".
//
// Loads are tri-state: a record can be found, absent, or corrupted. Callers
// must be able to tell "never signed" apart from "signed then
// tampered/corrupted", so a parse failure is never reported as absence.
package store

import "github.com/disreguard/sig/pkg/signature"

// State classifies the outcome of loading a signature record.
type State int

const (
	// StateFound means the record exists and parsed as valid metadata.
	StateFound State = iota
	// StateNotFound means no record exists for the artifact.
	StateNotFound
	// StateCorrupted means a record exists but failed to parse as valid
	// signature metadata.
	StateCorrupted
)

// String returns the string representation of a load state.
func (s State) String() string {
	switch s {
	case StateFound:
		return "found"
	case StateNotFound:
		return "not-found"
	case StateCorrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// LoadResult is the tri-state result of loading a signature record.
// Signature is non-nil exactly when State is StateFound.
type LoadResult struct {
	Signature *signature.Signature
	State     State
}

// Store is a keyed store of (signature, signed content) pairs, addressed by
// artifact path. Implementations must validate identifiers before any path
// construction and must never let an identifier escape the storage root.
//
// FileStore is the production implementation; MemStore is an in-memory
// double for tests and embedding.
type Store interface {
	// Put persists the signature metadata and the exact signed bytes as two
	// linked records, overwriting any previous head.
	Put(sig *signature.Signature, content []byte) error
	// Load retrieves the signature record for the artifact.
	Load(file string) (LoadResult, error)
	// LoadContent retrieves the exact bytes that were signed. The boolean is
	// false when no content record exists.
	LoadContent(file string) ([]byte, bool, error)
	// Delete removes both records. Deleting an absent artifact is not an
	// error. This is the unauthenticated administrative delete; it does not
	// pass through the authorization gate.
	Delete(file string) error
	// List returns all valid signature records in the store.
	List() ([]signature.Signature, error)
}
