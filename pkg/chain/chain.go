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

// Package chain records the approved mutation history of an artifact as an
// append-only, hash-linked sequence of entries. Entries are never rewritten
// or removed, so corruption is always detectable as a broken link rather
// than silent loss. The ledger stores only approvals; denials go to the
// audit log.
package chain

import "fmt"

// SourceType tags the kind of provenance source backing a mutation. The set
// is closed: the pipeline dispatches over it exhaustively, so adding a kind
// is a compile-visible change rather than an open-ended string branch.
type SourceType string

const (
	// SourceSignedMessage points at a signed ephemeral message held by a
	// content store.
	SourceSignedMessage SourceType = "signed-message"
	// SourceSignedTemplate points at another signed artifact whose own
	// signature must currently verify.
	SourceSignedTemplate SourceType = "signed-template"
)

// Valid reports whether t is one of the defined source kinds.
func (t SourceType) Valid() bool {
	return t == SourceSignedMessage || t == SourceSignedTemplate
}

// Provenance is the caller-asserted justification for a mutation. It is
// never trusted at face value: when a policy requires a signed source, the
// SourceID must independently resolve and verify.
type Provenance struct {
	SourceType SourceType `json:"sourceType"`
	// SourceID names the signed message or artifact backing the claim.
	SourceID string `json:"sourceId,omitempty"`
	// SourceIdentity optionally names who signed the source.
	SourceIdentity string `json:"sourceIdentity,omitempty"`
	// SourceHash optionally pins the digest the claim refers to.
	SourceHash string `json:"sourceHash,omitempty"`
	// Reason is the mandatory human-readable justification.
	Reason string `json:"reason"`
}

// Entry is one committed mutation. For entry i > 0 of a chain,
// PreviousHash must equal entry[i-1].Hash; for entry 0 it equals the digest
// recorded by the most recent prior sign or update.
type Entry struct {
	Timestamp     string     `json:"ts"`
	Hash          string     `json:"hash"`
	PreviousHash  string     `json:"previousHash"`
	UpdatedBy     string     `json:"updatedBy"`
	ContentLength int        `json:"contentLength"`
	Source        Provenance `json:"source"`
}

// Validation is the structured result of validating a chain. Integrity
// failures are reported here, never as errors, so call sites can branch on
// them.
type Validation struct {
	Valid bool `json:"valid"`
	// Length is the number of entries read. For an invalid chain it is the
	// number of entries read up to and including the violating one.
	Length int `json:"length"`
	// Index is the position of the entry whose PreviousHash broke the link,
	// or -1 when the chain is valid.
	Index int `json:"index"`
	// Want is the hash of the preceding entry; Got is the PreviousHash the
	// violating entry actually carries. Both empty when valid.
	Want  string `json:"want,omitempty"`
	Got   string `json:"got,omitempty"`
	Error string `json:"error,omitempty"`
}

// Summary condenses chain state for inclusion in verify results.
type Summary struct {
	Length int    `json:"length"`
	Head   string `json:"head,omitempty"`
	Valid  bool   `json:"valid"`
}

// ValidateEntries checks the hash linkage of entries in insertion order.
// An empty chain is valid with length 0. The walk stops at the first broken
// link and reports its index and both mismatched hashes.
func ValidateEntries(entries []Entry) Validation {
	for i := 1; i < len(entries); i++ {
		if entries[i].PreviousHash != entries[i-1].Hash {
			return Validation{
				Valid:  false,
				Length: i + 1,
				Index:  i,
				Want:   entries[i-1].Hash,
				Got:    entries[i].PreviousHash,
				Error: fmt.Sprintf("broken link at entry %d: previousHash %s does not match %s",
					i, entries[i].PreviousHash, entries[i-1].Hash),
			}
		}
	}
	return Validation{Valid: true, Length: len(entries), Index: -1}
}
