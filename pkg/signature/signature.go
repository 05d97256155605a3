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

// Package signature defines the signature record types shared by the stores,
// the sign/verify operations, and the authorization pipeline, together with
// their on-disk JSON representation.
//
// The JSON layout (camelCase keys, two-space indentation, trailing newline,
// ISO 8601 millisecond timestamps with a Z suffix) is an interchange contract:
// records written by this package must be readable by any independent
// implementation sharing the same store, and vice versa.
package signature

import (
	"encoding/json"
	"time"
)

// TimeLayout is the timestamp format used in all persisted records:
// UTC ISO 8601 with millisecond precision and a literal Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Now returns the current UTC time formatted with TimeLayout.
func Now() string {
	return FormatTime(time.Now())
}

// FormatTime formats t in UTC with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Signature is the committed fingerprint of a persistent artifact.
//
// The digest in Hash is always computed over the exact byte sequence stored
// alongside the record (the .sig.content file), never over a live copy of
// the artifact.
type Signature struct {
	// File is the artifact path relative to the project root, with forward
	// slashes regardless of platform.
	File string `json:"file"`
	// Hash is the algorithm-tagged digest, e.g. "sha256:3a7bd...".
	Hash string `json:"hash"`
	// Algorithm names the hash algorithm used, e.g. "sha256".
	Algorithm string `json:"algorithm"`
	// SignedBy is the identity string of the signer.
	SignedBy string `json:"signedBy"`
	// SignedAt is the issuance timestamp in TimeLayout format.
	SignedAt string `json:"signedAt"`
	// ContentLength is the signed content's length in bytes. Multi-byte
	// characters count as the bytes they occupy.
	ContentLength int `json:"contentLength"`
	// TemplateEngine optionally tags the template syntax of the artifact.
	TemplateEngine string `json:"templateEngine,omitempty"`
}

// ContentSignature is the Signature shape scoped to ephemeral, session-held
// content (e.g. an inbound message). It is keyed by a caller-supplied
// identifier instead of a file path and carries free-form string metadata.
type ContentSignature struct {
	ID            string            `json:"id"`
	Hash          string            `json:"hash"`
	Algorithm     string            `json:"algorithm"`
	SignedBy      string            `json:"signedBy"`
	SignedAt      string            `json:"signedAt"`
	ContentLength int               `json:"contentLength"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// MarshalRecord serializes v the way all metadata files in the store are
// written: two-space indented JSON with a trailing newline.
func MarshalRecord(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
