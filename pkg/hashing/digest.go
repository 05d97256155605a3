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

// Package hashing computes algorithm-tagged content digests.
//
// A digest is always computed over the exact byte representation of the
// content; identical bytes yield identical digests regardless of caller
// identity or metadata. The string form is "<algorithm>:<lowercase-hex>",
// e.g. "sha256:3a7bd...".
package hashing

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Digest is a computed cryptographic hash paired with its algorithm name.
//
// Digest is effectively immutable: fields are unexported and the raw value
// is defensively copied by the constructor and accessor.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest creates a Digest for the given algorithm name and raw hash bytes.
// The value slice is copied to prevent external mutation.
func NewDigest(algorithm string, value []byte) Digest {
	v := make([]byte, len(value))
	copy(v, value)
	return Digest{algorithm: algorithm, value: v}
}

// Algorithm returns the hash algorithm name, e.g. "sha256".
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	v := make([]byte, len(d.value))
	copy(v, d.value)
	return v
}

// Hex returns the lowercase hexadecimal encoding of the digest bytes.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// String returns the tagged form "<algorithm>:<hex>".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether two digests have the same algorithm and value.
// The value comparison is constant time.
func (d Digest) Equal(other Digest) bool {
	if d.algorithm != other.algorithm || len(d.value) != len(other.value) {
		return false
	}
	return subtle.ConstantTimeCompare(d.value, other.value) == 1
}

// ParseDigest parses a tagged digest string "<algorithm>:<hex>". A string
// without an algorithm tag is interpreted as a bare sha256 hex value, for
// compatibility with records written before digests were tagged.
func ParseDigest(s string) (Digest, error) {
	algorithm := DefaultAlgorithm
	hexVal := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		algorithm = s[:i]
		hexVal = s[i+1:]
	}
	raw, err := hex.DecodeString(hexVal)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	return Digest{algorithm: algorithm, value: raw}, nil
}
