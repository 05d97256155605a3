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

package hashing

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sort"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// DefaultAlgorithm is the algorithm used when none is configured.
const DefaultAlgorithm = "sha256"

// Engine computes digests for one algorithm. Engines are pure: no I/O, no
// state shared between Sum calls.
type Engine struct {
	name    string
	size    int
	newHash func() hash.Hash
}

// Name returns the algorithm name of the engine.
func (e Engine) Name() string {
	return e.name
}

// Size returns the byte length of digests produced by the engine.
func (e Engine) Size() int {
	return e.size
}

// Sum computes the digest of content.
func (e Engine) Sum(content []byte) Digest {
	h := e.newHash()
	_, _ = h.Write(content)
	return Digest{algorithm: e.name, value: h.Sum(nil)}
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Engine{}
)

func init() {
	MustRegister("sha256", sha256.Size, sha256.New)
	MustRegister("blake2b", blake2b.Size, func() hash.Hash {
		h, err := blake2b.New512(nil)
		if err != nil {
			// Unkeyed construction cannot fail.
			panic(err)
		}
		return h
	})
}

// Register adds a hash engine under the given algorithm name. Registering an
// already-registered or empty name is an error. Names are case-sensitive.
func Register(name string, size int, newHash func() hash.Hash) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" {
		return fmt.Errorf("algorithm name cannot be empty")
	}
	if newHash == nil {
		return fmt.Errorf("hash constructor cannot be nil")
	}
	if _, exists := registry[name]; exists {
		return fmt.Errorf("hash algorithm %q already registered", name)
	}
	registry[name] = Engine{name: name, size: size, newHash: newHash}
	return nil
}

// MustRegister registers a hash engine or panics. For package initialization,
// where a registration failure is a programming error.
func MustRegister(name string, size int, newHash func() hash.Hash) {
	if err := Register(name, size, newHash); err != nil {
		panic(err)
	}
}

// Lookup returns the engine for the given algorithm name.
func Lookup(algorithm string) (Engine, error) {
	registryMu.RLock()
	e, ok := registry[algorithm]
	registryMu.RUnlock()
	if !ok {
		return Engine{}, fmt.Errorf("unsupported hash algorithm %q (supported: %v)",
			algorithm, SupportedAlgorithms())
	}
	return e, nil
}

// Sum computes the digest of content with the named algorithm.
func Sum(algorithm string, content []byte) (Digest, error) {
	e, err := Lookup(algorithm)
	if err != nil {
		return Digest{}, err
	}
	return e.Sum(content), nil
}

// SumSHA256 computes the sha256 digest of content.
func SumSHA256(content []byte) Digest {
	sum := sha256.Sum256(content)
	return Digest{algorithm: "sha256", value: sum[:]}
}

// SupportedAlgorithms returns the registered algorithm names, sorted.
func SupportedAlgorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
