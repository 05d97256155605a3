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

package store

import (
	"sort"
	"sync"

	"github.com/disreguard/sig/pkg/signature"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store. It applies the same identifier validation
// as FileStore so tests exercise the same error paths, and it is safe for
// concurrent use within one process.
type MemStore struct {
	mu       sync.RWMutex
	sigs     map[string]signature.Signature
	contents map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		sigs:     map[string]signature.Signature{},
		contents: map[string][]byte{},
	}
}

// Put stores the signature and content under the artifact path.
func (s *MemStore) Put(sig *signature.Signature, content []byte) error {
	if err := ValidateArtifactPath(sig.File); err != nil {
		return err
	}
	c := make([]byte, len(content))
	copy(c, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigs[sig.File] = *sig
	s.contents[sig.File] = c
	return nil
}

// Load retrieves the signature record. MemStore records cannot corrupt, so
// the result is found or not-found.
func (s *MemStore) Load(file string) (LoadResult, error) {
	if err := ValidateArtifactPath(file); err != nil {
		return LoadResult{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.sigs[file]
	if !ok {
		return LoadResult{State: StateNotFound}, nil
	}
	return LoadResult{Signature: &sig, State: StateFound}, nil
}

// LoadContent retrieves the stored content bytes.
func (s *MemStore) LoadContent(file string) ([]byte, bool, error) {
	if err := ValidateArtifactPath(file); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contents[file]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(c))
	copy(out, c)
	return out, true, nil
}

// Delete removes both records.
func (s *MemStore) Delete(file string) error {
	if err := ValidateArtifactPath(file); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sigs, file)
	delete(s.contents, file)
	return nil
}

// List returns all records sorted by artifact path.
func (s *MemStore) List() ([]signature.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sigs := make([]signature.Signature, 0, len(s.sigs))
	for _, sig := range s.sigs {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].File < sigs[j].File })
	return sigs, nil
}
