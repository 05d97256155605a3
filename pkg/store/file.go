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
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disreguard/sig/pkg/signature"
)

const (
	// SigsDir is the subdirectory of the .sig directory holding records.
	SigsDir = "sigs"
	// MetaExt is the extension of signature metadata files.
	MetaExt = ".sig.json"
	// ContentExt is the extension of signed content files.
	ContentExt = ".sig.content"
)

var _ Store = (*FileStore)(nil)

// FileStore is the file-backed signature store. Records live under
// <sigDir>/sigs/: for artifact path p, metadata is at p + ".sig.json" and
// the signed bytes at p + ".sig.content". The layout is an on-disk contract
// shared with other implementations and must not change.
type FileStore struct {
	sigDir string
}

// NewFileStore creates a store rooted at the given .sig directory.
func NewFileStore(sigDir string) *FileStore {
	return &FileStore{sigDir: sigDir}
}

func (s *FileStore) metaPath(file string) string {
	return filepath.Join(s.sigDir, SigsDir, filepath.FromSlash(file)+MetaExt)
}

func (s *FileStore) contentPath(file string) string {
	return filepath.Join(s.sigDir, SigsDir, filepath.FromSlash(file)+ContentExt)
}

// Put writes the metadata and content records, creating parent directories
// as needed.
func (s *FileStore) Put(sig *signature.Signature, content []byte) error {
	if err := ValidateArtifactPath(sig.File); err != nil {
		return err
	}

	meta, err := signature.MarshalRecord(sig)
	if err != nil {
		return fmt.Errorf("encoding signature for %s: %w", sig.File, err)
	}

	metaPath := s.metaPath(sig.File)
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("creating signature directory: %w", err)
	}
	if err := os.WriteFile(metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("writing signature for %s: %w", sig.File, err)
	}
	if err := os.WriteFile(s.contentPath(sig.File), content, 0o644); err != nil {
		return fmt.Errorf("writing signed content for %s: %w", sig.File, err)
	}
	return nil
}

// Load reads the metadata record. A missing file yields StateNotFound; a
// file that does not parse as valid signature metadata yields StateCorrupted.
func (s *FileStore) Load(file string) (LoadResult, error) {
	if err := ValidateArtifactPath(file); err != nil {
		return LoadResult{}, err
	}

	raw, err := os.ReadFile(s.metaPath(file))
	if err != nil {
		return LoadResult{State: StateNotFound}, nil
	}

	sig, ok := decodeSignature(raw)
	if !ok {
		return LoadResult{State: StateCorrupted}, nil
	}
	return LoadResult{Signature: sig, State: StateFound}, nil
}

// LoadContent reads the exact signed bytes.
func (s *FileStore) LoadContent(file string) ([]byte, bool, error) {
	if err := ValidateArtifactPath(file); err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(s.contentPath(file))
	if err != nil {
		return nil, false, nil
	}
	return raw, true, nil
}

// Delete removes both records, ignoring missing files.
func (s *FileStore) Delete(file string) error {
	if err := ValidateArtifactPath(file); err != nil {
		return err
	}
	for _, p := range []string{s.metaPath(file), s.contentPath(file)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting %s: %w", p, err)
		}
	}
	return nil
}

// List walks the sigs directory and returns every record that parses as
// valid metadata. Corrupted records are skipped; use Load to detect them
// individually.
func (s *FileStore) List() ([]signature.Signature, error) {
	root := filepath.Join(s.sigDir, SigsDir)
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var sigs []signature.Signature
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), MetaExt) {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if sig, ok := decodeSignature(raw); ok {
			sigs = append(sigs, *sig)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing signatures: %w", err)
	}
	return sigs, nil
}

// decodeSignature parses raw metadata bytes, requiring the fields every
// valid record carries. Unknown extra fields are tolerated for forward
// compatibility.
func decodeSignature(raw []byte) (*signature.Signature, bool) {
	var sig signature.Signature
	if err := json.Unmarshal(raw, &sig); err != nil {
		return nil, false
	}
	if sig.File == "" || sig.Hash == "" || sig.Algorithm == "" ||
		sig.SignedBy == "" || sig.SignedAt == "" {
		return nil, false
	}
	return &sig, true
}
