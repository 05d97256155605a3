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

package chain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disreguard/sig/pkg/store"
)

const (
	// ChainsDir is the subdirectory of the .sig directory holding ledgers.
	ChainsDir = "chains"
	// ChainExt is the extension of per-artifact chain files.
	ChainExt = ".chain.jsonl"
)

// Ledger is the file-backed update-chain ledger. Each artifact's history is
// one JSONL file under <sigDir>/chains/, one entry per line, append-only.
type Ledger struct {
	sigDir string
}

// NewLedger creates a ledger rooted at the given .sig directory.
func NewLedger(sigDir string) *Ledger {
	return &Ledger{sigDir: sigDir}
}

func (l *Ledger) path(file string) string {
	return filepath.Join(l.sigDir, ChainsDir, filepath.FromSlash(file)+ChainExt)
}

// Append appends one entry to the artifact's chain file, creating it (and
// parent directories) on first use.
func (l *Ledger) Append(file string, e Entry) error {
	if err := store.ValidateArtifactPath(file); err != nil {
		return err
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding chain entry for %s: %w", file, err)
	}

	path := l.path(file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chain directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening chain for %s: %w", file, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending chain entry for %s: %w", file, err)
	}
	return nil
}

// ReadAll returns the artifact's entries in insertion order. A missing chain
// file yields an empty chain. A line that fails to parse is an integrity
// error: the chain is unreadable past that point.
func (l *Ledger) ReadAll(file string) ([]Entry, error) {
	if err := store.ValidateArtifactPath(file); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(l.path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading chain for %s: %w", file, err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for i := 0; scanner.Scan(); i++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return entries, fmt.Errorf("corrupted chain entry %d for %s: %w", i, file, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading chain for %s: %w", file, err)
	}
	return entries, nil
}

// Head returns the most recent entry, or nil for an empty chain.
func (l *Ledger) Head(file string) (*Entry, error) {
	entries, err := l.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[len(entries)-1], nil
}

// Length returns the number of entries in the artifact's chain.
func (l *Ledger) Length(file string) (int, error) {
	entries, err := l.ReadAll(file)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Validate checks the artifact's chain linkage. Unparseable entries and
// broken links are reported in the Validation, not as errors; the error
// return is reserved for structural problems (invalid artifact path).
func (l *Ledger) Validate(file string) (Validation, error) {
	if err := store.ValidateArtifactPath(file); err != nil {
		return Validation{}, err
	}

	entries, err := l.ReadAll(file)
	if err != nil {
		return Validation{
			Valid:  false,
			Length: len(entries),
			Index:  len(entries),
			Error:  err.Error(),
		}, nil
	}
	return ValidateEntries(entries), nil
}

// Summarize returns the chain summary for verify results, or nil when the
// artifact has no chain.
func (l *Ledger) Summarize(file string) (*Summary, error) {
	if err := store.ValidateArtifactPath(file); err != nil {
		return nil, err
	}
	entries, err := l.ReadAll(file)
	if err != nil {
		return &Summary{Length: len(entries), Valid: false}, nil
	}
	if len(entries) == 0 {
		return nil, nil
	}
	v := ValidateEntries(entries)
	return &Summary{
		Length: len(entries),
		Head:   entries[len(entries)-1].Hash,
		Valid:  v.Valid,
	}, nil
}
