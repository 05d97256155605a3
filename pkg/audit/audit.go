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

// Package audit appends timestamped event records to the append-only
// audit.jsonl log. Unlike the update-chain ledger, the audit log records
// denials and verification failures as well as approvals: a cluster of
// denials for one artifact is the primary detection signal for a
// prompt-injection attempt.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disreguard/sig/pkg/chain"
	"github.com/disreguard/sig/pkg/signature"
)

// FileName is the audit log file name inside the .sig directory.
const FileName = "audit.jsonl"

// Audit event names. These appear verbatim in the log and are part of the
// on-disk contract.
const (
	EventSign         = "sign"
	EventVerify       = "verify"
	EventVerifyFail   = "verify-fail"
	EventUpdate       = "update"
	EventUpdateDenied = "update-denied"
)

// Entry is one audit record. Fields are structs and strings only, so
// json.Marshal produces a deterministic key order per line.
type Entry struct {
	Timestamp string `json:"ts"`
	Event     string `json:"event"`
	File      string `json:"file"`
	Hash      string `json:"hash,omitempty"`
	Identity  string `json:"identity,omitempty"`
	Detail    string `json:"detail,omitempty"`
	// Source carries the attempted Provenance for update approvals and
	// denials, so repeated unauthorized attempts are individually observable.
	Source *chain.Provenance `json:"source,omitempty"`
}

// Log appends to and reads the audit log of one .sig directory.
type Log struct {
	sigDir string
}

// NewLog creates an audit log rooted at the given .sig directory.
func NewLog(sigDir string) *Log {
	return &Log{sigDir: sigDir}
}

func (l *Log) path() string {
	return filepath.Join(l.sigDir, FileName)
}

// Append writes one JSON line. The timestamp is filled in when empty.
func (l *Log) Append(e Entry) error {
	if e.Timestamp == "" {
		e.Timestamp = signature.Now()
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	if err := os.MkdirAll(l.sigDir, 0o755); err != nil {
		return fmt.Errorf("creating audit directory: %w", err)
	}
	f, err := os.OpenFile(l.path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// Read returns audit entries in log order, optionally filtered by artifact
// (file == "" returns everything). A missing log yields no entries.
// Malformed lines are skipped: the audit log is an observability surface,
// not an integrity-checked record.
func (l *Log) Read(file string) ([]Entry, error) {
	raw, err := os.ReadFile(l.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil || e.Event == "" {
			continue
		}
		if file == "" || e.File == file {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading audit log: %w", err)
	}
	return entries, nil
}
