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

package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disreguard/sig/pkg/chain"
)

func TestAppendAndRead(t *testing.T) {
	l := NewLog(t.TempDir())

	events := []Entry{
		{Event: EventSign, File: "a.md", Hash: "sha256:aaa", Identity: "alice"},
		{Event: EventVerify, File: "a.md", Hash: "sha256:aaa"},
		{Event: EventVerifyFail, File: "b.md", Detail: "No signature found"},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := l.Read("")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("read %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Event != events[i].Event {
			t.Errorf("entry %d event = %q, want %q", i, e.Event, events[i].Event)
		}
		if e.Timestamp == "" {
			t.Errorf("entry %d missing timestamp", i)
		}
	}
}

func TestReadFiltersByFile(t *testing.T) {
	l := NewLog(t.TempDir())
	_ = l.Append(Entry{Event: EventSign, File: "a.md"})
	_ = l.Append(Entry{Event: EventSign, File: "b.md"})
	_ = l.Append(Entry{Event: EventVerify, File: "a.md"})

	entries, err := l.Read("a.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("filtered read returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.File != "a.md" {
			t.Errorf("filter leaked entry for %q", e.File)
		}
	}
}

func TestDenialCarriesProvenance(t *testing.T) {
	l := NewLog(t.TempDir())
	prov := &chain.Provenance{
		SourceType: chain.SourceSignedMessage,
		SourceID:   "msg-9",
		Reason:     "attempted injection",
	}
	if err := l.Append(Entry{
		Event:    EventUpdateDenied,
		File:     "soul.md",
		Identity: "attacker",
		Detail:   "unauthorized_identity",
		Source:   prov,
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := l.Read("soul.md")
	if err != nil || len(entries) != 1 {
		t.Fatalf("Read: entries=%d err=%v", len(entries), err)
	}
	got := entries[0]
	if got.Source == nil {
		t.Fatal("denial entry lost its provenance")
	}
	if got.Source.SourceID != "msg-9" || got.Source.SourceType != chain.SourceSignedMessage {
		t.Errorf("provenance = %+v", got.Source)
	}
}

func TestReadMissingLog(t *testing.T) {
	l := NewLog(t.TempDir())
	entries, err := l.Read("")
	if err != nil {
		t.Fatalf("Read of missing log failed: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	l := NewLog(dir)
	_ = l.Append(Entry{Event: EventSign, File: "a.md"})

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	_ = l.Append(Entry{Event: EventVerify, File: "a.md"})

	entries, err := l.Read("")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("read %d entries, want 2 (malformed line skipped)", len(entries))
	}
}
