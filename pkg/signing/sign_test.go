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

package signing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disreguard/sig/pkg/audit"
	"github.com/disreguard/sig/pkg/config"
	"github.com/disreguard/sig/pkg/store"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSignFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "prompts/soul.md", "You are a helpful assistant.\n")

	sig, err := SignFile(context.Background(), root, "prompts/soul.md", Options{Identity: "alice"})
	if err != nil {
		t.Fatalf("SignFile failed: %v", err)
	}
	if sig.File != "prompts/soul.md" {
		t.Errorf("file = %q", sig.File)
	}
	if sig.SignedBy != "alice" {
		t.Errorf("signedBy = %q, want alice", sig.SignedBy)
	}
	if !strings.HasPrefix(sig.Hash, "sha256:") {
		t.Errorf("hash %q missing sha256 tag", sig.Hash)
	}
	if sig.ContentLength != len("You are a helpful assistant.\n") {
		t.Errorf("contentLength = %d", sig.ContentLength)
	}

	// Both records must exist in the store.
	st := store.NewFileStore(config.SigDir(root))
	loaded, err := st.Load("prompts/soul.md")
	if err != nil || loaded.State != store.StateFound {
		t.Fatalf("stored signature missing: %+v err=%v", loaded, err)
	}
	content, ok, _ := st.LoadContent("prompts/soul.md")
	if !ok || string(content) != "You are a helpful assistant.\n" {
		t.Fatalf("stored content = %q ok=%v", content, ok)
	}

	// Signing is audited.
	entries, err := audit.NewLog(config.SigDir(root)).Read("prompts/soul.md")
	if err != nil || len(entries) == 0 {
		t.Fatalf("audit entries = %d err=%v", len(entries), err)
	}
	if entries[0].Event != audit.EventSign {
		t.Errorf("event = %q, want %q", entries[0].Event, audit.EventSign)
	}
}

func TestSignFileConfiguredDefaults(t *testing.T) {
	root := t.TempDir()
	if err := config.Save(root, config.Config{
		Version: 1,
		Sign:    &config.SignConfig{Identity: "configured", Algorithm: "blake2b"},
	}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "a.md", "content")

	sig, err := SignFile(context.Background(), root, "a.md", Options{})
	if err != nil {
		t.Fatalf("SignFile failed: %v", err)
	}
	if sig.SignedBy != "configured" {
		t.Errorf("signedBy = %q, want configured identity", sig.SignedBy)
	}
	if sig.Algorithm != "blake2b" || !strings.HasPrefix(sig.Hash, "blake2b:") {
		t.Errorf("algorithm = %q hash = %q, want blake2b", sig.Algorithm, sig.Hash)
	}
}

func TestSignFileMissingArtifact(t *testing.T) {
	if _, err := SignFile(context.Background(), t.TempDir(), "missing.md", Options{}); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestSignFileRejectsEscape(t *testing.T) {
	if _, err := SignFile(context.Background(), t.TempDir(), "../outside.md", Options{}); err == nil {
		t.Fatal("expected error for path escaping the project root")
	}
}

func TestUnsign(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "content")
	if _, err := SignFile(context.Background(), root, "a.md", Options{Identity: "alice"}); err != nil {
		t.Fatal(err)
	}

	if err := Unsign(root, "a.md"); err != nil {
		t.Fatalf("Unsign failed: %v", err)
	}
	loaded, _ := store.NewFileStore(config.SigDir(root)).Load("a.md")
	if loaded.State != store.StateNotFound {
		t.Fatalf("state after unsign = %s", loaded.State)
	}
}

func TestOSIdentityNeverEmpty(t *testing.T) {
	if OSIdentity() == "" {
		t.Fatal("OSIdentity returned empty string")
	}
}
