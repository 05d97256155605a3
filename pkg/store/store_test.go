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
	"os"
	"path/filepath"
	"testing"

	"github.com/disreguard/sig/pkg/hashing"
	"github.com/disreguard/sig/pkg/signature"
)

func testSig(file string, content []byte) *signature.Signature {
	d := hashing.SumSHA256(content)
	return &signature.Signature{
		File:          file,
		Hash:          d.String(),
		Algorithm:     d.Algorithm(),
		SignedBy:      "tester",
		SignedAt:      signature.Now(),
		ContentLength: len(content),
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	st := NewFileStore(t.TempDir())
	content := []byte("You are a helpful assistant.\n")
	sig := testSig("prompts/soul.md", content)

	if err := st.Put(sig, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	loaded, err := st.Load("prompts/soul.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State != StateFound {
		t.Fatalf("state = %s, want %s", loaded.State, StateFound)
	}
	if loaded.Signature.Hash != sig.Hash {
		t.Errorf("hash = %q, want %q", loaded.Signature.Hash, sig.Hash)
	}
	if loaded.Signature.SignedBy != "tester" {
		t.Errorf("signedBy = %q, want tester", loaded.Signature.SignedBy)
	}

	stored, ok, err := st.LoadContent("prompts/soul.md")
	if err != nil || !ok {
		t.Fatalf("LoadContent failed: ok=%v err=%v", ok, err)
	}
	if string(stored) != string(content) {
		t.Errorf("stored content = %q, want %q", stored, content)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	st := NewFileStore(t.TempDir())
	loaded, err := st.Load("never-signed.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State != StateNotFound {
		t.Fatalf("state = %s, want %s", loaded.State, StateNotFound)
	}
	if loaded.Signature != nil {
		t.Error("signature should be nil when not found")
	}
}

func TestFileStoreCorrupted(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir)

	// A record that exists but does not parse must be reported as corrupted,
	// never conflated with "never signed".
	metaPath := filepath.Join(dir, SigsDir, "broken.md"+MetaExt)
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metaPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := st.Load("broken.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State != StateCorrupted {
		t.Fatalf("state = %s, want %s", loaded.State, StateCorrupted)
	}

	// Valid JSON missing required fields is corrupted too.
	if err := os.WriteFile(metaPath, []byte(`{"file":"broken.md"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, _ = st.Load("broken.md")
	if loaded.State != StateCorrupted {
		t.Fatalf("state for incomplete record = %s, want %s", loaded.State, StateCorrupted)
	}
}

func TestFileStoreDelete(t *testing.T) {
	st := NewFileStore(t.TempDir())
	content := []byte("x")
	if err := st.Put(testSig("a.md", content), content); err != nil {
		t.Fatal(err)
	}

	if err := st.Delete("a.md"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	loaded, _ := st.Load("a.md")
	if loaded.State != StateNotFound {
		t.Fatalf("state after delete = %s, want %s", loaded.State, StateNotFound)
	}

	// Deleting a missing record is not an error.
	if err := st.Delete("a.md"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestFileStoreList(t *testing.T) {
	st := NewFileStore(t.TempDir())
	for _, file := range []string{"a.md", "sub/b.md", "sub/deep/c.md"} {
		content := []byte(file)
		if err := st.Put(testSig(file, content), content); err != nil {
			t.Fatal(err)
		}
	}

	sigs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sigs) != 3 {
		t.Fatalf("List returned %d signatures, want 3", len(sigs))
	}
}

func TestValidateArtifactPath(t *testing.T) {
	valid := []string{"a.md", "prompts/soul.md", "deep/nested/dir/file.txt"}
	for _, p := range valid {
		if err := ValidateArtifactPath(p); err != nil {
			t.Errorf("ValidateArtifactPath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{
		"",
		"/etc/passwd",
		"../outside.md",
		"a/../../outside.md",
		"a\\b.md",
		"a\x00b.md",
	}
	for _, p := range invalid {
		if err := ValidateArtifactPath(p); err == nil {
			t.Errorf("ValidateArtifactPath(%q) = nil, want error", p)
		}
	}
}

func TestValidateContentID(t *testing.T) {
	if err := ValidateContentID("msg-1"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	for _, id := range []string{"", "a/b", "a\\b", "..", "a..b", "a\x00b"} {
		if err := ValidateContentID(id); err == nil {
			t.Errorf("ValidateContentID(%q) = nil, want error", id)
		}
	}
}

func TestResolveContained(t *testing.T) {
	root := t.TempDir()

	rel, err := ResolveContained(root, "prompts/soul.md")
	if err != nil {
		t.Fatalf("ResolveContained failed: %v", err)
	}
	if rel != "prompts/soul.md" {
		t.Errorf("rel = %q, want prompts/soul.md", rel)
	}

	if _, err := ResolveContained(root, "../escape.md"); err == nil {
		t.Error("expected error for path escaping the root")
	}
	if _, err := ResolveContained(root, "a/../../escape.md"); err == nil {
		t.Error("expected error for nested path escaping the root")
	}

	abs := filepath.Join(root, "inside.md")
	rel, err = ResolveContained(root, abs)
	if err != nil {
		t.Fatalf("ResolveContained(abs inside) failed: %v", err)
	}
	if rel != "inside.md" {
		t.Errorf("rel = %q, want inside.md", rel)
	}
}

func TestMemStoreRoundtrip(t *testing.T) {
	st := NewMemStore()
	content := []byte("hello")
	sig := testSig("a.md", content)

	if err := st.Put(sig, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	loaded, err := st.Load("a.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State != StateFound || loaded.Signature.Hash != sig.Hash {
		t.Fatalf("unexpected load result: %+v", loaded)
	}

	missing, _ := st.Load("b.md")
	if missing.State != StateNotFound {
		t.Fatalf("state = %s, want %s", missing.State, StateNotFound)
	}

	if err := st.Delete("a.md"); err != nil {
		t.Fatal(err)
	}
	loaded, _ = st.Load("a.md")
	if loaded.State != StateNotFound {
		t.Error("record survived delete")
	}
}
