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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/disreguard/sig/pkg/policy"
)

func TestLoadMissingConfig(t *testing.T) {
	cfg := Load(t.TempDir())
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if len(cfg.Files) != 0 {
		t.Error("default config should carry no policies")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	root := t.TempDir()
	cfg := Config{
		Version:   1,
		Templates: &TemplatesConfig{Engine: EngineList{"jinja"}},
		Sign:      &SignConfig{Identity: "alice", Algorithm: "blake2b"},
		Files: []policy.FilePolicy{
			{Path: "prompts/*.md", Mutable: true, AuthorizedIdentities: []string{"agent-*"}},
		},
	}
	if err := Save(root, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := Load(root)
	if got.DefaultIdentity() != "alice" || got.DefaultAlgorithm() != "blake2b" {
		t.Errorf("sign config lost: %+v", got.Sign)
	}
	if len(got.Files) != 1 || !got.Files[0].Mutable {
		t.Fatalf("policies lost: %+v", got.Files)
	}
	if got.Files[0].AuthorizedIdentities[0] != "agent-*" {
		t.Errorf("identities lost: %+v", got.Files[0])
	}
}

func TestLoadToleratesComments(t *testing.T) {
	root := t.TempDir()
	raw := `{
  // hand-edited configuration
  "version": 1,
  "sign": {"identity": "alice"}, /* default signer */
}`
	if err := os.MkdirAll(SigDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(root)
	if cfg.DefaultIdentity() != "alice" {
		t.Fatalf("JSONC config not parsed: %+v", cfg)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(SigDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root), []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(root)
	if cfg.Version != 1 || cfg.Sign != nil {
		t.Fatalf("malformed config did not resolve to default: %+v", cfg)
	}
}

func TestEngineListStringOrArray(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"templates": {"engine": "jinja"}}`), &cfg); err != nil {
		t.Fatalf("single engine string rejected: %v", err)
	}
	if len(cfg.Templates.Engine) != 1 || cfg.Templates.Engine[0] != "jinja" {
		t.Fatalf("engine = %+v", cfg.Templates.Engine)
	}

	var cfg2 Config
	if err := json.Unmarshal([]byte(`{"templates": {"engine": ["jinja", "mustache"]}}`), &cfg2); err != nil {
		t.Fatalf("engine array rejected: %v", err)
	}
	if len(cfg2.Templates.Engine) != 2 {
		t.Fatalf("engine = %+v", cfg2.Templates.Engine)
	}

	// A single engine marshals back to a bare string.
	data, err := json.Marshal(EngineList{"jinja"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"jinja"` {
		t.Errorf("single engine marshaled as %s, want bare string", data)
	}
}

func TestInitCreatesLayout(t *testing.T) {
	root := t.TempDir()
	cfg, err := Init(root, []string{"jinja"}, "alice")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if cfg.DefaultIdentity() != "alice" {
		t.Errorf("identity not recorded: %+v", cfg.Sign)
	}

	if _, err := os.Stat(filepath.Join(SigDir(root), "sigs")); err != nil {
		t.Error("sigs directory not created")
	}
	if _, err := os.Stat(Path(root)); err != nil {
		t.Error("config file not written")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, nil, ""); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found := FindProjectRoot(nested)
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(found)
	if gotRoot != wantRoot {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}

	// Without a .sig anywhere up the tree, the start dir itself is returned.
	lone := t.TempDir()
	if got := FindProjectRoot(lone); !filepath.IsAbs(got) {
		t.Errorf("expected absolute fallback, got %q", got)
	}
}
