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

// Package config loads and writes the project configuration at
// .sig/config.json: template engine selection, signing defaults, and the
// per-path mutation policies consumed by the policy resolver.
//
// Loading is tolerant: a missing or unreadable config resolves to the
// default configuration, and hand-edited files may contain JSONC comments.
// Written files are always strict JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/disreguard/sig/pkg/policy"
	"github.com/disreguard/sig/pkg/templates"
)

const (
	// DirName is the per-project signature directory.
	DirName = ".sig"
	// FileName is the configuration file inside DirName.
	FileName = "config.json"
)

// EngineList holds the configured template engine names. It accepts either a
// single JSON string or an array of strings, and marshals a single engine
// back to a bare string, matching the config files other implementations
// write.
type EngineList []string

// UnmarshalJSON accepts "jinja" as well as ["jinja", "mustache"].
func (e *EngineList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*e = EngineList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("engine must be a string or array of strings")
	}
	*e = EngineList(many)
	return nil
}

// MarshalJSON emits a bare string for a single engine.
func (e EngineList) MarshalJSON() ([]byte, error) {
	if len(e) == 1 {
		return json.Marshal(e[0])
	}
	return json.Marshal([]string(e))
}

// TemplatesConfig selects template engines and custom placeholder patterns.
type TemplatesConfig struct {
	Engine EngineList                `json:"engine,omitempty"`
	Custom []templates.CustomPattern `json:"custom,omitempty"`
}

// SignConfig holds signing defaults.
type SignConfig struct {
	// Algorithm selects the hash algorithm; empty means sha256.
	Algorithm string `json:"algorithm,omitempty"`
	// Identity is the default signing identity when none is supplied.
	Identity string `json:"identity,omitempty"`
	// Include and Exclude are glob patterns describing which project files
	// are expected to be signed (used by status reporting only).
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Config is the root of .sig/config.json.
type Config struct {
	Version   int              `json:"version"`
	Templates *TemplatesConfig `json:"templates,omitempty"`
	Sign      *SignConfig      `json:"sign,omitempty"`
	// Files lists the per-path mutation policies. Absence of a matching
	// entry resolves to the default immutable policy.
	Files []policy.FilePolicy `json:"files,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{Version: 1}
}

// SigDir returns the .sig directory path for a project root.
func SigDir(projectRoot string) string {
	return filepath.Join(projectRoot, DirName)
}

// Path returns the config file path for a project root.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, DirName, FileName)
}

// Load reads the project configuration. Any read or parse problem resolves
// to the default configuration; configuration is advisory and its absence
// must not fail sign or verify operations.
func Load(projectRoot string) Config {
	raw, err := os.ReadFile(Path(projectRoot))
	if err != nil {
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(jsonc.ToJSON(raw), &cfg); err != nil {
		return Default()
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	return cfg
}

// Save writes the configuration as strict two-space-indented JSON with a
// trailing newline, creating the .sig directory if needed.
func Save(projectRoot string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	path := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", DirName, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Init bootstraps the .sig directory structure and writes the initial
// configuration.
func Init(projectRoot string, engines []string, identity string) (Config, error) {
	if err := os.MkdirAll(filepath.Join(SigDir(projectRoot), "sigs"), 0o755); err != nil {
		return Config{}, fmt.Errorf("creating %s directory: %w", DirName, err)
	}

	cfg := Default()
	if len(engines) > 0 {
		cfg.Templates = &TemplatesConfig{Engine: engines}
	}
	if identity != "" {
		cfg.Sign = &SignConfig{Identity: identity}
	}
	if err := Save(projectRoot, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindProjectRoot walks up from startDir looking for a .sig directory.
// Returns startDir (absolute) when none is found.
func FindProjectRoot(startDir string) string {
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		} else {
			startDir = "."
		}
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return startDir
	}

	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, DirName)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// EngineNames returns the configured engine list, falling back to the
// engine recorded in a signature's template tag.
func (c Config) EngineNames(signatureEngine string) []string {
	if c.Templates != nil && len(c.Templates.Engine) > 0 {
		return c.Templates.Engine
	}
	if signatureEngine != "" {
		return []string{signatureEngine}
	}
	return nil
}

// CustomPatterns returns the configured custom placeholder patterns.
func (c Config) CustomPatterns() []templates.CustomPattern {
	if c.Templates == nil {
		return nil
	}
	return c.Templates.Custom
}

// DefaultAlgorithm returns the configured hash algorithm or "".
func (c Config) DefaultAlgorithm() string {
	if c.Sign == nil {
		return ""
	}
	return c.Sign.Algorithm
}

// DefaultIdentity returns the configured signing identity or "".
func (c Config) DefaultIdentity() string {
	if c.Sign == nil {
		return ""
	}
	return c.Sign.Identity
}
