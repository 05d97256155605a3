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

// Package policy resolves an artifact path to its mutation policy. Resolution
// is a pure function of the configured policy list and the path; it touches
// no stores and performs no I/O.
package policy

import "strings"

// FilePolicy is the per-path-pattern mutation policy. The zero value is the
// default policy: immutable, no authorized identities, no requirements.
type FilePolicy struct {
	// Path is the pattern this policy applies to. A single "*" token may
	// substitute for a run of non-separator characters in the final path
	// segment; a wildcard never matches across a directory boundary.
	Path string `json:"path"`
	// Mutable permits gated updates to matching artifacts. Defaults false.
	Mutable bool `json:"mutable"`
	// AuthorizedIdentities lists identity patterns permitted to authorize a
	// mutation. Empty means any identity passes the identity stage.
	AuthorizedIdentities []string `json:"authorizedIdentities,omitempty"`
	// RequireSignedSource requires mutation provenance to name a source that
	// independently verifies.
	RequireSignedSource bool `json:"requireSignedSource,omitempty"`
	// RequireApproval is advisory only: it is communicated to the authorizing
	// caller but never enforced by the pipeline.
	RequireApproval bool `json:"requireApproval,omitempty"`
}

// Default returns the immutable default policy applied when no configured
// pattern matches.
func Default() FilePolicy {
	return FilePolicy{}
}

// Resolve returns the policy governing path.
//
// An exact pattern match wins outright. Otherwise, among all wildcard
// patterns that match, the longest pattern string wins (specificity by
// length, not configuration order). If nothing matches, the default
// immutable policy is returned.
func Resolve(policies []FilePolicy, path string) FilePolicy {
	var best *FilePolicy
	for i := range policies {
		p := &policies[i]
		if p.Path == path {
			return *p
		}
		if !strings.Contains(p.Path, "*") || !matchPath(p.Path, path) {
			continue
		}
		if best == nil || len(p.Path) > len(best.Path) {
			best = p
		}
	}
	if best != nil {
		return *best
	}
	return Default()
}

// matchPath reports whether a wildcard pattern matches path. The directory
// part must match exactly; in the final segment a single "*" substitutes for
// any run of non-separator characters.
func matchPath(pattern, path string) bool {
	patDir, patBase := splitLast(pattern)
	pathDir, pathBase := splitLast(path)
	if patDir != pathDir {
		return false
	}

	pre, suf, ok := strings.Cut(patBase, "*")
	if !ok {
		return patBase == pathBase
	}
	return len(pathBase) >= len(pre)+len(suf) &&
		strings.HasPrefix(pathBase, pre) &&
		strings.HasSuffix(pathBase, suf)
}

func splitLast(p string) (dir, base string) {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}

// MatchIdentity reports whether an identity matches a pattern. A pattern
// without "*" requires exact equality; a pattern ending in "*" requires the
// identity to start with the literal prefix before the "*". No other
// wildcard positions are defined.
func MatchIdentity(pattern, identity string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == identity
	}
	if strings.HasSuffix(pattern, "*") && strings.Count(pattern, "*") == 1 {
		return strings.HasPrefix(identity, pattern[:len(pattern)-1])
	}
	return false
}

// MatchesAny reports whether identity matches at least one of the patterns.
func MatchesAny(patterns []string, identity string) bool {
	for _, p := range patterns {
		if MatchIdentity(p, identity) {
			return true
		}
	}
	return false
}
