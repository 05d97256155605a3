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

package policy

import "testing"

func TestResolveDefaultImmutable(t *testing.T) {
	p := Resolve(nil, "anything.md")
	if p.Mutable {
		t.Fatal("default policy must be immutable")
	}
	if len(p.AuthorizedIdentities) != 0 || p.RequireSignedSource {
		t.Fatalf("default policy carries unexpected requirements: %+v", p)
	}
}

func TestResolveExactBeatsWildcard(t *testing.T) {
	policies := []FilePolicy{
		{Path: "prompts/*.md", Mutable: true},
		{Path: "prompts/soul.md", Mutable: false, RequireSignedSource: true},
	}

	p := Resolve(policies, "prompts/soul.md")
	if p.Mutable {
		t.Fatal("exact match must win over wildcard regardless of order")
	}
	if !p.RequireSignedSource {
		t.Fatal("resolved wrong policy")
	}

	p = Resolve(policies, "prompts/other.md")
	if !p.Mutable {
		t.Fatal("wildcard should govern non-exact path")
	}
}

func TestResolveLongestWildcardWins(t *testing.T) {
	policies := []FilePolicy{
		{Path: "prompts/*", Mutable: true},
		{Path: "prompts/soul-*.md", Mutable: false},
	}

	// Both match; the longer pattern string is more specific.
	p := Resolve(policies, "prompts/soul-v2.md")
	if p.Mutable {
		t.Fatal("longest matching pattern must win")
	}

	p = Resolve(policies, "prompts/readme.txt")
	if !p.Mutable {
		t.Fatal("only the shorter pattern matches here")
	}
}

func TestWildcardNeverCrossesDirectories(t *testing.T) {
	policies := []FilePolicy{{Path: "prompts/*", Mutable: true}}

	if p := Resolve(policies, "prompts/sub/file.md"); p.Mutable {
		t.Fatal("wildcard matched across a directory separator")
	}
	if p := Resolve(policies, "prompts/file.md"); !p.Mutable {
		t.Fatal("wildcard failed to match within segment")
	}
	if p := Resolve(policies, "other/file.md"); p.Mutable {
		t.Fatal("wildcard matched outside its directory")
	}
}

func TestMatchIdentity(t *testing.T) {
	cases := []struct {
		pattern  string
		identity string
		want     bool
	}{
		{"alice", "alice", true},
		{"alice", "alicia", false},
		{"agent-*", "agent-7", true},
		{"agent-*", "agent-", true},
		{"agent-*", "agent", false},
		{"agent-*", "operator", false},
		{"*", "anyone", true},
	}
	for _, c := range cases {
		if got := MatchIdentity(c.pattern, c.identity); got != c.want {
			t.Errorf("MatchIdentity(%q, %q) = %v, want %v", c.pattern, c.identity, got, c.want)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"alice", "agent-*"}
	if !MatchesAny(patterns, "agent-7") {
		t.Error("agent-7 should match agent-*")
	}
	if MatchesAny(patterns, "bob") {
		t.Error("bob matches nothing")
	}
	if MatchesAny(nil, "anyone") {
		t.Error("empty pattern list matches nothing via MatchesAny")
	}
}
