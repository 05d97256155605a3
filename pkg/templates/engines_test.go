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

package templates

import (
	"reflect"
	"testing"
)

func TestExtractPlaceholdersJinja(t *testing.T) {
	content := "Hello {{ name }}, {% if admin %}welcome{% endif %}. Bye {{ name }}."
	got := ExtractPlaceholders(content, []string{"jinja"}, nil)

	want := []string{"{{ name }}", "{% if admin %}", "{% endif %}"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("placeholders = %v, want %v (first-seen order, deduplicated)", got, want)
	}
}

func TestExtractPlaceholdersMultipleEngines(t *testing.T) {
	content := "{{ a }} and ${b} here"
	got := ExtractPlaceholders(content, []string{"jinja", "js-template"}, nil)

	if len(got) != 2 {
		t.Fatalf("placeholders = %v, want 2 entries", got)
	}
	if got[0] != "{{ a }}" || got[1] != "${b}" {
		t.Errorf("placeholders = %v", got)
	}
}

func TestExtractPlaceholdersUnknownEngineIgnored(t *testing.T) {
	got := ExtractPlaceholders("{{ a }}", []string{"no-such-engine"}, nil)
	if len(got) != 0 {
		t.Fatalf("unknown engine produced matches: %v", got)
	}
}

func TestExtractPlaceholdersCustomPatterns(t *testing.T) {
	custom := []CustomPattern{
		{Name: "angle", Patterns: []string{`<<\w+>>`}},
		{Name: "broken", Patterns: []string{`[unclosed`}},
	}
	got := ExtractPlaceholders("fill <<slot>> here", nil, custom)
	if len(got) != 1 || got[0] != "<<slot>>" {
		t.Fatalf("custom pattern matches = %v", got)
	}
}

func TestKnownEngines(t *testing.T) {
	for _, name := range []string{"jinja", "mustache", "handlebars", "go-template", "bash"} {
		if !Known(name) {
			t.Errorf("engine %q not known", name)
		}
	}
	if Known("smarty") {
		t.Error("unexpected engine known")
	}

	names := Names()
	if len(names) != len(Engines) {
		t.Errorf("Names returned %d entries, want %d", len(names), len(Engines))
	}
}
