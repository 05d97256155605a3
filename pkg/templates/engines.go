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

// Package templates knows the placeholder syntax of common template engines
// and extracts placeholders from signed content for display in verify
// results. It plays no part in the trust decisions themselves.
package templates

import (
	"regexp"
	"sort"
)

// EngineDefinition describes one template engine's placeholder syntax.
type EngineDefinition struct {
	Name         string
	Description  string
	Placeholders []*regexp.Regexp
}

// CustomPattern is a user-configured named set of placeholder patterns.
type CustomPattern struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// Engines maps engine names to their definitions.
var Engines = map[string]EngineDefinition{
	"jinja": {
		Name:         "jinja",
		Description:  "Jinja2 / Nunjucks",
		Placeholders: compile(`\{\{.*?\}\}`, `\{%.*?%\}`, `\{#.*?#\}`),
	},
	"mustache": {
		Name:         "mustache",
		Description:  "Mustache",
		Placeholders: compile(`\{\{\{.*?\}\}\}`, `\{\{[#/^>]?.*?\}\}`),
	},
	"handlebars": {
		Name:         "handlebars",
		Description:  "Handlebars",
		Placeholders: compile(`\{\{\{.*?\}\}\}`, `\{\{[#/^>~]?.*?\}\}`),
	},
	"jsx": {
		Name:         "jsx",
		Description:  "JSX / React expressions",
		Placeholders: compile(`\{[^}]+\}`),
	},
	"js-template": {
		Name:         "js-template",
		Description:  "JavaScript template literals",
		Placeholders: compile(`\$\{[^}]+\}`),
	},
	"bash": {
		Name:         "bash",
		Description:  "Bash / Shell variables",
		Placeholders: compile(`\$\{[^}]+\}`, `\$[A-Z_][A-Z0-9_]*`),
	},
	"mlld": {
		Name:         "mlld",
		Description:  "mlld style (@var, <file>)",
		Placeholders: compile(`@[a-zA-Z]\w*(?:\.[a-zA-Z]\w*)*`, `<[a-zA-Z][\w./-]*>`),
	},
	"claude": {
		Name:         "claude",
		Description:  "Claude artifacts ({{var}}, @file)",
		Placeholders: compile(`\{\{[a-zA-Z_]\w*\}\}`, `@[a-zA-Z][\w/-]*`),
	},
	"erb": {
		Name:         "erb",
		Description:  "Ruby ERB",
		Placeholders: compile(`<%=?-?\s.*?-?%>`),
	},
	"go-template": {
		Name:         "go-template",
		Description:  "Go text/template",
		Placeholders: compile(`\{\{.*?\}\}`),
	},
	"python-fstring": {
		Name:         "python-fstring",
		Description:  "Python f-strings",
		Placeholders: compile(`\{[^}]+\}`),
	},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Names returns the known engine names, sorted.
func Names() []string {
	names := make([]string, 0, len(Engines))
	for name := range Engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a known engine.
func Known(name string) bool {
	_, ok := Engines[name]
	return ok
}

// ExtractPlaceholders returns the deduplicated placeholders found in content
// for the named engines plus any custom patterns, in first-seen order.
// Unknown engine names and invalid custom patterns are ignored.
func ExtractPlaceholders(content string, engines []string, custom []CustomPattern) []string {
	seen := map[string]bool{}
	var found []string
	add := func(matches []string) {
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				found = append(found, m)
			}
		}
	}

	for _, name := range engines {
		defn, ok := Engines[name]
		if !ok {
			continue
		}
		for _, re := range defn.Placeholders {
			add(re.FindAllString(content, -1))
		}
	}
	for _, cp := range custom {
		for _, pat := range cp.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				continue
			}
			add(re.FindAllString(content, -1))
		}
	}
	return found
}
