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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn leaked: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn/error messages missing: %q", out)
	}
}

func TestSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: LevelSilent, Output: &buf})
	logger.Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("silent logger wrote output: %q", buf.String())
	}
}

func TestTextFormatterFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: LevelInfo, Output: &buf, ShowLevel: true})

	logger.WithField("file", "soul.md").Info("signed")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("level prefix missing: %q", out)
	}
	if !strings.Contains(out, "file=soul.md") {
		t.Errorf("field missing: %q", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.WithFields(map[string]interface{}{"file": "a.md", "n": 3}).Info("count %d", 3)

	var entry struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "info" || entry.Message != "count 3" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["file"] != "a.md" {
		t.Errorf("fields = %+v", entry.Fields)
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(Options{Level: LevelInfo, Output: &buf})
	_ = parent.WithField("child", "only")

	parent.Info("from parent")
	if strings.Contains(buf.String(), "child=only") {
		t.Errorf("child field leaked into parent: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
