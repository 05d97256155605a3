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
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateArtifactPath checks a caller-supplied artifact path before it is
// used in any path construction. Forward slashes are allowed (artifacts may
// live in subdirectories), but the path must stay inside the storage root:
// empty paths, absolute paths, backslashes, ".." segments, and NUL bytes are
// rejected. These are structural errors indicating a caller bug or a
// path-traversal attempt.
func ValidateArtifactPath(file string) error {
	if file == "" {
		return fmt.Errorf("artifact path cannot be empty")
	}
	if strings.ContainsRune(file, '\x00') {
		return fmt.Errorf("invalid artifact path %q: contains NUL byte", file)
	}
	if strings.ContainsRune(file, '\\') {
		return fmt.Errorf("invalid artifact path %q: contains backslash", file)
	}
	if strings.HasPrefix(file, "/") {
		return fmt.Errorf("invalid artifact path %q: must be relative", file)
	}
	for _, seg := range strings.Split(file, "/") {
		if seg == ".." {
			return fmt.Errorf("invalid artifact path %q: contains .. segment", file)
		}
	}
	return nil
}

// ValidateContentID checks a caller-supplied ephemeral content identifier.
// Content records are stored in a flat directory, so identifiers are stricter
// than artifact paths: no path separators of either kind, no ".." and no NUL.
func ValidateContentID(id string) error {
	if id == "" {
		return fmt.Errorf("content ID cannot be empty")
	}
	if strings.ContainsAny(id, "/\\") ||
		strings.Contains(id, "..") ||
		strings.ContainsRune(id, '\x00') {
		return fmt.Errorf("invalid content ID %q", id)
	}
	return nil
}

// ResolveContained resolves file relative to projectRoot and returns the
// slash-separated relative path. It returns an error if the resolved path
// escapes the project root.
func ResolveContained(projectRoot, file string) (string, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}

	abs := file
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, filepath.FromSlash(file))
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes project root: %s", file)
	}
	return filepath.ToSlash(rel), nil
}
