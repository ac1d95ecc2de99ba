// Package path validates file paths emitted by the code generator.
package path

import (
	"errors"
	"path"
	"strings"
)

var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrInvalidPath   = errors.New("path format is invalid")
	ErrAbsolutePath  = errors.New("path must be relative")
	ErrPathTraversal = errors.New("path contains directory traversal")
)

// ValidateFilePath accepts relative slash-separated paths that stay inside the project root.
func ValidateFilePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(p, '\x00') || strings.ContainsRune(p, '\\') {
		return ErrInvalidPath
	}
	if strings.HasPrefix(p, "/") {
		return ErrAbsolutePath
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." || (len(part) > 1 && strings.Trim(part, ".") == "") {
			return ErrPathTraversal
		}
	}
	if strings.HasSuffix(p, "/") {
		return ErrInvalidPath
	}
	return nil
}

// Normalize trims leading "./" and "/" and collapses duplicate separators.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimLeft(p, "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// TopDirs lists the distinct first path segments, for summarising a file tree.
func TopDirs(paths []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range paths {
		p = Normalize(p)
		i := strings.IndexByte(p, '/')
		if i <= 0 {
			continue
		}
		dir := p[:i]
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out
}
