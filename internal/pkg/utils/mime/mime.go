// Package mime picks Content-Type headers for generated files uploaded to static hosting.
package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// webTypes wins over content sniffing: browsers refuse scripts and styles served as text/plain.
var webTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".htm":         "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".svg":         "image/svg+xml",
	".txt":         "text/plain; charset=utf-8",
	".md":          "text/markdown; charset=utf-8",
	".xml":         "application/xml",
	".yaml":        "text/yaml; charset=utf-8",
	".yml":         "text/yaml; charset=utf-8",
	".wasm":        "application/wasm",
}

// sourceTypes label source files that are uploaded alongside the build for reference.
var sourceTypes = map[string]string{
	".ts":   "text/typescript",
	".tsx":  "text/typescript",
	".jsx":  "text/javascript",
	".sql":  "text/x-sql",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".sh":   "text/x-shellscript",
	".toml": "text/x-toml",
	".env":  "text/plain",
}

// ContentType resolves the header for name, sniffing content when the extension is unknown.
func ContentType(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := webTypes[ext]; ok {
		return t
	}
	detected := mimetype.Detect(content).String()
	if strings.HasPrefix(detected, "text/plain") {
		if t, ok := sourceTypes[ext]; ok {
			return strings.Replace(detected, "text/plain", t, 1)
		}
	}
	return detected
}

// CacheControl keeps HTML revalidated and lets fingerprinted assets cache.
func CacheControl(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", "":
		return "no-cache"
	default:
		return "public, max-age=3600"
	}
}
