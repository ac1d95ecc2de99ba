package mime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		want    string
	}{
		{name: "html by extension", file: "index.html", content: []byte("<!doctype html>"), want: "text/html; charset=utf-8"},
		{name: "script not sniffed", file: "app.js", content: []byte("console.log(1)"), want: "text/javascript; charset=utf-8"},
		{name: "typescript refined", file: "src/app.ts", content: []byte("export const x = 1"), want: "text/typescript; charset=utf-8"},
		{name: "png sniffed", file: "logo", content: []byte("\x89PNG\r\n\x1a\n0000"), want: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.file, tt.content))
		})
	}
}

func TestCacheControl(t *testing.T) {
	assert.Equal(t, "no-cache", CacheControl("index.html"))
	assert.Equal(t, "public, max-age=3600", CacheControl("assets/app.css"))
}
