package generator

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/saas-factory/api/internal/modules/model"
)

// ParseArtifact extracts the JSON artifact from model output, tolerating markdown fences
// and prose around the object.
func ParseArtifact(text string) (*model.GeneratedCode, error) {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if j := strings.LastIndex(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		text = rest
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, ErrEmptyOutput
	}
	var gc model.GeneratedCode
	if err := sonic.UnmarshalString(text[start:end+1], &gc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOutput, err)
	}
	if len(gc.Files) == 0 {
		return nil, ErrEmptyOutput
	}
	return &gc, nil
}
