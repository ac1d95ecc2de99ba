package model

import (
	"errors"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// GeneratedCode is the artifact produced by a generation run. It is stored verbatim on
// Project.GeneratedCode; this shape is only imposed when the service needs the files.
type GeneratedCode struct {
	Framework        string          `json:"framework,omitempty"`
	Summary          string          `json:"summary,omitempty"`
	Files            []GeneratedFile `json:"files"`
	DatabaseSchema   string          `json:"database_schema,omitempty"`
	DeploymentConfig string          `json:"deployment_config,omitempty"`
	Provider         string          `json:"provider,omitempty"`
	Model            string          `json:"model,omitempty"`
}

type GeneratedFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

var ErrNoGeneratedCode = errors.New("project has no generated code")

// DecodeGeneratedCode parses a stored artifact.
func DecodeGeneratedCode(raw datatypes.JSON) (*GeneratedCode, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoGeneratedCode
	}
	var gc GeneratedCode
	if err := sonic.Unmarshal(raw, &gc); err != nil {
		return nil, err
	}
	return &gc, nil
}

// EncodeGeneratedCode serialises an artifact for storage.
func EncodeGeneratedCode(gc *GeneratedCode) (datatypes.JSON, error) {
	b, err := sonic.Marshal(gc)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
