package blob

import (
	"context"
	"testing"

	"github.com/saas-factory/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigured(t *testing.T) {
	assert.False(t, Configured(&config.Config{}))
	assert.False(t, Configured(&config.Config{S3: config.S3Cfg{Bucket: "sites"}}))
	assert.True(t, Configured(&config.Config{S3: config.S3Cfg{Bucket: "sites", PublicBaseURL: "https://cdn.example.com"}}))
}

func TestNewS3_PublicURL(t *testing.T) {
	d, err := NewS3(context.Background(), &config.Config{S3: config.S3Cfg{
		Region:        "auto",
		Endpoint:      "http://localhost:9000",
		AccessKey:     "ak",
		SecretKey:     "sk",
		Bucket:        "sites",
		UsePathStyle:  true,
		PublicBaseURL: "https://cdn.example.com/",
	}})
	require.NoError(t, err)
	assert.Equal(t, "sites", d.Bucket)
	assert.Equal(t, "https://cdn.example.com/sites/todo%20app/", d.PublicURL("/sites/todo app/"))
}
