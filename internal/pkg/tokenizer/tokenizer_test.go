package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCountTokens(t *testing.T) {
	require.NoError(t, Init(zap.NewNop()))
	// second call is a no-op
	require.NoError(t, Init(nil))

	n, err := CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	short, err := CountTokens("Build a todo app")
	require.NoError(t, err)
	assert.Greater(t, short, 0)

	long, err := CountTokens(strings.Repeat("Build a todo app. ", 50))
	require.NoError(t, err)
	assert.Greater(t, long, short*10)
}
