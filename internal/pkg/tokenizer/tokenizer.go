// Package tokenizer counts prompt tokens so oversized project descriptions fail fast
// instead of burning a generation call.
package tokenizer

import (
	"errors"
	"sync"

	"github.com/tiktoken-go/tokenizer"
	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	codec tokenizer.Codec
)

var ErrNotInitialized = errors.New("tokenizer not initialized")

// Init loads the cl100k_base encoding. Safe to call more than once.
func Init(log *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if codec != nil {
		return nil
	}
	c, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return err
	}
	codec = c
	if log != nil {
		log.Info("tokenizer initialized", zap.String("encoding", string(tokenizer.Cl100kBase)))
	}
	return nil
}

func CountTokens(text string) (int, error) {
	mu.RLock()
	c := codec
	mu.RUnlock()
	if c == nil {
		return 0, ErrNotInitialized
	}
	if text == "" {
		return 0, nil
	}
	return c.Count(text)
}
