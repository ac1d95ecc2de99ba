package bootstrap

import (
	"context"
	"fmt"

	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"go.uber.org/zap"
)

// EnsureSystemCategories inserts the built-in categories that are missing. Existing rows
// are left alone so renamed descriptions survive restarts.
func EnsureSystemCategories(ctx context.Context, r repo.CategoryRepo, log *zap.Logger) error {
	if err := r.EnsureSystem(ctx, model.SystemCategories); err != nil {
		return fmt.Errorf("seed system categories: %w", err)
	}
	log.Sugar().Infow("system categories ensured", "count", len(model.SystemCategories))
	return nil
}
