package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"go.uber.org/zap"
)

type FavoriteService interface {
	Favorite(ctx context.Context, userID, projectID uuid.UUID) error
	// Unfavorite succeeds whether or not the favorite exists.
	Unfavorite(ctx context.Context, userID, projectID uuid.UUID) error
	IsFavorite(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
}

type favoriteService struct {
	resolver *backend.Resolver
	rec      recorder
}

func NewFavoriteService(resolver *backend.Resolver, log *zap.Logger) FavoriteService {
	return &favoriteService{resolver: resolver, rec: recorder{log: log}}
}

func (s *favoriteService) Favorite(ctx context.Context, userID, projectID uuid.UUID) error {
	b := s.resolver.For(ctx)
	p, err := loadReadable(ctx, b, projectID, userID)
	if err != nil {
		return err
	}
	if err := b.Favorites().Create(ctx, &model.Favorite{ProjectID: projectID, UserID: userID}); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return wrapError(ErrConflict, err, "project is already in your favorites")
		}
		return fmt.Errorf("create favorite: %w", err)
	}
	s.rec.record(ctx, b, projectID, userID, model.ActionProjectFavorited, fmt.Sprintf("Added %q to favorites", p.Title), nil)
	return nil
}

func (s *favoriteService) Unfavorite(ctx context.Context, userID, projectID uuid.UUID) error {
	b := s.resolver.For(ctx)
	if err := b.Favorites().Delete(ctx, projectID, userID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	// the project may be gone already; only record against one that exists
	if _, err := b.Projects().Get(ctx, projectID); err == nil {
		s.rec.record(ctx, b, projectID, userID, model.ActionProjectUnfavorited, "Removed from favorites", nil)
	}
	return nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return s.resolver.For(ctx).Favorites().Exists(ctx, projectID, userID)
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	items, err := s.resolver.For(ctx).Favorites().ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Project{}
	}
	return items, nil
}
