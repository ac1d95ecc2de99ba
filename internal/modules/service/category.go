package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, in UpdateCategoryInput) (*model.Category, error)
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

type categoryService struct {
	resolver *backend.Resolver
	log      *zap.Logger
}

func NewCategoryService(resolver *backend.Resolver, log *zap.Logger) CategoryService {
	return &categoryService{resolver: resolver, log: log}
}

type CategoryInput struct {
	UserID      uuid.UUID
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
}

type UpdateCategoryInput struct {
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// categorySlug derives a slug from the name when none is given.
func categorySlug(name, slug string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slug
	}
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	items, err := s.resolver.For(ctx).Categories().ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Category{}
	}
	return items, nil
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrValidation, "category name is required")
	}
	slug := categorySlug(name, in.Slug)
	if slug == "" {
		return nil, newError(ErrValidation, "category name must contain letters or digits")
	}
	uid := in.UserID
	c := &model.Category{
		UserID:      &uid,
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	}
	if err := s.resolver.For(ctx).Categories().Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrapError(ErrConflict, err, "a category named %q already exists", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *categoryService) loadOwnCategory(ctx context.Context, b backend.DataBackend, userID, id uuid.UUID) (*model.Category, error) {
	c, err := b.Categories().Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	if c.IsSystem {
		return nil, newError(ErrPermissionDenied, "system categories cannot be modified")
	}
	if !c.OwnedBy(userID) {
		return nil, newError(ErrPermissionDenied, "you do not own this category")
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, in UpdateCategoryInput) (*model.Category, error) {
	b := s.resolver.For(ctx)
	c, err := s.loadOwnCategory(ctx, b, in.UserID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, newError(ErrValidation, "category name cannot be empty")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if err := b.Categories().Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrapError(ErrConflict, err, "a category named %q already exists", c.Name)
		}
		return nil, notFoundOr(err, "category")
	}
	return c, nil
}

// Delete refuses while any of the caller's projects still use the category.
func (s *categoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	b := s.resolver.For(ctx)
	c, err := s.loadOwnCategory(ctx, b, userID, categoryID)
	if err != nil {
		return err
	}
	n, err := b.Projects().CountByCategory(ctx, userID, c.Slug)
	if err != nil {
		return fmt.Errorf("count category usage: %w", err)
	}
	if n > 0 {
		noun := "projects"
		if n == 1 {
			noun = "project"
		}
		return newError(ErrConflict, "category %q is used by %d %s", c.Name, n, noun)
	}
	if err := b.Categories().Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
