package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
)

// TaxonomyService manages categories and tags
type TaxonomyService struct {
	repo repository.TaxonomyRepository
}

// NewTaxonomyService creates a new TaxonomyService
func NewTaxonomyService(repo repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{repo: repo}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.repo.ListTags(ctx)
}

// CreateCategory adds a category; duplicates surface as 409
func (s *TaxonomyService) CreateCategory(ctx context.Context, req *domain.TaxonomyRequest) (*domain.Category, error) {
	name, slug, err := taxonomyNames(req)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name, Slug: slug, Description: req.Description}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag adds a tag; duplicates surface as 409
func (s *TaxonomyService) CreateTag(ctx context.Context, req *domain.TaxonomyRequest) (*domain.Tag, error) {
	name, slug, err := taxonomyNames(req)
	if err != nil {
		return nil, err
	}
	tag := &domain.Tag{Name: name, Slug: slug}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id uint64) error {
	return s.repo.DeleteTag(ctx, id)
}

func taxonomyNames(req *domain.TaxonomyRequest) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	slug := req.Slug
	if slug == "" {
		slug = MakeSlug(name)
	}
	return name, slug, nil
}
