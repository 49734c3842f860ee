package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// AuthorService manages author bylines
type AuthorService struct {
	repo   repository.AuthorRepository
	users  repository.UserRepository
	lookup repository.ContentLookup
}

// NewAuthorService creates a new AuthorService
func NewAuthorService(repo repository.AuthorRepository, users repository.UserRepository, lookup repository.ContentLookup) *AuthorService {
	return &AuthorService{repo: repo, users: users, lookup: lookup}
}

// Create adds an author; the slug comes from the name unless given
func (s *AuthorService) Create(ctx context.Context, req *domain.AuthorRequest) (*domain.Author, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	author := &domain.Author{
		Name:      name,
		Slug:      req.Slug,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Website:   req.Website,
	}
	if author.Slug == "" {
		author.Slug = MakeSlug(name)
	}
	if err := s.checkSlug(ctx, author.Slug, 0); err != nil {
		return nil, err
	}
	if req.UserID != nil {
		if err := s.checkUserLink(ctx, *req.UserID, 0); err != nil {
			return nil, err
		}
		author.UserID = req.UserID
	}

	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Update changes an author; a name change regenerates the slug unless one is given
func (s *AuthorService) Update(ctx context.Context, id uint64, req *domain.UpdateAuthorRequest) (*domain.Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", common.ErrInvalidInput)
		}
		if name != author.Name && req.Slug == nil {
			author.Slug = MakeSlug(name)
		}
		author.Name = name
	}
	if req.Slug != nil {
		author.Slug = *req.Slug
	}
	if req.Bio != nil {
		author.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		author.AvatarURL = *req.AvatarURL
	}
	if req.Website != nil {
		author.Website = *req.Website
	}
	if req.UserID != nil {
		if err := s.checkUserLink(ctx, *req.UserID, id); err != nil {
			return nil, err
		}
		author.UserID = req.UserID
	}
	if err := s.checkSlug(ctx, author.Slug, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) checkSlug(ctx context.Context, slug string, excludeID uint64) error {
	taken, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return common.ErrSlugConflict
	}
	return nil
}

// checkUserLink: the user must exist and not be linked to another author
func (s *AuthorService) checkUserLink(ctx context.Context, userID, authorID uint64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	linked, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if linked.ID != authorID {
		return common.ErrAuthorLinked
	}
	return nil
}

// Delete removes an author that no content references
func (s *AuthorService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	counts, err := s.lookup.CountByAuthor(ctx, id, false)
	if err != nil {
		return err
	}
	for _, n := range counts {
		if n > 0 {
			return common.ErrAuthorHasContent
		}
	}
	return s.repo.Delete(ctx, id)
}

// GetBySlug returns one author
func (s *AuthorService) GetBySlug(ctx context.Context, slug string) (*domain.Author, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// GetByID returns one author
func (s *AuthorService) GetByID(ctx context.Context, id uint64) (*domain.Author, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of authors, optionally filtered by name
func (s *AuthorService) List(ctx context.Context, search string, page, limit int) ([]*domain.Author, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > ginutil.MaxPageSize {
		limit = ginutil.DefaultPageSize
	}
	authors, total, err := s.repo.List(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return nil, nil, err
	}
	return authors, common.NewMeta(page, limit, total), nil
}

// ContentSummary counts the author's published content per type
func (s *AuthorService) ContentSummary(ctx context.Context, slug string) (*domain.AuthorContentSummary, error) {
	author, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	counts, err := s.lookup.CountByAuthor(ctx, author.ID, true)
	if err != nil {
		return nil, err
	}
	summary := &domain.AuthorContentSummary{Author: author, Counts: make(map[domain.ContentType]int64, len(domain.ContentTypes))}
	for _, ct := range domain.ContentTypes {
		summary.Counts[ct] = counts[ct]
		summary.Total += counts[ct]
	}
	return summary, nil
}
