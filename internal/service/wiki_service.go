package service

import (
	"context"
	"errors"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
)

// WikiService manages wiki pages and their hierarchy
type WikiService struct {
	*ContentService[domain.WikiPage, *domain.WikiPage]
	wiki  repository.WikiRepository
	cache cache.Service
}

// NewWikiService creates a new WikiService
func NewWikiService(
	repo repository.WikiRepository,
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
) *WikiService {
	base := NewContentService[domain.WikiPage, *domain.WikiPage](repo, versions, enqueuer, cacheService)
	base.extraKeys = []string{cache.WikiTreeKey()}
	return &WikiService{ContentService: base, wiki: repo, cache: cacheService}
}

// CreatePage creates a page; the parent must exist
func (s *WikiService) CreatePage(ctx context.Context, actor *Actor, req *domain.CreateWikiPageRequest) (*domain.WikiPage, error) {
	if req.ParentID != nil {
		if err := s.checkParentExists(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}
	return s.Create(ctx, actor, &req.ContentRequest, func(p *domain.WikiPage) {
		p.ParentID = req.ParentID
	})
}

// UpdatePage updates a page; moving it under itself or one of its descendants is rejected
func (s *WikiService) UpdatePage(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateWikiPageRequest) (*domain.WikiPage, error) {
	var parentID *uint64
	moving := false
	switch {
	case req.ClearParent:
		moving = true
	case req.ParentID != nil:
		moving = true
		parentID = req.ParentID
		if *parentID == id {
			return nil, common.ErrSelfParent
		}
		if err := s.checkParentExists(ctx, *parentID); err != nil {
			return nil, err
		}
		circular, err := s.WouldCreateCircularReference(ctx, id, *parentID)
		if err != nil {
			return nil, err
		}
		if circular {
			return nil, common.ErrCircularReference
		}
	}

	return s.Update(ctx, actor, id, &req.UpdateContentRequest, func(p *domain.WikiPage) {
		if moving {
			p.ParentID = parentID
		}
	})
}

// DeletePage deletes a leaf page; pages with children are kept
func (s *WikiService) DeletePage(ctx context.Context, actor *Actor, id uint64) error {
	children, err := s.wiki.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return common.ErrHasChildren
	}
	return s.Delete(ctx, actor, id)
}

func (s *WikiService) checkParentExists(ctx context.Context, parentID uint64) error {
	if _, err := s.wiki.FindNode(ctx, parentID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrParentNotFound
		}
		return err
	}
	return nil
}

// WouldCreateCircularReference walks parent pointers upward from parentID
// and reports whether the walk reaches pageID.
func (s *WikiService) WouldCreateCircularReference(ctx context.Context, pageID, parentID uint64) (bool, error) {
	visited := make(map[uint64]struct{})
	current := parentID
	for {
		if current == pageID {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			// 기존 데이터에 이미 순환이 있음
			return true, nil
		}
		visited[current] = struct{}{}

		node, err := s.wiki.FindNode(ctx, current)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if node.ParentID == nil {
			return false, nil
		}
		current = *node.ParentID
	}
}

// Tree returns the published pages as a forest, title-ordered, at most MaxWikiTreeDepth levels deep
func (s *WikiService) Tree(ctx context.Context) ([]*domain.WikiTreeNode, error) {
	var cached []*domain.WikiTreeNode
	if err := s.cache.Get(ctx, cache.WikiTreeKey(), &cached); err == nil {
		return cached, nil
	}

	pages, err := s.wiki.FindPublishedNodes(ctx)
	if err != nil {
		return nil, err
	}
	tree := BuildWikiTree(pages, domain.MaxWikiTreeDepth)
	_ = s.cache.Set(ctx, cache.WikiTreeKey(), tree, cache.TTLWikiTree)
	return tree, nil
}

// BuildWikiTree groups pages by parent; pages must already be ordered by title.
// Pages whose parent is not in the set are unreachable and left out.
func BuildWikiTree(pages []*domain.WikiPage, maxDepth int) []*domain.WikiTreeNode {
	byParent := make(map[uint64][]*domain.WikiPage)
	var roots []*domain.WikiPage
	for _, p := range pages {
		if p.ParentID == nil {
			roots = append(roots, p)
			continue
		}
		byParent[*p.ParentID] = append(byParent[*p.ParentID], p)
	}

	var build func(list []*domain.WikiPage, depth int) []*domain.WikiTreeNode
	build = func(list []*domain.WikiPage, depth int) []*domain.WikiTreeNode {
		nodes := make([]*domain.WikiTreeNode, 0, len(list))
		for _, p := range list {
			node := &domain.WikiTreeNode{ID: p.ID, Title: p.Title, Slug: p.Slug, Children: []*domain.WikiTreeNode{}}
			if depth < maxDepth {
				node.Children = build(byParent[p.ID], depth+1)
			}
			nodes = append(nodes, node)
		}
		return nodes
	}
	return build(roots, 1)
}

// Breadcrumbs returns the root-first path to the page with the given slug
func (s *WikiService) Breadcrumbs(ctx context.Context, viewer *Actor, slug string) ([]domain.Breadcrumb, error) {
	page, err := s.wiki.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.IsPublished() && !viewer.CanModify(page.CreatedByID) {
		return nil, common.ErrNotFound
	}

	crumbs := []domain.Breadcrumb{{ID: page.ID, Title: page.Title, Slug: page.Slug}}
	visited := map[uint64]struct{}{page.ID: {}}
	parentID := page.ParentID
	for parentID != nil {
		if _, seen := visited[*parentID]; seen {
			break
		}
		visited[*parentID] = struct{}{}

		node, err := s.wiki.FindNode(ctx, *parentID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				break
			}
			return nil, err
		}
		crumbs = append(crumbs, domain.Breadcrumb{ID: node.ID, Title: node.Title, Slug: node.Slug})
		parentID = node.ParentID
	}

	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs, nil
}

// Children lists the direct children of a page; non-staff see only published ones
func (s *WikiService) Children(ctx context.Context, viewer *Actor, id uint64) ([]*domain.WikiPage, error) {
	if _, err := s.wiki.FindNode(ctx, id); err != nil {
		return nil, err
	}
	children, err := s.wiki.FindChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.IsStaff() {
		return children, nil
	}
	visible := children[:0]
	for _, c := range children {
		if c.IsPublished() || viewer.CanModify(c.CreatedByID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}
