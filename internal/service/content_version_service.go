package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gorm.io/datatypes"
)

// VersionRecorder snapshots content after it is written
type VersionRecorder interface {
	Record(ctx context.Context, ct domain.ContentType, b *domain.ContentBase, actorID uint64, note string) error
}

// ContentInvalidator drops every cache entry a content type owns
type ContentInvalidator interface {
	InvalidateCache(ctx context.Context, ct domain.ContentType) error
}

// ContentVersionService manages the snapshot log of every content type
type ContentVersionService struct {
	repo         repository.ContentVersionRepository
	lookup       repository.ContentLookup
	jobs         jobs.Enqueuer
	cache        cache.Service
	invalidator  ContentInvalidator
	autosaveKeep int
	now          func() time.Time
}

// NewContentVersionService creates a new ContentVersionService
func NewContentVersionService(
	repo repository.ContentVersionRepository,
	lookup repository.ContentLookup,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
	autosaveKeep int,
) *ContentVersionService {
	return &ContentVersionService{
		repo:         repo,
		lookup:       lookup,
		jobs:         enqueuer,
		cache:        cacheService,
		autosaveKeep: autosaveKeep,
		now:          time.Now,
	}
}

// UseInvalidator routes post-restore cache invalidation through the content services.
// The registry is built after this service, so it is attached once wiring is done.
func (s *ContentVersionService) UseInvalidator(inv ContentInvalidator) {
	s.invalidator = inv
}

// readableRef loads the content a version belongs to; drafts of others read as missing
func (s *ContentVersionService) readableRef(ctx context.Context, viewer *Actor, ct domain.ContentType, contentID uint64) (*domain.ContentRef, error) {
	ref, err := s.lookup.FindRef(ctx, ct, contentID)
	if err != nil {
		return nil, err
	}
	if ref.Status != domain.StatusPublished && !viewer.CanModify(ref.CreatedByID) {
		return nil, common.ErrNotFound
	}
	return ref, nil
}

// Create stores a snapshot submitted by a client (autosave or manual save).
// Autosaves identical to the latest snapshot are skipped; created reports whether a row was written.
func (s *ContentVersionService) Create(ctx context.Context, actor *Actor, req *domain.CreateVersionRequest) (*domain.ContentVersion, bool, error) {
	ref, err := s.lookup.FindRef(ctx, req.ContentType, req.ContentID)
	if err != nil {
		return nil, false, err
	}
	if !actor.CanModify(ref.CreatedByID) {
		return nil, false, common.ErrForbidden
	}

	version := &domain.ContentVersion{
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Metadata:    req.Metadata,
		IsAutosave:  req.IsAutosave,
		ChangeNote:  req.ChangeNote,
		CreatedByID: actor.UserID,
	}

	if req.IsAutosave {
		latest, err := s.repo.FindLatest(ctx, req.ContentType, req.ContentID)
		if err != nil {
			return nil, false, err
		}
		if latest != nil && latest.SameSnapshot(version) {
			return latest, false, nil
		}
	}

	if err := s.repo.Create(ctx, version); err != nil {
		return nil, false, err
	}

	if req.IsAutosave && s.autosaveKeep > 0 {
		if _, err := s.repo.Prune(ctx, req.ContentType, req.ContentID, s.autosaveKeep, true); err != nil {
			pkglogger.GetLogger().Warn().Err(err).
				Str("content_type", string(req.ContentType)).
				Uint64("content_id", req.ContentID).
				Msg("autosave trim failed")
		}
	}
	return version, true, nil
}

// Record snapshots a content row after a write; an unchanged snapshot is not stored twice
func (s *ContentVersionService) Record(ctx context.Context, ct domain.ContentType, b *domain.ContentBase, actorID uint64, note string) error {
	meta, err := json.Marshal(map[string]interface{}{
		"slug":   b.Slug,
		"status": b.Status,
	})
	if err != nil {
		return err
	}
	version := &domain.ContentVersion{
		ContentType: ct,
		ContentID:   b.ID,
		Title:       b.Title,
		Content:     b.Content,
		Excerpt:     b.Excerpt,
		Metadata:    datatypes.JSON(meta),
		ChangeNote:  note,
		CreatedByID: actorID,
	}
	latest, err := s.repo.FindLatest(ctx, ct, b.ID)
	if err != nil {
		return err
	}
	if latest != nil && latest.SameSnapshot(version) {
		return nil
	}
	return s.repo.Create(ctx, version)
}

// List returns the versions of one content item, newest first
func (s *ContentVersionService) List(ctx context.Context, viewer *Actor, ct domain.ContentType, contentID uint64, page, limit int) ([]*domain.ContentVersion, *common.Meta, error) {
	if !ct.Valid() {
		return nil, nil, common.ErrInvalidType
	}
	if _, err := s.readableRef(ctx, viewer, ct, contentID); err != nil {
		return nil, nil, err
	}
	versions, total, err := s.repo.List(ctx, ct, contentID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return versions, common.NewMeta(page, limit, total), nil
}

// Get returns one version
func (s *ContentVersionService) Get(ctx context.Context, viewer *Actor, id uint64) (*domain.ContentVersion, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.readableRef(ctx, viewer, v.ContentType, v.ContentID); err != nil {
		return nil, err
	}
	return v, nil
}

// Diff compares two versions of the same content item
func (s *ContentVersionService) Diff(ctx context.Context, viewer *Actor, fromID, toID uint64) (*domain.VersionDiff, error) {
	from, err := s.repo.FindByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.FindByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if from.ContentType != to.ContentType || from.ContentID != to.ContentID {
		return nil, common.ErrVersionMismatch
	}
	if _, err := s.readableRef(ctx, viewer, from.ContentType, from.ContentID); err != nil {
		return nil, err
	}
	return DiffVersions(from, to), nil
}

// DiffVersions lists changed fields and a line diff of the content body
func DiffVersions(from, to *domain.ContentVersion) *domain.VersionDiff {
	result := &domain.VersionDiff{From: from.Version, To: to.Version, Changes: []domain.FieldChange{}}

	fields := []struct {
		name          string
		before, after string
	}{
		{"title", from.Title, to.Title},
		{"excerpt", from.Excerpt, to.Excerpt},
		{"content", from.Content, to.Content},
		{"metadata", string(from.Metadata), string(to.Metadata)},
	}
	for _, f := range fields {
		if f.before != f.after {
			change := domain.FieldChange{Field: f.name, From: f.before, To: f.after}
			if f.name == "content" {
				// body is covered by ContentDiff
				change.From, change.To = "", ""
			}
			result.Changes = append(result.Changes, change)
		}
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from.Content, to.Content)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				result.Insertions++
			case diffmatchpatch.DiffDelete:
				result.Deletions++
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	result.ContentDiff = sb.String()
	return result
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Restore applies a version to its content row and records the restore as a new version
func (s *ContentVersionService) Restore(ctx context.Context, actor *Actor, versionID uint64) (*domain.ContentVersion, error) {
	version, err := s.repo.FindByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	ref, err := s.lookup.FindRef(ctx, version.ContentType, version.ContentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(ref.CreatedByID) {
		return nil, common.ErrForbidden
	}

	if err := s.lookup.ApplySnapshot(ctx, version.ContentType, version.ContentID, version.Title, version.Content, version.Excerpt); err != nil {
		return nil, err
	}

	restored := &domain.ContentVersion{
		ContentType: version.ContentType,
		ContentID:   version.ContentID,
		Title:       version.Title,
		Content:     version.Content,
		Excerpt:     version.Excerpt,
		Metadata:    version.Metadata,
		ChangeNote:  fmt.Sprintf("restored from version %d", version.Version),
		CreatedByID: actor.UserID,
	}
	if err := s.repo.Create(ctx, restored); err != nil {
		return nil, err
	}

	s.invalidate(ctx, version.ContentType)
	if ref.Status == domain.StatusPublished {
		if err := s.jobs.EnqueueIndex(ctx, version.ContentType, version.ContentID); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("enqueue reindex after restore failed")
		}
	}
	return restored, nil
}

func (s *ContentVersionService) invalidate(ctx context.Context, ct domain.ContentType) {
	var err error
	if s.invalidator != nil {
		err = s.invalidator.InvalidateCache(ctx, ct)
	} else {
		err = s.cache.InvalidateContent(ctx, string(ct))
	}
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("content_type", string(ct)).Msg("cache invalidation after restore failed")
	}
}

// Prune keeps exactly keepCount newest versions of one content item
func (s *ContentVersionService) Prune(ctx context.Context, actor *Actor, ct domain.ContentType, contentID uint64, keepCount int) (int64, error) {
	if !actor.IsStaff() {
		return 0, common.ErrForbidden
	}
	if keepCount < 1 {
		return 0, fmt.Errorf("%w: keep_count must be at least 1", common.ErrInvalidInput)
	}
	if !ct.Valid() {
		return 0, common.ErrInvalidType
	}
	return s.repo.Prune(ctx, ct, contentID, keepCount, false)
}

// PruneAll applies Prune to every versioned content item (CLI maintenance)
func (s *ContentVersionService) PruneAll(ctx context.Context, keepCount int) (int64, error) {
	if keepCount < 1 {
		return 0, fmt.Errorf("%w: keep_count must be at least 1", common.ErrInvalidInput)
	}
	keys, err := s.repo.ContentKeys(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, k := range keys {
		n, err := s.repo.Prune(ctx, k.ContentType, k.ContentID, keepCount, false)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
