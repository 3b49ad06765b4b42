package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/observability"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// ErrAnnouncementNotFound indicates the requested announcement does not exist.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// ErrNotAnnouncementOwner indicates the announcement belongs to another teacher.
var ErrNotAnnouncementOwner = errors.New("announcement is owned by another teacher")

const globalFeedCacheKey = "announcements:global:v1"

// AnnouncementService manages teacher announcements and the per-user feed.
type AnnouncementService interface {
	Create(ctx context.Context, teacher models.User, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, teacher models.User, id string, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, teacher models.User, id string) error
	Dismiss(ctx context.Context, viewer models.User, id string) error
	Feed(ctx context.Context, viewer models.User, page, limit int) (utils.PaginatedData, error)
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	assignments   repository.AssignmentRepository
	cache         *redis.Client
	ttl           time.Duration
	validator     *validator.Validate
	policy        *bluemonday.Policy
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAnnouncementService constructs the announcement service. The cache client
// is optional; without it every feed read goes to the store.
func NewAnnouncementService(announcements repository.AnnouncementRepository, assignments repository.AssignmentRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &announcementService{
		announcements: announcements,
		assignments:   assignments,
		cache:         cache,
		ttl:           ttl,
		validator:     validate,
		policy:        policy,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
		now:           time.Now,
	}
}

func (s *announcementService) Create(ctx context.Context, teacher models.User, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if !teacher.IsTeacher() {
		return dto.AnnouncementResponse{}, ErrTeachersOnly
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	if payload.Scope == models.AnnouncementScopeAssignment {
		assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return dto.AnnouncementResponse{}, ErrAssignmentNotFound
			}
			return dto.AnnouncementResponse{}, err
		}
		if !assignment.OwnedBy(teacher.ID) {
			return dto.AnnouncementResponse{}, ErrNotAssignmentOwner
		}
	}

	announcement := models.Announcement{
		ID:        uuid.NewString(),
		TeacherID: teacher.ID,
		Scope:     payload.Scope,
		Title:     strings.TrimSpace(payload.Title),
		Body:      s.policy.Sanitize(payload.Body),
		IsPinned:  payload.IsPinned,
	}
	if payload.Scope == models.AnnouncementScopeAssignment {
		announcement.AssignmentID = payload.AssignmentID
	}

	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidateFeedCache(ctx)
	s.logger.Info().Str("announcement_id", announcement.ID).Str("scope", announcement.Scope).Msg("announcement created")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Update(ctx context.Context, teacher models.User, id string, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement, err := s.loadOwned(ctx, teacher, id)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}

	if payload.Title != nil {
		announcement.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Body != nil {
		announcement.Body = s.policy.Sanitize(*payload.Body)
	}
	if payload.IsPinned != nil {
		announcement.IsPinned = *payload.IsPinned
	}

	if err := s.announcements.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidateFeedCache(ctx)
	s.logger.Info().Str("announcement_id", announcement.ID).Msg("announcement updated")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Delete(ctx context.Context, teacher models.User, id string) error {
	if _, err := s.loadOwned(ctx, teacher, id); err != nil {
		return err
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.invalidateFeedCache(ctx)
	s.logger.Info().Str("announcement_id", id).Msg("announcement deleted")

	return nil
}

// Dismiss hides an announcement from the caller's feed. Repeat dismissals are
// idempotent.
func (s *announcementService) Dismiss(ctx context.Context, viewer models.User, id string) error {
	if _, err := s.announcements.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	return s.announcements.Dismiss(ctx, viewer.ID, id)
}

// Feed assembles the viewer's announcement feed: global announcements plus
// announcements scoped to assignments the viewer can see, minus dismissed
// ones. Pinned entries sort first, then newest.
func (s *announcementService) Feed(ctx context.Context, viewer models.User, page, limit int) (utils.PaginatedData, error) {
	start := s.now()
	defer func() {
		observability.AnnouncementsLatency().Observe(time.Since(start).Seconds())
	}()

	global, err := s.globalAnnouncements(ctx)
	if err != nil {
		observability.AnnouncementsRequests().WithLabelValues("error").Inc()
		return utils.PaginatedData{}, err
	}

	scoped, err := s.scopedAnnouncements(ctx, viewer)
	if err != nil {
		observability.AnnouncementsRequests().WithLabelValues("error").Inc()
		return utils.PaginatedData{}, err
	}

	dismissed, err := s.announcements.ListDismissedIDs(ctx, viewer.ID)
	if err != nil {
		return utils.PaginatedData{}, err
	}
	hidden := make(map[string]bool, len(dismissed))
	for _, id := range dismissed {
		hidden[id] = true
	}

	feed := make([]models.Announcement, 0, len(global)+len(scoped))
	for _, announcement := range append(global, scoped...) {
		if !hidden[announcement.ID] {
			feed = append(feed, announcement)
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		if feed[i].IsPinned != feed[j].IsPinned {
			return feed[i].IsPinned
		}
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	pageReq := utils.ClampPage(page, limit)
	return utils.Paginate(dto.NewAnnouncementResponseSlice(feed), pageReq), nil
}

// globalAnnouncements serves the shared portion of the feed through the cache.
func (s *announcementService) globalAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, globalFeedCacheKey).Result(); err == nil && cached != "" {
			var announcements []models.Announcement
			if err := json.Unmarshal([]byte(cached), &announcements); err == nil {
				observability.AnnouncementsRequests().WithLabelValues("hit").Inc()
				return announcements, nil
			}
		}
	}

	announcements, err := s.announcements.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(announcements); err == nil {
			if err := s.cache.Set(ctx, globalFeedCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache global announcements")
			}
		}
	}

	observability.AnnouncementsRequests().WithLabelValues("miss").Inc()

	return announcements, nil
}

func (s *announcementService) scopedAnnouncements(ctx context.Context, viewer models.User) ([]models.Announcement, error) {
	var assignments []models.Assignment
	var err error

	if viewer.IsTeacher() {
		assignments, err = s.assignments.ListByTeacher(ctx, viewer.ID)
	} else if len(viewer.EnrolledTeachers) > 0 {
		assignments, err = s.assignments.ListPublishedByTeachers(ctx, viewer.EnrolledTeachers)
	} else {
		assignments, err = s.assignments.ListPublished(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
	}

	return s.announcements.ListByAssignments(ctx, ids)
}

func (s *announcementService) loadOwned(ctx context.Context, teacher models.User, id string) (models.Announcement, error) {
	if !teacher.IsTeacher() {
		return models.Announcement{}, ErrTeachersOnly
	}

	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Announcement{}, ErrAnnouncementNotFound
		}
		return models.Announcement{}, err
	}
	if announcement.TeacherID != teacher.ID {
		return models.Announcement{}, ErrNotAnnouncementOwner
	}
	return announcement, nil
}

func (s *announcementService) invalidateFeedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, globalFeedCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate announcements cache")
	}
}
