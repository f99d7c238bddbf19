package comment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"blogcms/internal/domain"
	"blogcms/internal/repository"
)

type Service interface {
	Submit(ctx context.Context, postID uuid.UUID, input domain.SubmitCommentInput) (*domain.Comment, error)
	ListForPost(ctx context.Context, postID uuid.UUID) ([]*domain.ThreadNode, error)
	ListForAdmin(ctx context.Context, filter domain.CommentFilter, params domain.PaginationParams) (*domain.AdminCommentPage, error)
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
	Moderate(ctx context.Context, moderator domain.Moderator, id uuid.UUID, input domain.ModerateInput) (*domain.Comment, error)
	Delete(ctx context.Context, moderator domain.Moderator, id uuid.UUID) error
	ReplyAsAdmin(ctx context.Context, moderator domain.Moderator, parentID uuid.UUID, input domain.AdminReplyInput) (*domain.Comment, error)
	ApproveThread(ctx context.Context, moderator domain.Moderator, root *domain.ThreadNode) (domain.BulkApproveResult, error)
	ApproveThreadByID(ctx context.Context, moderator domain.Moderator, id uuid.UUID) (domain.BulkApproveResult, error)
	SetNotifier(notifier Notifier)
	Wait()
}

// Notifier is told about new submissions and admin replies. Calls happen in
// the background and their errors are only logged.
type Notifier interface {
	NotifyNewComment(ctx context.Context, comment *domain.Comment) error
	NotifyAdminReply(ctx context.Context, parent, reply *domain.Comment) error
}

// Recorder keeps the moderation activity log.
type Recorder interface {
	Record(ctx context.Context, input domain.CreateModerationEventInput) error
	Forget(ctx context.Context, commentID uuid.UUID) error
}

type Options struct {
	OwnerName   string
	CacheTTL    time.Duration
	BulkWorkers int
	Recorder    Recorder
	Logger      *zap.Logger
}

type service struct {
	commentRepo repository.CommentRepository
	cache       *threadCache
	notifier    Notifier
	recorder    Recorder
	ownerName   string
	bulkWorkers int
	logger      *zap.Logger
	now         func() time.Time
	wg          sync.WaitGroup
}

func NewService(commentRepo repository.CommentRepository, redis *redis.Client, opts Options) Service {
	if opts.OwnerName == "" {
		opts.OwnerName = "Site Owner"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.BulkWorkers < 1 {
		opts.BulkWorkers = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &service{
		commentRepo: commentRepo,
		cache:       &threadCache{client: redis, ttl: opts.CacheTTL},
		recorder:    opts.Recorder,
		ownerName:   opts.OwnerName,
		bulkWorkers: opts.BulkWorkers,
		logger:      opts.Logger,
		now:         time.Now,
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Wait blocks until background notifications have finished.
func (s *service) Wait() {
	s.wg.Wait()
}

func (s *service) Submit(ctx context.Context, postID uuid.UUID, input domain.SubmitCommentInput) (*domain.Comment, error) {
	submission, err := Screen(input)
	if err != nil {
		if domain.IsHoneypot(err) {
			s.logger.Warn("honeypot triggered, submission dropped", zap.String("post_id", postID.String()))
		}
		return nil, err
	}

	if submission.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *submission.ParentID)
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, domain.NewValidationError(domain.ReasonInvalidParent, "parent_id")
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, domain.NewValidationError(domain.ReasonInvalidParent, "parent_id")
		}
	}

	comment := &domain.Comment{
		ID:          uuid.New(),
		PostID:      postID,
		ParentID:    submission.ParentID,
		AuthorName:  submission.AuthorName,
		AuthorEmail: submission.AuthorEmail,
		Content:     submission.Content,
		Status:      submission.Status,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error("failed to store submission", zap.String("post_id", postID.String()), zap.Error(err))
		return nil, err
	}

	s.notify(func(ctx context.Context, n Notifier) error {
		return n.NotifyNewComment(ctx, comment)
	})

	return comment, nil
}

func (s *service) ListForPost(ctx context.Context, postID uuid.UUID) ([]*domain.ThreadNode, error) {
	if threads, ok := s.cache.get(ctx, postID); ok {
		return threads, nil
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	threads := TwoLevel(BuildThreads(FilterApproved(comments)))
	SortRepliesNewestFirst(threads)

	if err := s.cache.set(ctx, postID, threads); err != nil {
		s.logger.Warn("failed to cache comment threads", zap.String("post_id", postID.String()), zap.Error(err))
	}

	return threads, nil
}

func (s *service) ListForAdmin(ctx context.Context, filter domain.CommentFilter, params domain.PaginationParams) (*domain.AdminCommentPage, error) {
	params.Validate()

	comments, total, err := s.commentRepo.ListForAdmin(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	return &domain.AdminCommentPage{
		PaginatedResponse: domain.NewPaginatedResponse(comments, params.Page, params.PageSize, total),
		Threads:           TwoLevel(BuildThreads(comments)),
	}, nil
}

func (s *service) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	return s.commentRepo.CountByStatus(ctx)
}

func (s *service) Moderate(ctx context.Context, moderator domain.Moderator, id uuid.UUID, input domain.ModerateInput) (*domain.Comment, error) {
	update, err := Transition(id, input.Action, moderator, input.ExpectedVersion, s.now())
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.UpdateModeration(ctx, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, comment.PostID)
	s.record(ctx, domain.CreateModerationEventInput{
		ModeratorID: moderator.ID,
		Action:      domain.EventModerated,
		CommentID:   id,
		PostID:      comment.PostID,
		Details:     map[string]any{"action": input.Action, "status": comment.Status},
	})
	s.logger.Info("comment moderated",
		zap.String("comment_id", id.String()),
		zap.String("action", string(input.Action)),
		zap.String("moderator", moderator.ID),
	)

	return comment, nil
}

func (s *service) Delete(ctx context.Context, moderator domain.Moderator, id uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, comment.PostID)
	if s.recorder != nil {
		if err := s.recorder.Forget(ctx, id); err != nil {
			s.logger.Warn("failed to drop moderation events", zap.String("comment_id", id.String()), zap.Error(err))
		}
	}
	s.logger.Info("comment deleted",
		zap.String("comment_id", id.String()),
		zap.String("moderator", moderator.ID),
	)

	return nil
}

func (s *service) ReplyAsAdmin(ctx context.Context, moderator domain.Moderator, parentID uuid.UUID, input domain.AdminReplyInput) (*domain.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domain.NewValidationError(domain.ReasonMissingField, "content")
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return nil, domain.NewValidationError(domain.ReasonTooLong, "content")
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reply := &domain.Comment{
		ID:          uuid.New(),
		PostID:      parent.PostID,
		ParentID:    &parent.ID,
		AuthorName:  s.ownerName,
		Content:     content,
		Status:      domain.StatusApproved,
		ModeratedBy: &moderator.ID,
		ModeratedAt: &now,
	}

	if err := s.commentRepo.Create(ctx, reply); err != nil {
		s.logger.Error("failed to store admin reply", zap.String("parent_id", parentID.String()), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, reply.PostID)
	s.record(ctx, domain.CreateModerationEventInput{
		ModeratorID: moderator.ID,
		Action:      domain.EventReplied,
		CommentID:   reply.ID,
		PostID:      reply.PostID,
		Details:     map[string]any{"parent_id": parentID},
	})
	s.logger.Info("admin reply created",
		zap.String("comment_id", reply.ID.String()),
		zap.String("parent_id", parentID.String()),
		zap.String("moderator", moderator.ID),
	)

	if parent.AuthorEmail != nil {
		s.notify(func(ctx context.Context, n Notifier) error {
			return n.NotifyAdminReply(ctx, parent, reply)
		})
	}

	return reply, nil
}

// ApproveThread approves every pending comment in the subtree under root.
// Approvals are not atomic: on failure the result still counts what was
// approved and a *domain.BulkApproveError lists the ids that were not.
func (s *service) ApproveThread(ctx context.Context, moderator domain.Moderator, root *domain.ThreadNode) (domain.BulkApproveResult, error) {
	result := domain.BulkApproveResult{Failures: []uuid.UUID{}}
	if root == nil {
		return result, nil
	}

	var pending []uuid.UUID
	postIDs := map[uuid.UUID]struct{}{}
	Walk([]*domain.ThreadNode{root}, func(node *domain.ThreadNode) bool {
		if node.Comment.IsPending() {
			pending = append(pending, node.Comment.ID)
			postIDs[node.Comment.PostID] = struct{}{}
		}
		return true
	})
	if len(pending) == 0 {
		return result, nil
	}

	errs := make([]error, len(pending))
	if s.bulkWorkers == 1 {
		for i, id := range pending {
			errs[i] = s.approve(ctx, moderator, id)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.bulkWorkers)
		for i, id := range pending {
			g.Go(func() error {
				errs[i] = s.approve(ctx, moderator, id)
				return nil
			})
		}
		_ = g.Wait()
	}

	var firstErr error
	for i, err := range errs {
		if err != nil {
			result.Failures = append(result.Failures, pending[i])
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.ApprovedCount++
	}

	touched := make([]uuid.UUID, 0, len(postIDs))
	for id := range postIDs {
		touched = append(touched, id)
	}
	s.invalidate(ctx, touched...)
	s.record(ctx, domain.CreateModerationEventInput{
		ModeratorID: moderator.ID,
		Action:      domain.EventThreadApproved,
		CommentID:   root.Comment.ID,
		PostID:      root.Comment.PostID,
		Details:     map[string]any{"approved": result.ApprovedCount, "failures": result.Failures},
	})

	s.logger.Info("thread approved",
		zap.String("root_id", root.Comment.ID.String()),
		zap.Int("approved", result.ApprovedCount),
		zap.Int("failed", len(result.Failures)),
		zap.String("moderator", moderator.ID),
	)

	if firstErr != nil {
		return result, &domain.BulkApproveError{
			Approved: result.ApprovedCount,
			Failures: result.Failures,
			Err:      firstErr,
		}
	}
	return result, nil
}

// ApproveThreadByID rebuilds the thread containing id from every comment of
// its post and approves the subtree rooted at id.
func (s *service) ApproveThreadByID(ctx context.Context, moderator domain.Moderator, id uuid.UUID) (domain.BulkApproveResult, error) {
	target, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return domain.BulkApproveResult{}, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, target.PostID, "")
	if err != nil {
		return domain.BulkApproveResult{}, err
	}

	node := FindNode(BuildThreads(comments), id)
	if node == nil {
		return domain.BulkApproveResult{}, domain.ErrCommentNotFound
	}

	return s.ApproveThread(ctx, moderator, node)
}

func (s *service) approve(ctx context.Context, moderator domain.Moderator, id uuid.UUID) error {
	update, err := Transition(id, domain.ActionApprove, moderator, 0, s.now())
	if err != nil {
		return err
	}
	_, err = s.commentRepo.UpdateModeration(ctx, update)
	return err
}

func (s *service) invalidate(ctx context.Context, postIDs ...uuid.UUID) {
	if err := s.cache.invalidate(ctx, postIDs...); err != nil {
		s.logger.Warn("failed to invalidate comment cache", zap.Error(err))
	}
}

// record never fails the action being logged.
func (s *service) record(ctx context.Context, input domain.CreateModerationEventInput) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, input); err != nil {
		s.logger.Warn("failed to record moderation event",
			zap.String("comment_id", input.CommentID.String()),
			zap.String("action", input.Action),
			zap.Error(err),
		)
	}
}

func (s *service) notify(send func(ctx context.Context, n Notifier) error) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := send(context.Background(), s.notifier); err != nil {
			s.logger.Warn("failed to send comment notification", zap.Error(err))
		}
	}()
}
