package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"community_hub/internal/domain/post/model"
	"community_hub/internal/domain/post/repository"
	"community_hub/pkg/apperr"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"
	baseModel "community_hub/pkg/model"
	"community_hub/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MembershipChecker 发帖权限检查，由群组服务实现
type MembershipChecker interface {
	CanCreatePost(ctx context.Context, userID, groupID string) (bool, error)
}

// ImageOwner 判断图片是否由本服务上传
type ImageOwner interface {
	Manages(url string) bool
}

// CleanupScheduler 异步删除图片
type CleanupScheduler interface {
	Schedule(url string) bool
}

// PostInput 创建/更新帖子输入
type PostInput struct {
	Type     model.PostType
	Title    string
	Content  string
	Image    string
	GroupID  *string
	Location string
	Date     *time.Time
}

type PostService interface {
	ListPosts(ctx context.Context, page, limit int) (*utils.PageResult, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, authorID string, input PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, actorID, id string, input PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, actorID, id string) error

	Like(ctx context.Context, userID, postID string) (*model.Post, error)
	Unlike(ctx context.Context, userID, postID string) (*model.Post, error)
	Dislike(ctx context.Context, userID, postID string) (*model.Post, error)
	Undislike(ctx context.Context, userID, postID string) (*model.Post, error)

	AddComment(ctx context.Context, postID, authorID, text string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
	LikeComment(ctx context.Context, commentID string) (*model.Comment, error)
	UnlikeComment(ctx context.Context, commentID string) (*model.Comment, error)
}

type postService struct {
	repo    repository.PostRepository
	groups  MembershipChecker
	images  ImageOwner
	cleanup CleanupScheduler
	metrics *metrics.MetricsCollector
}

// NewPostService images 与 cleanup 可以为 nil，此时不清理图片
func NewPostService(repo repository.PostRepository, groups MembershipChecker, images ImageOwner, cleanup CleanupScheduler, collector *metrics.MetricsCollector) PostService {
	return &postService{
		repo:    repo,
		groups:  groups,
		images:  images,
		cleanup: cleanup,
		metrics: collector,
	}
}

func checkID(id, what string) error {
	if !baseModel.IsValidID(id) {
		return apperr.Validation("invalid %s id", what)
	}
	return nil
}

func (s *postService) ListPosts(ctx context.Context, page, limit int) (*utils.PageResult, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()

	posts, total, err := s.repo.GetPosts(ctx, offset, limit)
	if err != nil {
		return nil, apperr.Internal(err, "list posts")
	}
	if posts == nil {
		posts = make([]model.Post, 0)
	}
	return &utils.PageResult{List: posts, Total: total, Page: p.Page, Limit: limit}, nil
}

// GetPost 获取帖子并增加浏览数，浏览数更新失败不影响读取
func (s *postService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if err := checkID(id, "post"); err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		logger.Log.Warn("increment post views failed", zap.String("post_id", id), zap.Error(err))
	} else {
		s.metrics.RecordPostInteraction("view")
	}

	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return post, nil
}

func validateInput(input PostInput) error {
	if !input.Type.Valid() {
		return apperr.Validation("invalid post type %q", input.Type)
	}
	if strings.TrimSpace(input.Title) == "" {
		return apperr.Validation("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return apperr.Validation("content is required")
	}
	return nil
}

func (s *postService) CreatePost(ctx context.Context, authorID string, input PostInput) (*model.Post, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.GroupID != nil && *input.GroupID == "" {
		input.GroupID = nil
	}
	if input.GroupID != nil {
		ok, err := s.groups.CanCreatePost(ctx, authorID, *input.GroupID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Forbidden("you must be a member of this group to post")
		}
	}

	post := &model.Post{
		Type:     input.Type,
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		Image:    input.Image,
		AuthorID: authorID,
		GroupID:  input.GroupID,
		Location: input.Location,
		Date:     input.Date,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, apperr.FromStore(err, "post")
	}

	created, err := s.repo.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return created, nil
}

// ownedPost 获取帖子并校验作者
func (s *postService) ownedPost(ctx context.Context, actorID, id string) (*model.Post, error) {
	if err := checkID(id, "post"); err != nil {
		return nil, err
	}
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	if post.AuthorID != actorID {
		return nil, apperr.Forbidden("only the author can modify this post")
	}
	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, actorID, id string, input PostInput) (*model.Post, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	post, err := s.ownedPost(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	oldImage := post.Image
	post.Type = input.Type
	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Image = input.Image
	post.Location = input.Location
	post.Date = input.Date

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, apperr.Internal(err, "update post")
	}
	if oldImage != post.Image {
		s.scheduleCleanup(oldImage)
	}
	return post, nil
}

// DeletePost 删除帖子，图片清理失败只记录日志
func (s *postService) DeletePost(ctx context.Context, actorID, id string) error {
	post, err := s.ownedPost(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return apperr.FromStore(err, "post")
	}
	s.scheduleCleanup(post.Image)
	return nil
}

func (s *postService) scheduleCleanup(image string) {
	if image == "" || s.images == nil || s.cleanup == nil || !s.images.Manages(image) {
		return
	}
	if !s.cleanup.Schedule(image) {
		logger.Log.Warn("image cleanup not scheduled", zap.String("image", image))
	}
}

// --- Reaction ---

func (s *postService) Like(ctx context.Context, userID, postID string) (*model.Post, error) {
	return s.react(ctx, userID, postID, model.ReactionLike, true)
}

func (s *postService) Unlike(ctx context.Context, userID, postID string) (*model.Post, error) {
	return s.react(ctx, userID, postID, model.ReactionLike, false)
}

func (s *postService) Dislike(ctx context.Context, userID, postID string) (*model.Post, error) {
	return s.react(ctx, userID, postID, model.ReactionDislike, true)
}

func (s *postService) Undislike(ctx context.Context, userID, postID string) (*model.Post, error) {
	return s.react(ctx, userID, postID, model.ReactionDislike, false)
}

// react 集合语义：重复添加/删除没有额外效果
func (s *postService) react(ctx context.Context, userID, postID string, kind model.ReactionKind, add bool) (*model.Post, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	var err error
	action := string(kind)
	if add {
		err = s.repo.AddReaction(ctx, postID, userID, kind)
	} else {
		err = s.repo.RemoveReaction(ctx, postID, userID, kind)
		action = "un" + action
	}
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.NotFound("post")
		}
		return nil, apperr.Internal(err, "update reaction")
	}
	s.metrics.RecordPostInteraction(action)

	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, apperr.FromStore(err, "post")
	}
	return post, nil
}

func (s *postService) ensurePost(ctx context.Context, postID string) error {
	if err := checkID(postID, "post"); err != nil {
		return err
	}
	ok, err := s.repo.Exists(ctx, postID)
	if err != nil {
		return apperr.Internal(err, "check post")
	}
	if !ok {
		return apperr.NotFound("post")
	}
	return nil
}

// --- Comment ---

func (s *postService) AddComment(ctx context.Context, postID, authorID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.NotFound("post")
		}
		return nil, apperr.Internal(err, "create comment")
	}
	s.metrics.RecordPostInteraction("comment")

	created, err := s.repo.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, apperr.FromStore(err, "comment")
	}
	return created, nil
}

func (s *postService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.repo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal(err, "list comments")
	}
	return comments, nil
}

func (s *postService) LikeComment(ctx context.Context, commentID string) (*model.Comment, error) {
	return s.adjustCommentLikes(ctx, commentID, 1, "comment_like")
}

func (s *postService) UnlikeComment(ctx context.Context, commentID string) (*model.Comment, error) {
	return s.adjustCommentLikes(ctx, commentID, -1, "comment_unlike")
}

func (s *postService) adjustCommentLikes(ctx context.Context, commentID string, delta int, action string) (*model.Comment, error) {
	if err := checkID(commentID, "comment"); err != nil {
		return nil, err
	}
	if err := s.repo.AdjustCommentLikes(ctx, commentID, delta); err != nil {
		return nil, apperr.FromStore(err, "comment")
	}
	s.metrics.RecordPostInteraction(action)

	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, apperr.FromStore(err, "comment")
	}
	return comment, nil
}
