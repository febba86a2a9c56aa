package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

const maxPostLength = 280

// PostService owns post creation, editing and deletion
type PostService struct {
	store *repositories.Store
}

// NewPostService creates a new PostService
func NewPostService(store *repositories.Store) *PostService {
	return &PostService{store: store}
}

// CreatePost stores a post of authorID with its media and optional poll
func (s *PostService) CreatePost(ctx context.Context, authorID uint, req *models.CreatePostRequest) (*models.Post, error) {
	content, err := cleanContent(req.Content, maxPostLength)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: authorID, Content: content}
	for i, m := range req.Media {
		post.Media = append(post.Media, models.PostMedia{
			Position: i,
			Path:     strings.TrimSpace(m.Path),
			Type:     m.Type,
		})
	}
	if req.Poll != nil {
		poll, err := models.NewPoll(req.Poll.Question, req.Poll.Options)
		if err != nil {
			return nil, err
		}
		post.SetPoll(poll)
	}

	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"post_id": post.ID, "author_id": authorID}).Info("post created")
	return post, nil
}

// UpdatePost replaces the text of a post owned by userID
func (s *PostService) UpdatePost(ctx context.Context, postID, userID uint, content string) (*models.Post, error) {
	content, err := cleanContent(content, maxPostLength)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = s.store.InTx(ctx, func(tx *repositories.Store) error {
		locked, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}
		if locked.AuthorID != userID {
			return appErrors.ErrNotPostOwner
		}
		if err := tx.Posts.UpdateContent(ctx, postID, content); err != nil {
			return err
		}
		post, err = tx.Posts.GetPostByID(ctx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post owned by userID together with its media, likes,
// retweets and comments. Notifications about the post stay in their
// recipients' inboxes.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return appErrors.ErrNotPostOwner
		}

		if err := tx.Likes.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Retweets.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Comments.DeleteByPostID(ctx, postID); err != nil {
			return err
		}
		return tx.Posts.DeletePost(ctx, postID)
	})
	if err != nil {
		return err
	}

	log.WithField("post_id", postID).Info("post deleted")
	return nil
}
