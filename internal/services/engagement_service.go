package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// LikeResult is the state after a like toggle
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// RetweetResult is the state after a retweet toggle
type RetweetResult struct {
	Retweeted     bool  `json:"retweeted"`
	RetweetsCount int64 `json:"retweets_count"`
}

// CommentView is a comment with its author summary
type CommentView struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// EngagementService toggles likes and retweets, applies poll votes and appends
// comments. Each mutation locks the post row first and recomputes the affected
// counter from its relation before commit.
type EngagementService struct {
	store    *repositories.Store
	notifier Notifier
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(store *repositories.Store, notifier Notifier) *EngagementService {
	return &EngagementService{store: store, notifier: notifier}
}

// ToggleLike flips the like edge of (postID, userID) and returns the resulting
// state. It is not idempotent: callers must use the returned value.
func (s *EngagementService) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	var result LikeResult
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		removed, err := tx.Likes.DeleteLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if !removed {
			if err := tx.Likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: userID}); err != nil {
				return err
			}
		}

		count, err := tx.Likes.GetLikesCountByPostID(ctx, postID)
		if err != nil {
			return err
		}
		if err := tx.Posts.SetLikesCount(ctx, postID, count); err != nil {
			return err
		}

		result = LikeResult{Liked: !removed, LikesCount: count}
		if result.Liked {
			return s.notifier.Notify(ctx, tx, &models.Notification{
				Type:        models.NotificationLike,
				ActorID:     userID,
				RecipientID: post.AuthorID,
				PostID:      &post.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID, "liked": result.Liked}).Debug("like toggled")
	return &result, nil
}

// ToggleRetweet flips the retweet edge of (postID, userID)
func (s *EngagementService) ToggleRetweet(ctx context.Context, postID, userID uint) (*RetweetResult, error) {
	var result RetweetResult
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		removed, err := tx.Retweets.DeleteRetweet(ctx, postID, userID)
		if err != nil {
			return err
		}
		if !removed {
			if err := tx.Retweets.CreateRetweet(ctx, &models.Retweet{PostID: postID, UserID: userID}); err != nil {
				return err
			}
		}

		count, err := tx.Retweets.GetRetweetsCountByPostID(ctx, postID)
		if err != nil {
			return err
		}
		if err := tx.Posts.SetRetweetsCount(ctx, postID, count); err != nil {
			return err
		}

		result = RetweetResult{Retweeted: !removed, RetweetsCount: count}
		if result.Retweeted {
			return s.notifier.Notify(ctx, tx, &models.Notification{
				Type:        models.NotificationRetweet,
				ActorID:     userID,
				RecipientID: post.AuthorID,
				PostID:      &post.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Vote records userID's single vote on the post's poll. A second vote fails
// with ErrAlreadyVoted whatever the option.
func (s *EngagementService) Vote(ctx context.Context, postID, userID uint, optionIndex int) (*models.Poll, error) {
	if optionIndex < 0 {
		return nil, appErrors.ErrOptionOutOfRange
	}

	var poll models.Poll
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		poll = post.PollData()
		if err := poll.Vote(userID, optionIndex); err != nil {
			return err
		}
		return tx.Posts.UpdatePoll(ctx, postID, poll)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"post_id": postID, "user_id": userID, "option": optionIndex}).Debug("poll vote")
	return &poll, nil
}

// CancelVote withdraws userID's vote; ErrNotVoted when there is none.
func (s *EngagementService) CancelVote(ctx context.Context, postID, userID uint) (*models.Poll, error) {
	var poll models.Poll
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		poll = post.PollData()
		if err := poll.CancelVote(userID); err != nil {
			return err
		}
		return tx.Posts.UpdatePoll(ctx, postID, poll)
	})
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// AddComment appends a comment (optionally a reply) and returns it with the
// recounted commentsCount of the post.
func (s *EngagementService) AddComment(ctx context.Context, postID, authorID uint, content string, parentID *uint) (*models.Comment, int64, error) {
	content, err := cleanContent(content, models.MaxCommentLength)
	if err != nil {
		return nil, 0, err
	}

	var (
		comment *models.Comment
		count   int64
	)
	err = s.store.InTx(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.LockPost(ctx, postID)
		if err != nil {
			return err
		}

		var parent *models.Comment
		if parentID != nil {
			if parent, err = tx.Comments.GetCommentByID(ctx, *parentID); err != nil {
				return err
			}
			if parent.PostID != postID {
				return appErrors.ErrParentOnOtherPost
			}
		}

		comment = &models.Comment{PostID: postID, UserID: authorID, ParentID: parentID, Content: content}
		if err := tx.Comments.CreateComment(ctx, comment); err != nil {
			return err
		}

		if count, err = tx.Comments.GetCommentsCountByPostID(ctx, postID); err != nil {
			return err
		}
		if err := tx.Posts.SetCommentsCount(ctx, postID, count); err != nil {
			return err
		}

		if err := s.notifier.Notify(ctx, tx, &models.Notification{
			Type:        models.NotificationComment,
			ActorID:     authorID,
			RecipientID: post.AuthorID,
			PostID:      &post.ID,
			CommentID:   &comment.ID,
		}); err != nil {
			return err
		}
		if parent != nil && parent.UserID != post.AuthorID {
			return s.notifier.Notify(ctx, tx, &models.Notification{
				Type:        models.NotificationComment,
				ActorID:     authorID,
				RecipientID: parent.UserID,
				PostID:      &post.ID,
				CommentID:   &comment.ID,
				Message:     "replied to your comment",
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return comment, count, nil
}

// DeleteComment removes the author's comment with its replies and returns the
// recounted commentsCount.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, userID uint) (int64, error) {
	var count int64
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		comment, err := tx.Comments.GetCommentByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != userID {
			return appErrors.ErrNotCommentOwner
		}

		if _, err := tx.Posts.LockPost(ctx, comment.PostID); err != nil {
			return err
		}
		if _, err := tx.Comments.DeleteCommentThread(ctx, commentID); err != nil {
			return err
		}

		if count, err = tx.Comments.GetCommentsCountByPostID(ctx, comment.PostID); err != nil {
			return err
		}
		return tx.Posts.SetCommentsCount(ctx, comment.PostID, count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListComments returns the comments of a post, oldest first, with authors
func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]CommentView, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.store.Users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c}
		if author, ok := authors[c.UserID]; ok {
			views[i].Author = author.ToCompact()
		}
	}
	return views, nil
}
