package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-social/backend/internal/dbtest"
	"github.com/anonto42/campus-social/backend/internal/models"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

func TestPostService_CreatePost(t *testing.T) {
	s := newTestServices(t, nil)
	author := dbtest.CreateUser(t, s.store, "author")

	post, err := s.posts.CreatePost(ctx, author.ID, &models.CreatePostRequest{
		Content: " which day? ",
		Poll:    &models.PollRequest{Question: "day", Options: []string{"mon", "tue"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "which day?", post.Content)

	stored, err := s.store.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	poll := stored.PollData()
	require.True(t, poll.Exists())
	assert.Equal(t, "tue", poll.Options[1].Text)
	assert.Zero(t, poll.TotalVotes())

	_, err = s.posts.CreatePost(ctx, author.ID, &models.CreatePostRequest{
		Content: "bad poll",
		Poll:    &models.PollRequest{Question: "q", Options: []string{"only"}},
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidPoll)

	_, err = s.posts.CreatePost(ctx, author.ID, &models.CreatePostRequest{Content: "  "})
	assert.ErrorIs(t, err, appErrors.ErrEmptyContent)

	_, err = s.posts.CreatePost(ctx, 999, &models.CreatePostRequest{Content: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestPostService_UpdatePost(t *testing.T) {
	s := newTestServices(t, nil)
	users := dbtest.CreateUsers(t, s.store, 2)
	post := seedPost(t, s, users[0])

	_, err := s.posts.UpdatePost(ctx, post.ID, users[1].ID, "hijack")
	assert.ErrorIs(t, err, appErrors.ErrNotPostOwner)
	assert.Equal(t, appErrors.CodePermissionDenied, appErrors.CodeOf(err))

	updated, err := s.posts.UpdatePost(ctx, post.ID, users[0].ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestPostService_DeletePost(t *testing.T) {
	s := newTestServices(t, nil)
	users := dbtest.CreateUsers(t, s.store, 2)
	author, fan := users[0], users[1]
	post := seedPost(t, s, author)

	_, err := s.engagement.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	_, err = s.engagement.ToggleRetweet(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	_, _, err = s.engagement.AddComment(ctx, post.ID, fan.ID, "hi", nil)
	require.NoError(t, err)
	require.Len(t, notificationsOf(t, s, author.ID), 3)

	assert.ErrorIs(t, s.posts.DeletePost(ctx, post.ID, fan.ID), appErrors.ErrNotPostOwner)
	require.NoError(t, s.posts.DeletePost(ctx, post.ID, author.ID))

	_, err = s.store.Posts.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, appErrors.ErrPostNotFound)
	liked, err := s.store.Likes.HasUserLikedPost(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	comments, err := s.store.Comments.GetCommentsCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, comments)
	assert.Len(t, notificationsOf(t, s, author.ID), 3)

	assert.ErrorIs(t, s.posts.DeletePost(ctx, post.ID, author.ID), appErrors.ErrPostNotFound)
}

func TestPostService_DeletePost_KeepsOtherInboxes(t *testing.T) {
	s := newTestServices(t, nil)
	users := dbtest.CreateUsers(t, s.store, 3)
	author, commenter, replier := users[0], users[1], users[2]
	post := seedPost(t, s, author)

	comment, _, err := s.engagement.AddComment(ctx, post.ID, commenter.ID, "first", nil)
	require.NoError(t, err)
	_, _, err = s.engagement.AddComment(ctx, post.ID, replier.ID, "reply", &comment.ID)
	require.NoError(t, err)

	require.Len(t, notificationsOf(t, s, author.ID), 2)
	before := notificationsOf(t, s, commenter.ID)
	require.Len(t, before, 1)

	require.NoError(t, s.posts.DeletePost(ctx, post.ID, author.ID))

	after := notificationsOf(t, s, commenter.ID)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, replier.ID, after[0].Actor.ID)
	require.NotNil(t, after[0].PostID)
	assert.Equal(t, post.ID, *after[0].PostID)
	assert.Len(t, notificationsOf(t, s, author.ID), 2)

	require.NoError(t, s.notifications.MarkRead(ctx, after[0].ID, commenter.ID))
	unread, err := s.notifications.UnreadCount(ctx, commenter.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	grouped, err := s.notifications.Grouped(ctx, commenter.ID)
	require.NoError(t, err)
	assert.Len(t, grouped.Today, 1)
}
