package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-social/backend/internal/dbtest"
	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

var ctx = context.Background()

type testServices struct {
	store         *repositories.Store
	notifications *NotificationService
	engagement    *EngagementService
	posts         *PostService
	feed          *FeedService
	social        *SocialService
	conversations *ConversationService
	messaging     *MessagingService
}

func newTestServices(t *testing.T, clock Clock) *testServices {
	t.Helper()

	store := dbtest.NewStore(t)
	notifications := NewNotificationService(store, clock)
	conversations := NewConversationService(store)
	return &testServices{
		store:         store,
		notifications: notifications,
		engagement:    NewEngagementService(store, notifications),
		posts:         NewPostService(store),
		feed:          NewFeedService(store),
		social:        NewSocialService(store, notifications),
		conversations: conversations,
		messaging:     NewMessagingService(store, conversations, clock),
	}
}

// frozenClock always returns the same instant
func frozenClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func notificationsOf(t *testing.T, s *testServices, userID uint) []NotificationView {
	t.Helper()

	page, err := s.notifications.ListForUser(ctx, userID, 1, 50)
	require.NoError(t, err)
	return page.Notifications
}

func TestNormalizePage(t *testing.T) {
	tt := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative", -3, -1, 1, 20},
		{"capped", 2, 500, 2, 50},
		{"kept", 3, 10, 3, 10},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := normalizePage(tc.page, tc.limit, defaultPageSize, maxPageSize)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLim, limit)
		})
	}
}

func TestCleanContent(t *testing.T) {
	s, err := cleanContent("  hi  ", 5)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = cleanContent(" \n\t ", 5)
	assert.ErrorIs(t, err, appErrors.ErrEmptyContent)

	_, err = cleanContent("ёёёёёё", 5)
	assert.ErrorIs(t, err, appErrors.ErrContentTooLong)

	s, err = cleanContent("ёёёёё", 5)
	require.NoError(t, err)
	assert.Equal(t, "ёёёёё", s)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "日本...", truncate("日本語です", 2))
}

func seedPost(t *testing.T, s *testServices, author *models.User, options ...string) *models.Post {
	t.Helper()
	return dbtest.CreatePost(t, s.store, author.ID, "hello campus", options...)
}
