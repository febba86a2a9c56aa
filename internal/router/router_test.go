package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-social/backend/internal/dbtest"
	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/internal/services"
	"github.com/anonto42/campus-social/backend/validators"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	store *repositories.Store
	jwt   *middleware.JWTVerifier
	users []*models.User
}

func newTestServer(t *testing.T) *testServer {
	store := dbtest.NewStore(t)
	jwt := middleware.NewJWTVerifier("test-secret")

	e := echo.New()
	e.Validator = validators.NewValidator()
	SetupRoutes(e, store, middleware.NewAuthenticator(jwt), nil)

	return &testServer{t: t, e: e, store: store, jwt: jwt, users: dbtest.CreateUsers(t, store, 3)}
}

func (s *testServer) token(u *models.User) string {
	tok, err := s.jwt.Sign(u.ID, time.Hour)
	require.NoError(s.t, err)
	return tok
}

// do sends a request as user u; nil u is anonymous
func (s *testServer) do(method, path string, u *models.User, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var payload string
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		payload = string(b)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if u != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(u))
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	alice := s.users[0]

	rec := s.do(http.MethodPost, "/api/v1/posts", nil, models.CreatePostRequest{Content: "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))

	rec = s.do(http.MethodGet, "/api/v1/notifications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/conversations", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/feed", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	bad := httptest.NewRecorder()
	s.e.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	rec = s.do(http.MethodGet, "/api/v1/posts/feed", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/profile", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile services.Profile
	decodeData(t, rec, &profile)
	assert.Equal(t, alice.ID, profile.ID)
}

func TestPostEngagementFlow(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.users[0], s.users[1]

	rec := s.do(http.MethodPost, "/api/v1/posts", alice, models.CreatePostRequest{
		Content: "lunch?",
		Poll:    &models.PollRequest{Question: "where", Options: []string{"canteen", "cafe"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post services.ViewPost
	decodeData(t, rec, &post)
	require.NotNil(t, post.Poll)
	assert.Len(t, post.Poll.Options, 2)
	assert.Equal(t, alice.ID, post.Author.ID)

	postPath := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	rec = s.do(http.MethodPost, postPath+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var like services.LikeResult
	decodeData(t, rec, &like)
	assert.Equal(t, services.LikeResult{Liked: true, LikesCount: 1}, like)

	rec = s.do(http.MethodPost, postPath+"/poll/vote", bob, models.VoteRequest{OptionIndex: intPtr(5)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, rec))

	rec = s.do(http.MethodPost, postPath+"/poll/vote", bob, models.VoteRequest{OptionIndex: intPtr(1)})
	require.Equal(t, http.StatusOK, rec.Code)
	var poll services.ViewPoll
	decodeData(t, rec, &poll)
	assert.True(t, poll.HasVoted)
	assert.Equal(t, 100, poll.Options[1].Percentage)

	rec = s.do(http.MethodPost, postPath+"/poll/vote", bob, models.VoteRequest{OptionIndex: intPtr(0)})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, rec))

	rec = s.do(http.MethodPost, postPath+"/comments", bob, models.CreateCommentRequest{Content: "cafe!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, postPath, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var anonymous services.ViewPost
	decodeData(t, rec, &anonymous)
	assert.False(t, anonymous.IsLiked)
	assert.EqualValues(t, 1, anonymous.LikesCount)
	assert.EqualValues(t, 1, anonymous.CommentsCount)
	assert.False(t, anonymous.Poll.HasVoted)

	rec = s.do(http.MethodPut, postPath, bob, models.UpdatePostRequest{Content: "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/notifications/unread-count", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread struct {
		Count int64 `json:"count"`
	}
	decodeData(t, rec, &unread)
	assert.EqualValues(t, 2, unread.Count)

	rec = s.do(http.MethodPost, "/api/v1/notifications/read-all", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/notifications/unread-count", alice, nil)
	decodeData(t, rec, &unread)
	assert.Zero(t, unread.Count)

	rec = s.do(http.MethodGet, "/api/v1/posts/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.users[0], s.users[1]
	path := fmt.Sprintf("/api/v1/users/%d", bob.ID)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, path+"/follow", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var res services.FollowResult
		decodeData(t, rec, &res)
		assert.Equal(t, services.FollowResult{FollowersCount: 1, IsFollowing: true}, res)
	}

	rec := s.do(http.MethodGet, path, alice, nil)
	var profile services.Profile
	decodeData(t, rec, &profile)
	assert.True(t, profile.IsFollowing)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, path+"/followers", nil, nil)
	var followers struct {
		Users []models.UserCompact `json:"users"`
	}
	decodeData(t, rec, &followers)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, alice.ID, followers.Users[0].ID)
}

func TestConversationFlow(t *testing.T) {
	s := newTestServer(t)
	alice, bob, carol := s.users[0], s.users[1], s.users[2]

	rec := s.do(http.MethodPost, "/api/v1/conversations", alice, models.CreateConversationRequest{ParticipantIDs: []uint{bob.ID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conv services.ConversationView
	decodeData(t, rec, &conv)
	assert.Len(t, conv.Participants, 2)
	assert.Nil(t, conv.LastMessage)

	rec = s.do(http.MethodPost, "/api/v1/conversations", bob, models.CreateConversationRequest{ParticipantIDs: []uint{alice.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	var again services.ConversationView
	decodeData(t, rec, &again)
	assert.Equal(t, conv.ID, again.ID)

	messagesPath := fmt.Sprintf("/api/v1/conversations/%d/messages", conv.ID)

	rec = s.do(http.MethodPost, messagesPath, alice, models.SendMessageRequest{Content: "hey bob"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg models.Message
	decodeData(t, rec, &msg)
	assert.Equal(t, alice.ID, msg.SenderID)

	rec = s.do(http.MethodPost, messagesPath, carol, models.SendMessageRequest{Content: "let me in"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, messagesPath, carol, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/conversations", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Conversations []services.ConversationView `json:"conversations"`
	}
	decodeData(t, rec, &list)
	require.Len(t, list.Conversations, 1)
	require.NotNil(t, list.Conversations[0].LastMessage)
	assert.Equal(t, "hey bob", list.Conversations[0].LastMessage.Content)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d", msg.ID), bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d", msg.ID), alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, messagesPath, bob, nil)
	var messages struct {
		Messages []models.Message `json:"messages"`
	}
	decodeData(t, rec, &messages)
	assert.Empty(t, messages.Messages)
}

func intPtr(i int) *int { return &i }
