package validators

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/campus-social/backend/internal/models"
)

func TestCustomValidator(t *testing.T) {
	v := NewValidator()
	zero, negative := 0, -1

	tt := []struct {
		name  string
		req   interface{}
		valid bool
	}{
		{"vote zero", &models.VoteRequest{OptionIndex: &zero}, true},
		{"vote missing", &models.VoteRequest{}, false},
		{"vote negative", &models.VoteRequest{OptionIndex: &negative}, false},
		{"comment", &models.CreateCommentRequest{Content: "hi"}, true},
		{"comment empty", &models.CreateCommentRequest{}, false},
		{"post with poll", &models.CreatePostRequest{Content: "p", Poll: &models.PollRequest{Question: "q", Options: []string{"a", "b"}}}, true},
		{"poll one option", &models.CreatePostRequest{Content: "p", Poll: &models.PollRequest{Question: "q", Options: []string{"a"}}}, false},
		{"media type", &models.CreatePostRequest{Content: "p", Media: []models.MediaRequest{{Path: "x", Type: "gif"}}}, false},
		{"conversation", &models.CreateConversationRequest{ParticipantIDs: []uint{2}}, true},
		{"conversation empty", &models.CreateConversationRequest{}, false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.req)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var he *echo.HTTPError
			require.True(t, errors.As(err, &he))
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}
