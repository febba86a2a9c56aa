package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
)

// ViewPollOption is one poll option as shown to a viewer
type ViewPollOption struct {
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// ViewPoll is the viewer-relative projection of a poll. Voter ids are never
// exposed.
type ViewPoll struct {
	Question            string           `json:"question"`
	Options             []ViewPollOption `json:"options"`
	TotalVotes          int              `json:"total_votes"`
	HasVoted            bool             `json:"has_voted"`
	SelectedOptionIndex *int             `json:"selected_option_index"`
}

// ViewPost is a post materialized for one viewer
type ViewPost struct {
	ID            uint               `json:"id"`
	Author        models.UserCompact `json:"author"`
	Content       string             `json:"content"`
	Media         []models.PostMedia `json:"media"`
	Poll          *ViewPoll          `json:"poll,omitempty"`
	LikesCount    int64              `json:"likes_count"`
	CommentsCount int64              `json:"comments_count"`
	RetweetsCount int64              `json:"retweets_count"`
	IsLiked       bool               `json:"is_liked"`
	IsRetweeted   bool               `json:"is_retweeted"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// FeedPage is one page of the global feed
type FeedPage struct {
	Posts   []ViewPost `json:"posts"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
}

// NewViewPoll projects poll for viewerID; 0 is the anonymous viewer. It
// returns nil when the post has no poll.
func NewViewPoll(poll models.Poll, viewerID uint) *ViewPoll {
	if !poll.Exists() {
		return nil
	}

	percentages := poll.Percentages()
	view := &ViewPoll{
		Question:   poll.Question,
		Options:    make([]ViewPollOption, len(poll.Options)),
		TotalVotes: poll.TotalVotes(),
	}
	for i, o := range poll.Options {
		view.Options[i] = ViewPollOption{Text: o.Text, Votes: o.Votes, Percentage: percentages[i]}
	}

	if viewerID != 0 {
		if selected := poll.SelectedOption(viewerID); selected >= 0 {
			view.HasVoted = true
			view.SelectedOptionIndex = &selected
		}
	}
	return view
}

// FeedService materializes stored posts into viewer-relative views
type FeedService struct {
	store *repositories.Store
}

// NewFeedService creates a new FeedService
func NewFeedService(store *repositories.Store) *FeedService {
	return &FeedService{store: store}
}

// Feed returns the newest posts first
func (s *FeedService) Feed(ctx context.Context, viewerID uint, page, limit int) (*FeedPage, error) {
	page, limit = normalizePage(page, limit, defaultPageSize, maxPageSize)
	skip := (page - 1) * limit

	posts, total, err := s.store.Posts.GetFeed(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.Materialize(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Posts:   views,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(skip+len(posts)) < total,
	}, nil
}

// UserPosts returns the posts authored by userID, newest first
func (s *FeedService) UserPosts(ctx context.Context, userID, viewerID uint, page, limit int) ([]ViewPost, error) {
	if _, err := s.store.Users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit, defaultPageSize, maxPageSize)
	posts, err := s.store.Posts.GetPostsByUserID(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.Materialize(ctx, posts, viewerID)
}

// GetPost returns a single materialized post
func (s *FeedService) GetPost(ctx context.Context, postID, viewerID uint) (*ViewPost, error) {
	post, err := s.store.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	views, err := s.Materialize(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Materialize loads authors and the viewer's like and retweet sets for posts
// and builds their views. It never writes. Order of posts is preserved.
func (s *FeedService) Materialize(ctx context.Context, posts []models.Post, viewerID uint) ([]ViewPost, error) {
	views := make([]ViewPost, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]uint, len(posts))
	authorIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		authorIDs[i] = p.AuthorID
	}

	var (
		authors   map[uint]models.User
		liked     = map[uint]bool{}
		retweeted = map[uint]bool{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = s.store.Users.GetUsersByIDs(gctx, authorIDs)
		return err
	})
	if viewerID != 0 {
		g.Go(func() (err error) {
			liked, err = s.store.Likes.GetLikedPostIDs(gctx, viewerID, postIDs)
			return err
		})
		g.Go(func() (err error) {
			retweeted, err = s.store.Retweets.GetRetweetedPostIDs(gctx, viewerID, postIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, p := range posts {
		media := p.Media
		if media == nil {
			media = []models.PostMedia{}
		}
		views[i] = ViewPost{
			ID:            p.ID,
			Content:       p.Content,
			Media:         media,
			Poll:          NewViewPoll(p.PollData(), viewerID),
			LikesCount:    p.LikesCount,
			CommentsCount: p.CommentsCount,
			RetweetsCount: p.RetweetsCount,
			IsLiked:       liked[p.ID],
			IsRetweeted:   retweeted[p.ID],
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		}
		if author, ok := authors[p.AuthorID]; ok {
			views[i].Author = author.ToCompact()
		}
	}
	return views, nil
}
