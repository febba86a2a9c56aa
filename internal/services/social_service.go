package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

// FollowResult is the target's state after follow or unfollow
type FollowResult struct {
	FollowersCount int64 `json:"followers_count"`
	IsFollowing    bool  `json:"is_following"`
}

// Profile is a user as seen by a viewer
type Profile struct {
	models.User
	IsFollowing bool `json:"is_following"`
}

// SocialService maintains the follow graph. Followers and following lists are
// both read from the single follows edge table, so the two directions cannot
// disagree.
type SocialService struct {
	store    *repositories.Store
	notifier Notifier
}

// NewSocialService creates a new SocialService
func NewSocialService(store *repositories.Store, notifier Notifier) *SocialService {
	return &SocialService{store: store, notifier: notifier}
}

// Follow makes actorID follow targetID. Following twice is a no-op.
func (s *SocialService) Follow(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	if actorID == targetID {
		return nil, appErrors.ErrSelfFollow
	}

	var result FollowResult
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := lockPair(ctx, tx, actorID, targetID); err != nil {
			return err
		}

		following, err := tx.Follows.IsFollowing(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if !following {
			if err := tx.Follows.CreateFollow(ctx, &models.Follow{FollowerID: actorID, FollowingID: targetID}); err != nil {
				return err
			}
		}

		if _, err := recountFollows(ctx, tx, actorID); err != nil {
			return err
		}
		followers, err := recountFollows(ctx, tx, targetID)
		if err != nil {
			return err
		}

		result = FollowResult{FollowersCount: followers, IsFollowing: true}
		if following {
			return nil
		}
		return s.notifier.Notify(ctx, tx, &models.Notification{
			Type:        models.NotificationFollow,
			ActorID:     actorID,
			RecipientID: targetID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"follower_id": actorID, "following_id": targetID}).Debug("follow")
	return &result, nil
}

// Unfollow removes the edge actorID -> targetID if it exists
func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	if actorID == targetID {
		return nil, appErrors.ErrSelfFollow
	}

	var result FollowResult
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := lockPair(ctx, tx, actorID, targetID); err != nil {
			return err
		}

		if _, err := tx.Follows.DeleteFollow(ctx, actorID, targetID); err != nil {
			return err
		}

		if _, err := recountFollows(ctx, tx, actorID); err != nil {
			return err
		}
		followers, err := recountFollows(ctx, tx, targetID)
		if err != nil {
			return err
		}

		result = FollowResult{FollowersCount: followers, IsFollowing: false}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile returns userID with whether viewerID (0 for anonymous) follows them
func (s *SocialService) Profile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.store.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: *user}
	if viewerID != 0 && viewerID != userID {
		if profile.IsFollowing, err = s.store.Follows.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Followers lists the users following userID
func (s *SocialService) Followers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.store.Users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// Following lists the users userID follows
func (s *SocialService) Following(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.store.Users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// lockPair locks both users in id order so concurrent follows between the same
// pair cannot deadlock.
func lockPair(ctx context.Context, tx *repositories.Store, a, b uint) error {
	users, err := tx.Users.LockUsers(ctx, a, b)
	if err != nil {
		return err
	}
	if len(users) != 2 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

// recountFollows stores both counters of userID from the edge table and
// returns its followers count.
func recountFollows(ctx context.Context, tx *repositories.Store, userID uint) (int64, error) {
	followers, err := tx.Follows.GetFollowersCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	following, err := tx.Follows.GetFollowingCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := tx.Users.SetFollowCounts(ctx, userID, followers, following); err != nil {
		return 0, err
	}
	return followers, nil
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}
