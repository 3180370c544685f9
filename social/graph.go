package social

import (
	"context"

	"go.uber.org/zap"
)

// ToggleFollow flips the follow edge from actor to target and returns the
// resulting state (true = actor now follows target).
//
// The edge lives as two directional projections on two independent user
// records. Both writes run in a fixed order, followers side first, with no
// cross-record transaction: a failure after the first write returns an
// Upstream error with Partial set, and the caller must re-read state instead
// of retrying the toggle blindly. The repair job heals any edge left
// one-sided.
func (s *Service) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, invalidArgument("you can't follow/unfollow yourself")
	}

	actor, err := s.users.UserByID(ctx, actorID)
	if err != nil {
		return false, wrapStore(err, "user not found")
	}
	if _, err := s.users.UserByID(ctx, targetID); err != nil {
		return false, wrapStore(err, "user not found")
	}

	if actor.IsFollowing(targetID) {
		if err := s.users.RemoveFollower(ctx, targetID, actorID); err != nil {
			return true, upstream("unfollow failed", err)
		}
		if err := s.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
			return true, partialUpstream("unfollow applied on one side only", err)
		}
		s.log.Debug("unfollowed", zap.String("actor", actorID), zap.String("target", targetID))
		return false, nil
	}

	if err := s.users.AddFollower(ctx, targetID, actorID); err != nil {
		return false, upstream("follow failed", err)
	}
	if err := s.users.AddFollowing(ctx, actorID, targetID); err != nil {
		return false, partialUpstream("follow applied on one side only", err)
	}
	s.log.Debug("followed", zap.String("actor", actorID), zap.String("target", targetID))

	go s.notify.NewFollower(context.Background(), actorID, targetID)
	return true, nil
}
