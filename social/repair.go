package social

import (
	"context"

	"go.uber.org/zap"
)

// ReconcileFollowGraph scans every user record for one-sided follow edges
// and completes the missing half. A half-edge means one of the two writes of
// a toggle landed and the other did not; since the first write expressed the
// caller's intent, healing completes the edge rather than dropping it.
// Returns the number of writes applied.
func (s *Service) ReconcileFollowGraph(ctx context.Context) (int, error) {
	users, err := s.users.AllUsers(ctx)
	if err != nil {
		return 0, upstream("user scan failed", err)
	}

	byID := make(map[string]map[string]bool, len(users))
	following := make(map[string]map[string]bool, len(users))
	for _, u := range users {
		byID[u.ID] = toSet(u.Followers)
		following[u.ID] = toSet(u.Following)
	}

	healed := 0
	for _, u := range users {
		for target := range following[u.ID] {
			followers, exists := byID[target]
			if !exists || followers[u.ID] {
				continue
			}
			if err := s.users.AddFollower(ctx, target, u.ID); err != nil {
				s.log.Error("failed to heal follower side", zap.String("user", target), zap.Error(err))
				continue
			}
			healed++
		}
		for follower := range byID[u.ID] {
			fw, exists := following[follower]
			if !exists || fw[u.ID] {
				continue
			}
			if err := s.users.AddFollowing(ctx, follower, u.ID); err != nil {
				s.log.Error("failed to heal following side", zap.String("user", follower), zap.Error(err))
				continue
			}
			healed++
		}
	}

	if healed > 0 {
		s.log.Info("healed one-sided follow edges", zap.Int("writes", healed))
	}
	return healed, nil
}

// SweepReplyProfiles re-propagates every user's current display name and
// avatar into their replies, fixing anything a failed fan-out left stale.
// Returns the number of replies rewritten.
func (s *Service) SweepReplyProfiles(ctx context.Context) (int, error) {
	users, err := s.users.AllUsers(ctx)
	if err != nil {
		return 0, upstream("user scan failed", err)
	}

	total := 0
	for _, u := range users {
		n, err := s.posts.UpdateReplyProfiles(ctx, u.ID, u.Name, u.ProfilePic)
		if err != nil {
			s.log.Error("reply sweep failed for user", zap.String("user", u.ID), zap.Error(err))
			continue
		}
		total += n
	}
	return total, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
