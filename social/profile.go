package social

import (
	"context"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
)

// ProfileUpdate carries the optional fields of a profile update: nil means
// leave unchanged. Password must arrive already hashed. ProfilePic is raw
// image data, not a reference; the service uploads it and stores the result.
type ProfileUpdate struct {
	Username   *string
	Name       *string
	Email      *string
	Password   *string
	Bio        *string
	ProfilePic *string
}

// UpdateProfile applies an owner-only profile update and then rewrites the
// denormalized copies of the display fields inside every reply the user ever
// made. The user record is committed first; a fan-out failure is logged and
// reported to the repair sweep by leaving stale replies behind, never by
// rolling the profile back.
func (s *Service) UpdateProfile(ctx context.Context, callerID, userID string, upd ProfileUpdate) (*models.User, error) {
	if callerID != userID {
		return nil, unauthorized("you can't update another user's profile")
	}

	current, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, wrapStore(err, "user not found")
	}

	if upd.ProfilePic != nil {
		if current.ProfilePic != "" {
			if err := s.images.Delete(ctx, current.ProfilePic); err != nil {
				s.log.Error("failed to delete old profile pic", zap.String("user", userID), zap.Error(err))
			}
		}
		ref, err := s.images.Upload(ctx, *upd.ProfilePic)
		if err != nil {
			return nil, upstream("profile pic upload failed", err)
		}
		upd.ProfilePic = &ref
	}

	updated, err := s.users.UpdateUser(ctx, userID, storage.UserUpdate{
		Username:   upd.Username,
		Name:       upd.Name,
		Email:      upd.Email,
		Password:   upd.Password,
		Bio:        upd.Bio,
		ProfilePic: upd.ProfilePic,
	})
	if err != nil {
		return nil, wrapStore(err, "failed to update user")
	}

	if upd.Name != nil || upd.ProfilePic != nil {
		if err := s.PropagateProfileChange(ctx, userID, updated.Name, updated.ProfilePic); err != nil {
			s.log.Error("reply fan-out failed, replies stale until next sweep",
				zap.String("user", userID), zap.Error(err))
		}
	}

	updated.Password = ""
	return updated, nil
}

// PropagateProfileChange rewrites the denormalized display name and avatar in
// every reply authored by userID, across all posts. Best effort: not atomic
// with the user-record write it follows.
func (s *Service) PropagateProfileChange(ctx context.Context, userID, name, profilePic string) error {
	n, err := s.posts.UpdateReplyProfiles(ctx, userID, name, profilePic)
	if err != nil {
		return upstream("reply profile rewrite failed", err)
	}
	s.log.Debug("propagated profile change", zap.String("user", userID), zap.Int("replies", n))
	return nil
}
