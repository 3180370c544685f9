package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
)

func TestUpdateProfile_RewritesHistoricalReplies(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	rosa := createTestUser(t, store, "rosa", "Rosa")
	other := createTestUser(t, store, "other", "Other")

	postA, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "first"})
	require.NoError(t, err)
	postB, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "second"})
	require.NoError(t, err)

	// Three replies by rosa across two posts, one by somebody else.
	_, err = svc.AddReply(ctx, postA.ID, rosa.ID, "one")
	require.NoError(t, err)
	_, err = svc.AddReply(ctx, postA.ID, rosa.ID, "two")
	require.NoError(t, err)
	_, err = svc.AddReply(ctx, postB.ID, rosa.ID, "three")
	require.NoError(t, err)
	_, err = svc.AddReply(ctx, postB.ID, other.ID, "bystander")
	require.NoError(t, err)

	newName := "Rosa Luxemburg"
	newPic := "data:image/png;base64,aGVsbG8="
	updated, err := svc.UpdateProfile(ctx, rosa.ID, rosa.ID, ProfileUpdate{
		Name:       &newName,
		ProfilePic: &newPic,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)

	gotA, err := store.PostByID(ctx, postA.ID)
	require.NoError(t, err)
	gotB, err := store.PostByID(ctx, postB.ID)
	require.NoError(t, err)

	for _, r := range gotA.Replies {
		assert.Equal(t, newName, r.Name)
		assert.Equal(t, updated.ProfilePic, r.UserProfilePic)
	}
	require.Len(t, gotB.Replies, 2)
	assert.Equal(t, newName, gotB.Replies[0].Name)
	assert.Equal(t, "Other", gotB.Replies[1].Name, "other users' replies stay untouched")
}

func TestUpdateProfile_NewRepliesCarryNewProfile(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	rosa := createTestUser(t, store, "rosa", "Rosa")
	post, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "hello"})
	require.NoError(t, err)

	newName := "Rosa Luxemburg"
	_, err = svc.UpdateProfile(ctx, rosa.ID, rosa.ID, ProfileUpdate{Name: &newName})
	require.NoError(t, err)

	reply, err := svc.AddReply(ctx, post.ID, rosa.ID, "after rename")
	require.NoError(t, err)
	assert.Equal(t, newName, reply.Name)
}

func TestUpdateProfile_OwnerOnly(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	rosa := createTestUser(t, store, "rosa", "Rosa")
	mallory := createTestUser(t, store, "mallory", "Mallory")

	newName := "Hijacked"
	_, err := svc.UpdateProfile(ctx, mallory.ID, rosa.ID, ProfileUpdate{Name: &newName})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	got, err := store.UserByID(ctx, rosa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", got.Name)
}

func TestUpdateProfile_UsernameConflict(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	createTestUser(t, store, "taken", "Taken")
	rosa := createTestUser(t, store, "rosa", "Rosa")

	taken := "taken"
	_, err := svc.UpdateProfile(ctx, rosa.ID, rosa.ID, ProfileUpdate{Username: &taken})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestSweepReplyProfiles_RepairsStaleReplies(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	rosa := createTestUser(t, store, "rosa", "Rosa")
	post, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "hello"})
	require.NoError(t, err)
	_, err = svc.AddReply(ctx, post.ID, rosa.ID, "stale me")
	require.NoError(t, err)

	// Rename behind the service's back, as if a fan-out had been lost.
	newName := "Rosa Luxemburg"
	_, err = store.UpdateUser(ctx, rosa.ID, storage.UserUpdate{Name: &newName})
	require.NoError(t, err)

	n, err := svc.SweepReplyProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, newName, got.Replies[0].Name)
}
