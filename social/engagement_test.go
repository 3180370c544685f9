package social

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
)

func TestToggleLike_RoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	fan := createTestUser(t, store, "fan", "Fan")

	post, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "hello"})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fan.ID}, got.Likes)

	liked, err = svc.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestToggleLike_UnknownPost(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	fan := createTestUser(t, store, "fan", "Fan")

	_, err := svc.ToggleLike(ctx, "missing", fan.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAddReply_DenormalizesAuthorProfile(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	replier := createTestUser(t, store, "replier", "Rosa Reply")

	pic := "https://example.com/rosa.png"
	_, err := store.UpdateUser(ctx, replier.ID, storage.UserUpdate{ProfilePic: &pic})
	require.NoError(t, err)

	post, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "hello"})
	require.NoError(t, err)

	reply, err := svc.AddReply(ctx, post.ID, replier.ID, "nice one")
	require.NoError(t, err)
	assert.Equal(t, "Rosa Reply", reply.Name)
	assert.Equal(t, pic, reply.UserProfilePic)
	assert.Equal(t, replier.ID, reply.UserID)

	got, err := store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, "nice one", got.Replies[0].Text)
	assert.Equal(t, "Rosa Reply", got.Replies[0].Name)
}

func TestAddReply_ValidatesText(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author", "Author")
	post, err := store.CreatePost(ctx, &models.Post{PostedBy: author.ID, Text: "hello"})
	require.NoError(t, err)

	_, err = svc.AddReply(ctx, post.ID, author.ID, "   ")
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = svc.AddReply(ctx, post.ID, author.ID, strings.Repeat("x", models.MaxTextLength+1))
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	got, err := store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Replies)
}

func TestAddReply_UnknownPost(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	replier := createTestUser(t, store, "replier", "Replier")

	_, err := svc.AddReply(ctx, "missing", replier.ID, "hi")
	assert.Equal(t, KindNotFound, KindOf(err))
}
