package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	store := memory.New()
	return NewService(store, store, nil, nil, nil), store
}

func createTestUser(t *testing.T, store *memory.Store, username, name string) *models.User {
	u, err := store.CreateUser(context.Background(), &models.User{
		Username: username,
		Name:     name,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func TestToggleFollow_FollowIsSymmetric(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")
	bob := createTestUser(t, store, "bob", "Bob")

	following, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	gotAlice, err := store.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	gotBob, err := store.UserByID(ctx, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{bob.ID}, gotAlice.Following)
	assert.Equal(t, []string{alice.ID}, gotBob.Followers)
	assert.Empty(t, gotAlice.Followers)
	assert.Empty(t, gotBob.Following)
}

func TestToggleFollow_SecondCallUnfollows(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")
	bob := createTestUser(t, store, "bob", "Bob")

	following, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, following)

	following, err = svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	gotAlice, err := store.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	gotBob, err := store.UserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, gotAlice.Following)
	assert.Empty(t, gotBob.Followers)
}

func TestToggleFollow_SelfFollowRejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")

	_, err := svc.ToggleFollow(ctx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	got, err := store.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Followers)
	assert.Empty(t, got.Following)
}

func TestToggleFollow_UnknownUsers(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")

	_, err := svc.ToggleFollow(ctx, alice.ID, "missing")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.ToggleFollow(ctx, "missing", alice.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

// failingIdentity makes the second write of a follow toggle fail, leaving a
// one-sided edge.
type failingIdentity struct {
	*memory.Store
	failAddFollowing bool
}

func (f *failingIdentity) AddFollowing(ctx context.Context, userID, followingID string) error {
	if f.failAddFollowing {
		return errors.New("store unavailable")
	}
	return f.Store.AddFollowing(ctx, userID, followingID)
}

func TestToggleFollow_PartialFailureIsFlagged(t *testing.T) {
	store := memory.New()
	flaky := &failingIdentity{Store: store, failAddFollowing: true}
	svc := NewService(flaky, store, nil, nil, nil)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")
	bob := createTestUser(t, store, "bob", "Bob")

	_, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.True(t, IsPartial(err))

	// First write landed, second did not: one-sided edge for the repair job.
	gotBob, err := store.UserByID(ctx, bob.ID)
	require.NoError(t, err)
	gotAlice, err := store.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, gotBob.Followers)
	assert.Empty(t, gotAlice.Following)
}

func TestReconcileFollowGraph_HealsOneSidedEdges(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "alice", "Alice")
	bob := createTestUser(t, store, "bob", "Bob")
	carol := createTestUser(t, store, "carol", "Carol")

	// Half-edges in both directions, plus one intact edge that must survive.
	require.NoError(t, store.AddFollowing(ctx, alice.ID, bob.ID))
	require.NoError(t, store.AddFollower(ctx, carol.ID, bob.ID))
	_, err := svc.ToggleFollow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	healed, err := svc.ReconcileFollowGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, healed)

	gotAlice, _ := store.UserByID(ctx, alice.ID)
	gotBob, _ := store.UserByID(ctx, bob.ID)
	gotCarol, _ := store.UserByID(ctx, carol.ID)

	assert.Contains(t, gotBob.Followers, alice.ID)
	assert.Contains(t, gotBob.Following, carol.ID)
	assert.Contains(t, gotCarol.Followers, bob.ID)
	assert.Contains(t, gotAlice.Followers, carol.ID)
	assert.Contains(t, gotCarol.Following, alice.ID)

	// Second pass finds nothing left to heal.
	healed, err = svc.ReconcileFollowGraph(ctx)
	require.NoError(t, err)
	assert.Zero(t, healed)
}
