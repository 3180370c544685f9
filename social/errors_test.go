package social

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"threadloom.com/threadloom-backend/storage"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(notFound("gone")))
	assert.Equal(t, KindConflict, KindOf(conflict("taken")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))

	// Kinds survive wrapping.
	wrapped := fmt.Errorf("handler: %w", invalidArgument("bad input"))
	assert.Equal(t, KindInvalidArgument, KindOf(wrapped))
}

func TestWrapStoreMapsSentinels(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(wrapStore(storage.ErrNotFound, "user not found")))
	assert.Equal(t, KindConflict, KindOf(wrapStore(storage.ErrAlreadyExists, "user already exists")))
	assert.Equal(t, KindUpstream, KindOf(wrapStore(errors.New("connection reset"), "query failed")))
}

func TestIsPartial(t *testing.T) {
	err := partialUpstream("unfollow applied on one side only", errors.New("boom"))
	assert.True(t, IsPartial(err))
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.False(t, IsPartial(upstream("query failed", errors.New("boom"))))
	assert.False(t, IsPartial(nil))
}
