package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, client *http.Client, serverURL, authorID, text string) string {
	resp := postJSON(t, client, serverURL+"/api/posts/create", map[string]string{
		"posted_by": authorID,
		"text":      text,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreatePostHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, aliceID := newSession(t, server, "alice")
	_, bobID := newSession(t, server, "bob")

	postID := createPost(t, aliceClient, server.URL, aliceID, "hello threads")

	resp, err := http.Get(server.URL + "/api/posts/" + postID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "hello threads", body["text"])
	assert.Equal(t, aliceID, body["posted_by"])

	// Posting as somebody else is rejected.
	resp = postJSON(t, aliceClient, server.URL+"/api/posts/create", map[string]string{
		"posted_by": bobID,
		"text":      "impersonation",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Over-length text is rejected.
	resp = postJSON(t, aliceClient, server.URL+"/api/posts/create", map[string]string{
		"posted_by": aliceID,
		"text":      strings.Repeat("x", 501),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLikeUnlikeHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, aliceID := newSession(t, server, "alice")
	bobClient, _ := newSession(t, server, "bob")

	postID := createPost(t, aliceClient, server.URL, aliceID, "like me")

	like := func(client *http.Client) map[string]interface{} {
		req, err := http.NewRequest(http.MethodPut, server.URL+"/api/posts/like/"+postID, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decodeBody(t, resp)
	}

	body := like(bobClient)
	assert.Equal(t, true, body["liked"])
	body = like(bobClient)
	assert.Equal(t, false, body["liked"])
}

func TestReplyHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, aliceID := newSession(t, server, "alice")
	bobClient, _ := newSession(t, server, "bob")

	postID := createPost(t, aliceClient, server.URL, aliceID, "reply to me")

	resp := postJSON(t, bobClient, server.URL+"/api/posts/reply/"+postID, map[string]string{
		"text": "first!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "first!", body["text"])
	assert.Equal(t, "The bob", body["name"])

	resp = postJSON(t, bobClient, server.URL+"/api/posts/reply/"+postID, map[string]string{
		"text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFeedHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, _ := newSession(t, server, "alice")
	bobClient, bobID := newSession(t, server, "bob")

	createPost(t, bobClient, server.URL, bobID, "bob's post")

	// Empty follow set resolves to an empty feed, not an error.
	resp, err := aliceClient.Get(server.URL + "/api/posts/feed")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	resp.Body.Close()
	assert.Empty(t, feed)

	resp = postJSON(t, aliceClient, server.URL+"/api/users/follow/"+bobID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = aliceClient.Get(server.URL + "/api/posts/feed")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	resp.Body.Close()
	require.Len(t, feed, 1)
	assert.Equal(t, "bob's post", feed[0]["text"])
}

func TestDeletePostHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, aliceID := newSession(t, server, "alice")
	bobClient, _ := newSession(t, server, "bob")

	postID := createPost(t, aliceClient, server.URL, aliceID, "short-lived")

	del := func(client *http.Client) int {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/posts/"+postID, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, del(bobClient))
	assert.Equal(t, http.StatusOK, del(aliceClient))
	assert.Equal(t, http.StatusNotFound, del(aliceClient))
}

func TestGetUserPostsHandler(t *testing.T) {
	server, _ := newTestServer(t)
	aliceClient, aliceID := newSession(t, server, "alice")

	createPost(t, aliceClient, server.URL, aliceID, "one")
	createPost(t, aliceClient, server.URL, aliceID, "two")

	resp, err := http.Get(server.URL + "/api/posts/user/alice")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	resp.Body.Close()
	require.Len(t, posts, 2)
	assert.Equal(t, "two", posts[0]["text"])

	resp, err = http.Get(server.URL + "/api/posts/user/nobody")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
