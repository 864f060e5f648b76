package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aou-community/aubot/internal/domain"
)

func newTestClient(t *testing.T, apiHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "id", r.Form.Get("client_id"))
		fmt.Fprint(w, `{"access_token":"app-token","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(apiHandler)
	t.Cleanup(apiSrv.Close)

	return NewClient("id", "secret", WithEndpoints(tokenSrv.URL, apiSrv.URL)), apiSrv
}

func TestAuthenticate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app-token", c.token)
}

func TestUserByLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		assert.Equal(t, "id", r.Header.Get("Client-Id"))
		assert.Equal(t, "somestreamer", r.URL.Query().Get("login"))
		fmt.Fprint(w, `{"data":[{"id":"1234","login":"somestreamer","display_name":"SomeStreamer","profile_image_url":"https://cdn/img.png"}]}`)
	})
	require.NoError(t, c.Authenticate(context.Background()))

	user, err := c.UserByLogin(context.Background(), "SomeStreamer")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), user.ID)
	assert.Equal(t, "somestreamer", user.Login)
	assert.Equal(t, "https://www.twitch.tv/somestreamer", user.ChannelURL())
}

func TestUserByLogin_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.UserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrTwitchUserNotFound)
}

func TestUserByLogin_APIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Unauthorized","status":401,"message":"Invalid OAuth token"}`)
	})
	require.NoError(t, c.Authenticate(context.Background()))

	_, err := c.UserByLogin(context.Background(), "anyone")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTwitchUserNotFound)
	assert.Contains(t, err.Error(), "Invalid OAuth token")
}

func TestUserByLogin_CachesLookups(t *testing.T) {
	var calls int64
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, `{"data":[{"id":"42","login":"cached","display_name":"Cached","profile_image_url":""}]}`)
	})
	require.NoError(t, c.Authenticate(context.Background()))

	for i := 0; i < 3; i++ {
		_, err := c.UserByLogin(context.Background(), "cached")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestNormalizeLogin(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SomeStreamer", "somestreamer"},
		{"https://twitch.tv/SomeStreamer", "somestreamer"},
		{"http://www.twitch.tv/somestreamer/", "somestreamer"},
		{"twitch.tv/somestreamer", "somestreamer"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeLogin(tc.in), "input %q", tc.in)
	}
}
