package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/handlers"
	"github.com/epicgamers652-droid/IN-APP/internal/service"
)

type stubAuth struct{}

func (stubAuth) Authenticate(ctx context.Context, c service.Credentials) (*service.AuthResult, error) {
	return nil, domain.ErrUserNotFound
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token == "good" {
		return "u1", nil
	}
	return "", errors.New("bad token")
}

func TestRateLimiting(t *testing.T) {
	// Only the auth handler is needed; the limiter sits in front of it.
	h := Handlers{Auth: handlers.NewAuthHandler(stubAuth{})}
	handler := NewRouter(h, stubVerifier{}, Options{ServiceName: "test", AuthRateLimitPerMin: 10})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := server.Client()

	for i := 0; i < 10; i++ {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/auth", strings.NewReader(`{"username":"a","password":"b"}`))
		res, err := client.Do(req)
		require.NoError(t, err, "request %d", i)
		res.Body.Close()
		if res.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("request %d got 429 too early", i)
		}
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/auth", strings.NewReader(`{}`))
	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := NewRouter(Handlers{}, stubVerifier{}, Options{ServiceName: "test"})

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/p1/like"},
		{http.MethodPost, "/api/posts/p1/comments"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodPost, "/api/users/u2/follow"},
		{http.MethodPost, "/api/stories"},
		{http.MethodPost, "/api/stories/s1/view"},
		{http.MethodGet, "/api/messages?otherUserId=u2"},
		{http.MethodPost, "/api/messages"},
		{http.MethodPost, "/api/messages/read"},
		{http.MethodGet, "/api/conversations"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", "Bearer nope")
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	handler := NewRouter(Handlers{}, stubVerifier{}, Options{ServiceName: "test"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type deadlineAuth struct {
	left time.Duration
	ok   bool
}

func (a *deadlineAuth) Authenticate(ctx context.Context, c service.Credentials) (*service.AuthResult, error) {
	var dl time.Time
	dl, a.ok = ctx.Deadline()
	a.left = time.Until(dl)
	return nil, domain.ErrUserNotFound
}

func TestDefaultRequestTimeout(t *testing.T) {
	auth := &deadlineAuth{}
	handler := NewRouter(Handlers{Auth: handlers.NewAuthHandler(auth)}, stubVerifier{}, Options{ServiceName: "test", AuthRateLimitPerMin: 10})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"username":"a","password":"b"}`)))

	require.True(t, auth.ok)
	assert.LessOrEqual(t, auth.left, DefaultRequestTimeout)
	assert.Less(t, DefaultRequestTimeout, 10*time.Second)
}
