package transport

import (
	"errors"
	"net/http"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"go.uber.org/zap"
)

type mapping struct {
	status  int
	message string
}

var errorTable = []struct {
	err error
	mapping
}{
	{domain.ErrMissingCredentials, mapping{http.StatusBadRequest, "Username and password are required"}},
	{domain.ErrUsernameExists, mapping{http.StatusBadRequest, "Username already exists"}},
	{domain.ErrUsernameTaken, mapping{http.StatusBadRequest, "Username taken"}},
	{domain.ErrUserNotFound, mapping{http.StatusNotFound, "User not found"}},
	{domain.ErrInvalidPassword, mapping{http.StatusUnauthorized, "Invalid password"}},
	{domain.ErrPasswordTooLong, mapping{http.StatusBadRequest, "Password must be at most 72 bytes"}},
	{domain.ErrSelfFollow, mapping{http.StatusBadRequest, "You cannot follow yourself"}},
	{domain.ErrEmptyPost, mapping{http.StatusBadRequest, "Post content is required"}},
	{domain.ErrPostNotFound, mapping{http.StatusNotFound, "Post not found"}},
	{domain.ErrEmptyComment, mapping{http.StatusBadRequest, "Comment text is required"}},
	{domain.ErrEmptyStory, mapping{http.StatusBadRequest, "Story image is required"}},
	{domain.ErrStoryNotFound, mapping{http.StatusNotFound, "Story not found"}},
	{domain.ErrInvalidMessage, mapping{http.StatusBadRequest, "Recipient and content are required"}},
	{domain.ErrMessageTooLarge, mapping{http.StatusBadRequest, "Message is too long"}},
	{domain.ErrInvalidInput, mapping{http.StatusBadRequest, "Invalid input"}},
}

// Status returns the HTTP status and public message for err. Unknown errors
// map to 500 with fallback as the message.
func Status(err error, fallback string) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, fallback
}

// MapError writes err as a JSON error response. Unmapped errors are logged
// and reported as fallback with status 500.
func MapError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := Status(err, fallback)
	if status == http.StatusInternalServerError {
		observability.GetLogger(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteError(w, status, msg)
}
