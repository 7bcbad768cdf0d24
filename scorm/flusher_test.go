package scorm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFlusherPostsProgress(t *testing.T) {
	const secret = "flush-test-secret"

	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	flusher := NewHTTPFlusher(server.URL, secret)
	err := flusher.Flush(FlushPayload{
		UserID:          "user-1",
		CourseID:        "scorm-course-3",
		Progress:        76,
		ScormData:       map[string]string{"cmi.core.score.raw": "76"},
		CurrentLocation: "page-4",
		SuspendData:     "blob",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/scorm/progress", gotPath)
	assert.Equal(t, "scorm-course-3", gotBody["courseId"])
	assert.Equal(t, float64(76), gotBody["progress"])
	assert.Equal(t, "page-4", gotBody["currentLocation"])
	assert.Equal(t, "blob", gotBody["suspendData"])

	// the minted token authenticates as the session's user
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	token, err := jwt.Parse(strings.TrimPrefix(gotAuth, "Bearer "), func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["userId"])
}

func TestHTTPFlusherReportsEndpointErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	flusher := NewHTTPFlusher(server.URL, "flush-test-secret")
	err := flusher.Flush(FlushPayload{UserID: "user-1", CourseID: "scorm-course-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress endpoint")
}
